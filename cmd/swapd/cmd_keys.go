package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap/crypto"
)

func cmdKeys(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List the keys of the keyring with their addresses. With -new, generate a key
under the given name first. An existing key is never overwritten.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = flHome(fl)
		newFl  = fl.String("new", "", "Name of a key to generate.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	if *newFl != "" {
		if _, err := n.newKey(*newFl); err != nil {
			return err
		}
		if err := n.saveKeys(); err != nil {
			return err
		}
	}
	return printKeys(output, n.keys)
}

func printKeys(output io.Writer, kr crypto.Keyring) error {
	for _, name := range kr.Names() {
		if _, err := fmt.Fprintf(output, "%s\t%s\n", name, kr[name].PublicKey()); err != nil {
			return err
		}
	}
	return nil
}
