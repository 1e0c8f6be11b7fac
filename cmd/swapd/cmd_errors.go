package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap/errors"
)

func cmdErrors(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List the code and description of every error a command or program can fail
with.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	for _, e := range errors.Registered() {
		if _, err := fmt.Fprintf(output, "%d\t%s\n", e.Code(), e.Error()); err != nil {
			return err
		}
	}
	return nil
}
