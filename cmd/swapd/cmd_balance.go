package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap/x/token"
)

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the lamports of a wallet and the balance of every token account it
holds.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		walletFl = fl.String("wallet", "", "Key name or address of the wallet.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	wallet, err := n.resolve(*walletFl)
	if err != nil {
		return err
	}
	var lamports uint64
	if ok, err := n.exists(wallet); err != nil {
		return err
	} else if ok {
		acc, err := n.rt.Account(wallet)
		if err != nil {
			return err
		}
		lamports = acc.Lamports
	}
	if _, err := fmt.Fprintf(output, "lamports\t%d\n", lamports); err != nil {
		return err
	}

	entries, err := n.rt.AccountsByOwner(n.ids.Token)
	if err != nil {
		return err
	}
	for _, e := range entries {
		held, err := token.UnmarshalAccount(e.Account.Data)
		if err != nil || held.Owner != wallet {
			continue
		}
		_, err = fmt.Fprintf(output, "%s\t%s\t%s\n", n.label(held.Mint), token.FormatAmount(held.Amount, n.decimals(held.Mint)), e.Key)
		if err != nil {
			return err
		}
	}
	return nil
}
