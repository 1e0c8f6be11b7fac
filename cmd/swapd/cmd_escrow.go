package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/ata"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
)

func cmdMake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open an escrow. The maker deposits the given amount of mint A into a vault
and asks for an amount of mint B in return. Amounts are decimal numbers of
whole tokens. The escrow address is printed on success.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		makerFl   = fl.String("maker", "", "Name of the maker key.")
		mintAFl   = fl.String("mint-a", "", "Mint deposited by the maker, a key name or an address.")
		mintBFl   = fl.String("mint-b", "", "Mint asked for in return, a key name or an address.")
		giveFl    = fl.String("give", "", "Amount of mint A deposited.")
		receiveFl = fl.String("receive", "", "Amount of mint B asked for.")
		bumpFl    = fl.Int("bump", -1, "Bump of the escrow address. The canonical bump is used if not provided.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	maker, err := n.keys.Get(*makerFl)
	if err != nil {
		return err
	}
	mintA, err := n.resolve(*mintAFl)
	if err != nil {
		return err
	}
	mintB, err := n.resolve(*mintBFl)
	if err != nil {
		return err
	}
	msg, err := n.makeMsg(maker.PublicKey(), mintA, mintB, *giveFl, *receiveFl, *bumpFl)
	if err != nil {
		return err
	}
	ix, err := escrow.MakeInstruction(n.ids, maker.PublicKey(), mintA, mintB, msg)
	if err != nil {
		return err
	}
	if err := n.exec([]tokenswap.Signer{maker}, ix); err != nil {
		return err
	}
	addr, err := escrow.EscrowAddress(n.ids, maker.PublicKey(), msg.Bump)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}

func (n *node) makeMsg(maker, mintA, mintB tokenswap.Address, give, receive string, bump int) (escrow.MakeMsg, error) {
	var msg escrow.MakeMsg
	a, err := n.mint(mintA)
	if err != nil {
		return msg, err
	}
	b, err := n.mint(mintB)
	if err != nil {
		return msg, err
	}
	if msg.AmountToGive, err = token.ParseAmount(give, a.Decimals); err != nil {
		return msg, err
	}
	if msg.AmountToReceive, err = token.ParseAmount(receive, b.Decimals); err != nil {
		return msg, err
	}
	if bump < 0 {
		_, canonical, err := escrow.FindEscrowAddress(n.ids, maker)
		if err != nil {
			return msg, err
		}
		msg.Bump = canonical
	} else {
		if bump > 255 {
			return msg, errors.Wrapf(errors.ErrInvalidInput, "bump %d is out of range", bump)
		}
		msg.Bump = uint8(bump)
	}
	return msg, msg.Validate()
}

func cmdTake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Take an escrow. The taker pays the asked amount of mint B to the maker and
receives the whole vault. Missing associated token accounts of the maker for
mint B and of the taker for mint A are created first, paid by the taker.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		takerFl  = fl.String("taker", "", "Name of the taker key.")
		escrowFl = fl.String("escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	taker, err := n.keys.Get(*takerFl)
	if err != nil {
		return err
	}
	addr, err := tokenswap.ParseAddress(*escrowFl)
	if err != nil {
		return err
	}
	rec, err := n.escrow(addr)
	if err != nil {
		return err
	}

	var ixs []tokenswap.Instruction
	for _, need := range []struct{ wallet, mint tokenswap.Address }{
		{rec.Maker, rec.MintB},
		{taker.PublicKey(), rec.MintA},
	} {
		ok, err := n.exists(ata.Address(n.ids, need.wallet, need.mint))
		if err != nil {
			return err
		}
		if !ok {
			ixs = append(ixs, ata.Create(n.ids, taker.PublicKey(), need.wallet, need.mint))
		}
	}
	take, err := escrow.TakeInstruction(n.ids, taker.PublicKey(), rec)
	if err != nil {
		return err
	}
	received, err := n.deposited(addr, rec)
	if err != nil {
		return err
	}
	if err := n.exec([]tokenswap.Signer{taker}, append(ixs, take)...); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "received %s of %s, paid %s of %s\n",
		token.FormatAmount(received, n.decimals(rec.MintA)), n.label(rec.MintA),
		token.FormatAmount(rec.AmountToReceive, n.decimals(rec.MintB)), n.label(rec.MintB))
	return err
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Cancel an escrow. The vault goes back to the maker and the escrow is closed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		makerFl  = fl.String("maker", "", "Name of the maker key.")
		escrowFl = fl.String("escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	maker, err := n.keys.Get(*makerFl)
	if err != nil {
		return err
	}
	addr, err := tokenswap.ParseAddress(*escrowFl)
	if err != nil {
		return err
	}
	rec, err := n.escrow(addr)
	if err != nil {
		return err
	}
	ix, err := escrow.RefundInstruction(n.ids, rec)
	if err != nil {
		return err
	}
	if err := n.exec([]tokenswap.Signer{maker}, ix); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "refunded %s\n", addr)
	return err
}

func cmdEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List all open escrows: address, maker, deposit held by the vault and the
amount asked for.
`)
		fl.PrintDefaults()
	}
	homeFl := flHome(fl)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	open, err := escrow.OpenEscrows(n.rt, n.ids)
	if err != nil {
		return err
	}
	for _, o := range open {
		_, err := fmt.Fprintf(output, "%s\tmaker=%s\tgive=%s %s\treceive=%s %s\n",
			o.Address, n.label(o.Maker),
			token.FormatAmount(o.Deposited, n.decimals(o.MintA)), n.label(o.MintA),
			token.FormatAmount(o.AmountToReceive, n.decimals(o.MintB)), n.label(o.MintB))
		if err != nil {
			return err
		}
	}
	return nil
}
