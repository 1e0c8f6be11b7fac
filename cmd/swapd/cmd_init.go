package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"sort"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/x/ata"
	"github.com/iov-one/tokenswap/x/token"
)

// setup describes the ledger created by init.
type setup struct {
	ChainID string `json:"chain_id"`
	// Wallets maps key names to their initial lamports.
	Wallets map[string]uint64 `json:"wallets"`
	Mints   []mintSetup       `json:"mints"`
}

type mintSetup struct {
	Name      string `json:"name"`
	Decimals  uint8  `json:"decimals"`
	Authority string `json:"authority"`
	// Holders maps wallet names to a decimal amount of whole tokens.
	Holders map[string]string `json:"holders"`
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a new ledger from a setup file.

The setup file is a JSON document listing the wallets to fund and the mints
to create. A key is generated for every wallet and every mint. Holders of a
mint get an associated token account with the given amount. When no setup
file is given, the setup is read from stdin.

  {
    "chain_id": "swap-local",
    "wallets": {"alice": 10000000000, "bob": 10000000000},
    "mints": [
      {"name": "gold", "decimals": 6, "authority": "alice",
       "holders": {"alice": "500"}}
    ]
  }
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = flHome(fl)
		setupFl = fl.String("setup", "", "Path to the setup file. Stdin is used if not provided.")
	)
	fl.Parse(args)

	var raw []byte
	var err error
	if *setupFl == "" {
		raw, err = ioutil.ReadAll(input)
	} else {
		raw, err = ioutil.ReadFile(*setupFl)
	}
	if err != nil {
		return fmt.Errorf("cannot read setup: %s", err)
	}
	var s setup
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("cannot decode setup: %s", err)
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := writeConfig(*homeFl, n.conf); err != nil {
		return err
	}

	names := make([]string, 0, len(s.Wallets))
	for name := range s.Wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	accounts := make([]runtime.GenesisAccount, 0, len(names))
	for _, name := range names {
		k, err := n.newKey(name)
		if err != nil {
			return err
		}
		accounts = append(accounts, runtime.GenesisAccount{Address: k.PublicKey(), Lamports: s.Wallets[name]})
	}
	for _, m := range s.Mints {
		if _, err := n.newKey(m.Name); err != nil {
			return err
		}
	}

	rawAccounts, err := json.Marshal(accounts)
	if err != nil {
		return errors.Wrap(err, "genesis accounts")
	}
	gen := app.Genesis{
		ChainID:    s.ChainID,
		AppOptions: tokenswap.Options{"accounts": rawAccounts},
	}
	if err := app.InitChain(n.db, n.rt, gen); err != nil {
		return err
	}
	// Keys are stored once the ledger accepted the genesis.
	if err := n.saveKeys(); err != nil {
		return err
	}

	for _, m := range s.Mints {
		if err := n.createMint(m); err != nil {
			return errors.Wrapf(err, "mint %q", m.Name)
		}
	}

	return printKeys(output, n.keys)
}

// newKey generates a key under a name that is not taken yet.
func (n *node) newKey(name string) (*crypto.PrivateKey, error) {
	if _, ok := n.keys[name]; ok {
		return nil, errors.Wrapf(errors.ErrAccountInUse, "key %q", name)
	}
	k := crypto.GenPrivKey()
	n.keys[name] = k
	return k, nil
}

func (n *node) createMint(m mintSetup) error {
	authority, err := n.keys.Get(m.Authority)
	if err != nil {
		return err
	}
	mint, err := n.keys.Get(m.Name)
	if err != nil {
		return err
	}
	ixs := token.CreateMint(n.ids.Token, authority.PublicKey(), mint.PublicKey(), authority.PublicKey(), m.Decimals, n.conf.Ledger.Rent)
	if err := n.exec([]tokenswap.Signer{authority, mint}, ixs...); err != nil {
		return err
	}

	holders := make([]string, 0, len(m.Holders))
	for name := range m.Holders {
		holders = append(holders, name)
	}
	sort.Strings(holders)
	ixs = nil
	for _, name := range holders {
		holder, err := n.resolve(name)
		if err != nil {
			return err
		}
		amount, err := token.ParseAmount(m.Holders[name], m.Decimals)
		if err != nil {
			return errors.Wrapf(err, "holder %q", name)
		}
		ixs = append(ixs,
			ata.Create(n.ids, authority.PublicKey(), holder, mint.PublicKey()),
			token.MintTo(n.ids.Token, mint.PublicKey(), ata.Address(n.ids, holder, mint.PublicKey()), authority.PublicKey(), amount),
		)
	}
	if len(ixs) == 0 {
		return nil
	}
	return n.exec([]tokenswap.Signer{authority}, ixs...)
}
