package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/tendermint/tendermint/libs/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	keysFile = "keys.json"
	dataDir  = "data"
)

// node is a ledger opened from a home directory.
type node struct {
	home   string
	conf   Config
	ids    tokenswap.ProgramIDs
	db     *store.LevelDB
	rt     *runtime.Runtime
	keys   crypto.Keyring
	logger log.Logger
	logw   io.Closer
}

func openNode(home string) (*node, error) {
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, errors.Wrap(err, "home directory")
	}
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, logw, err := newLogger(home, conf)
	if err != nil {
		return nil, err
	}
	keys, err := crypto.LoadKeyring(filepath.Join(home, keysFile))
	if err != nil {
		logw.Close()
		return nil, err
	}
	db, err := store.OpenLevelDB(filepath.Join(home, dataDir))
	if err != nil {
		logw.Close()
		return nil, err
	}
	if err := app.CheckConfig(db, conf.Ledger); err != nil {
		db.Close()
		logw.Close()
		return nil, errors.Wrap(err, "config.toml")
	}
	return &node{
		home:   home,
		conf:   conf,
		ids:    conf.Ledger.Programs,
		db:     db,
		rt:     app.New(db, conf.Ledger, logger),
		keys:   keys,
		logger: logger,
		logw:   logw,
	}, nil
}

// newLogger writes leveled logs to the rotated log file of the home
// directory.
func newLogger(home string, conf Config) (log.Logger, io.Closer, error) {
	allow, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	path := conf.LogFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    conf.LogMaxSizeMB,
		MaxBackups: 3,
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "swapd")
	return log.NewFilter(logger, allow), w, nil
}

func (n *node) Close() error {
	err := n.db.Close()
	n.logw.Close()
	return err
}

func (n *node) saveKeys() error {
	return n.keys.Save(filepath.Join(n.home, keysFile))
}

// exec signs a transaction of the instructions and executes it.
func (n *node) exec(signers []tokenswap.Signer, ixs ...tokenswap.Instruction) error {
	tx := tokenswap.NewTx(ixs...)
	if err := tx.Sign(signers...); err != nil {
		return err
	}
	return n.rt.Execute(context.Background(), tx)
}

// resolve accepts either the name of a key in the keyring or an address.
func (n *node) resolve(s string) (tokenswap.Address, error) {
	if k, ok := n.keys[s]; ok {
		return k.PublicKey(), nil
	}
	addr, err := tokenswap.ParseAddress(s)
	if err != nil {
		return addr, errors.Wrapf(errors.ErrNotFound, "%q is neither a key name nor an address", s)
	}
	return addr, nil
}

// label returns the key name of addr, or the address itself.
func (n *node) label(addr tokenswap.Address) string {
	for _, name := range n.keys.Names() {
		if n.keys[name].PublicKey() == addr {
			return name
		}
	}
	return addr.String()
}

// exists reports whether anything is stored at addr.
func (n *node) exists(addr tokenswap.Address) (bool, error) {
	_, err := n.rt.Account(addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (n *node) mint(addr tokenswap.Address) (token.Mint, error) {
	acc, err := n.rt.Account(addr)
	if err != nil {
		return token.Mint{}, err
	}
	if acc.Owner != n.ids.Token {
		return token.Mint{}, errors.Wrapf(errors.ErrNotOwnedByProgram, "%s is not a mint", addr)
	}
	return token.UnmarshalMint(acc.Data)
}

// escrow loads the record stored at addr.
func (n *node) escrow(addr tokenswap.Address) (escrow.Escrow, error) {
	acc, err := n.rt.Account(addr)
	if err != nil {
		return escrow.Escrow{}, err
	}
	if acc.Owner != n.ids.Escrow {
		return escrow.Escrow{}, errors.Wrapf(errors.ErrNotOwnedByProgram, "%s is not an escrow", addr)
	}
	return escrow.UnmarshalEscrow(acc.Data)
}

// deposited returns the amount of mint A held by the vault of the escrow at
// addr. Take and refund pay out exactly this.
func (n *node) deposited(addr tokenswap.Address, rec escrow.Escrow) (uint64, error) {
	acc, err := n.rt.Account(escrow.VaultAddress(n.ids, addr, rec.MintA))
	if err != nil {
		return 0, errors.Wrap(err, "vault")
	}
	vault, err := token.UnmarshalAccount(acc.Data)
	if err != nil {
		return 0, err
	}
	return vault.Amount, nil
}

// decimals of mint, zero if the mint cannot be read.
func (n *node) decimals(mint tokenswap.Address) uint8 {
	m, err := n.mint(mint)
	if err != nil {
		return 0
	}
	return m.Decimals
}
