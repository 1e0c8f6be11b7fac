package weavetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/store"
)

// Ledger is a runtime over an in memory store with helpers for tests.
type Ledger struct {
	*runtime.Runtime
	t testing.TB
}

// NewLedger creates a ledger with the default configuration. Use register to
// add the programs under test.
func NewLedger(t testing.TB, register func(*runtime.Runtime), opts ...runtime.Option) *Ledger {
	rt := runtime.New(store.MemStore(), runtime.DefaultConfig(), nil, opts...)
	register(rt)
	return &Ledger{Runtime: rt, t: t}
}

// Fund creates the wallets with the given lamports at genesis.
func (l *Ledger) Fund(lamports uint64, addrs ...tokenswap.Address) {
	l.t.Helper()
	accts := make([]runtime.GenesisAccount, len(addrs))
	for i, a := range addrs {
		accts[i] = runtime.GenesisAccount{Address: a, Lamports: lamports}
	}
	raw, err := json.Marshal(accts)
	if err != nil {
		l.t.Fatalf("cannot marshal genesis: %s", err)
	}
	if err := l.InitState(tokenswap.Options{"accounts": raw}); err != nil {
		l.t.Fatalf("cannot fund: %+v", err)
	}
}

// Exec signs a transaction of the instructions and executes it.
func (l *Ledger) Exec(signers []tokenswap.Signer, ixs ...tokenswap.Instruction) error {
	tx := tokenswap.NewTx(ixs...)
	if err := tx.Sign(signers...); err != nil {
		return err
	}
	return l.Execute(context.Background(), tx)
}

// MustExec is Exec that fails the test on error.
func (l *Ledger) MustExec(signers []tokenswap.Signer, ixs ...tokenswap.Instruction) {
	l.t.Helper()
	if err := l.Exec(signers, ixs...); err != nil {
		l.t.Fatalf("cannot execute: %+v", err)
	}
}

// Get returns the stored account or nil.
func (l *Ledger) Get(addr tokenswap.Address) *tokenswap.Account {
	l.t.Helper()
	acc, err := l.Account(addr)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	if err != nil {
		l.t.Fatalf("cannot load %s: %+v", addr, err)
	}
	return acc
}

// Lamports returns the native balance, zero for a missing account.
func (l *Ledger) Lamports(addr tokenswap.Address) uint64 {
	l.t.Helper()
	if acc := l.Get(addr); acc != nil {
		return acc.Lamports
	}
	return 0
}

// Signers is a shorthand for a signer list.
func Signers(s ...tokenswap.Signer) []tokenswap.Signer {
	return s
}
