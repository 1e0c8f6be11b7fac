package token

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/weavetest/assert"
	"github.com/iov-one/tokenswap/x/system"
)

var tokenID = tokenswap.DefaultProgramIDs().Token

func register(rt *runtime.Runtime) {
	rt.Register("system", system.ProgramID, system.New())
	rt.Register("token", tokenID, New())
}

type fixture struct {
	l         *weavetest.Ledger
	authority *crypto.PrivateKey
	mint      tokenswap.Address
	alice     *crypto.PrivateKey
	bob       *crypto.PrivateKey
	aliceAcct tokenswap.Address
	bobAcct   tokenswap.Address
}

// newFixture creates a mint with 6 decimals and two token accounts, alice's
// holding 1000 units.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		l:         weavetest.NewLedger(t, register),
		authority: weavetest.KeyFor("authority"),
		alice:     weavetest.KeyFor("alice"),
		bob:       weavetest.KeyFor("bob"),
	}
	rent := tokenswap.DefaultRent()
	f.l.Fund(1000000000, f.authority.PublicKey(), f.alice.PublicKey(), f.bob.PublicKey())

	mint := weavetest.NewKey()
	f.mint = mint.PublicKey()
	f.l.MustExec(weavetest.Signers(f.authority, mint),
		CreateMint(tokenID, f.authority.PublicKey(), f.mint, f.authority.PublicKey(), 6, rent)...)

	aliceAcct, bobAcct := weavetest.NewKey(), weavetest.NewKey()
	f.aliceAcct, f.bobAcct = aliceAcct.PublicKey(), bobAcct.PublicKey()
	ixs := CreateAccount(tokenID, f.alice.PublicKey(), f.aliceAcct, f.mint, f.alice.PublicKey(), rent)
	ixs = append(ixs, CreateAccount(tokenID, f.bob.PublicKey(), f.bobAcct, f.mint, f.bob.PublicKey(), rent)...)
	f.l.MustExec(weavetest.Signers(f.alice, aliceAcct, f.bob, bobAcct), ixs...)

	f.l.MustExec(weavetest.Signers(f.authority),
		MintTo(tokenID, f.mint, f.aliceAcct, f.authority.PublicKey(), 1000))
	return f
}

func (f *fixture) balance(t *testing.T, addr tokenswap.Address) uint64 {
	t.Helper()
	acc := f.l.Get(addr)
	if acc == nil {
		t.Fatalf("no token account %s", addr)
	}
	a, err := UnmarshalAccount(acc.Data)
	assert.Nil(t, err)
	return a.Amount
}

func TestTransfer(t *testing.T) {
	cases := map[string]struct {
		build     func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction)
		wantErr   *errors.Error
		wantAlice uint64
		wantBob   uint64
	}{
		"success": {
			build: func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction) {
				return weavetest.Signers(f.alice), Transfer(tokenID, f.aliceAcct, f.bobAcct, f.alice.PublicKey(), 300)
			},
			wantAlice: 700,
			wantBob:   300,
		},
		"insufficient balance": {
			build: func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction) {
				return weavetest.Signers(f.alice), Transfer(tokenID, f.aliceAcct, f.bobAcct, f.alice.PublicKey(), 1001)
			},
			wantErr:   errors.ErrInsufficientFunds,
			wantAlice: 1000,
		},
		"authority is not the owner": {
			build: func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction) {
				return weavetest.Signers(f.bob), Transfer(tokenID, f.aliceAcct, f.bobAcct, f.bob.PublicKey(), 1)
			},
			wantErr:   errors.ErrMissingAuthorization,
			wantAlice: 1000,
		},
		"authority did not sign": {
			build: func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction) {
				ix := Transfer(tokenID, f.aliceAcct, f.bobAcct, f.alice.PublicKey(), 1)
				ix.Accounts[2].IsSigner = false
				return weavetest.Signers(f.bob), ix
			},
			wantErr:   errors.ErrMissingAuthorization,
			wantAlice: 1000,
		},
		"destination is a wallet": {
			build: func(f *fixture) ([]tokenswap.Signer, tokenswap.Instruction) {
				return weavetest.Signers(f.alice), Transfer(tokenID, f.aliceAcct, f.bob.PublicKey(), f.alice.PublicKey(), 1)
			},
			wantErr:   errors.ErrNotOwnedByProgram,
			wantAlice: 1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signers, ix := tc.build(f)
			err := f.l.Exec(signers, ix)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantAlice, f.balance(t, f.aliceAcct))
			assert.Equal(t, tc.wantBob, f.balance(t, f.bobAcct))
		})
	}
}

func TestTransferAcrossMints(t *testing.T) {
	f := newFixture(t)
	rent := tokenswap.DefaultRent()

	other := weavetest.NewKey()
	f.l.MustExec(weavetest.Signers(f.authority, other),
		CreateMint(tokenID, f.authority.PublicKey(), other.PublicKey(), f.authority.PublicKey(), 0, rent)...)
	foreign := weavetest.NewKey()
	f.l.MustExec(weavetest.Signers(f.bob, foreign),
		CreateAccount(tokenID, f.bob.PublicKey(), foreign.PublicKey(), other.PublicKey(), f.bob.PublicKey(), rent)...)

	err := f.l.Exec(weavetest.Signers(f.alice), Transfer(tokenID, f.aliceAcct, foreign.PublicKey(), f.alice.PublicKey(), 1))
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)

	err := f.l.Exec(weavetest.Signers(f.alice), MintTo(tokenID, f.mint, f.aliceAcct, f.alice.PublicKey(), 1))
	assert.IsErr(t, errors.ErrMissingAuthorization, err)

	f.l.MustExec(weavetest.Signers(f.authority), MintTo(tokenID, f.mint, f.bobAcct, f.authority.PublicKey(), 5))
	assert.Equal(t, uint64(5), f.balance(t, f.bobAcct))

	m, err := UnmarshalMint(f.l.Get(f.mint).Data)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1005), m.Supply)
	assert.Equal(t, uint8(6), m.Decimals)
}

func TestInitializeTwice(t *testing.T) {
	f := newFixture(t)
	err := f.l.Exec(nil, InitializeAccount(tokenID, f.aliceAcct, f.mint, f.bob.PublicKey()))
	assert.IsErr(t, errors.ErrAccountInUse, err)
	err = f.l.Exec(nil, InitializeMint(tokenID, f.mint, f.bob.PublicKey(), 2))
	assert.IsErr(t, errors.ErrAccountInUse, err)
}

func TestCloseAccount(t *testing.T) {
	f := newFixture(t)
	reserve := f.l.Lamports(f.aliceAcct)
	before := f.l.Lamports(f.alice.PublicKey())

	err := f.l.Exec(weavetest.Signers(f.alice), CloseAccount(tokenID, f.aliceAcct, f.alice.PublicKey(), f.alice.PublicKey()))
	assert.IsErr(t, errors.ErrInvalidInput, err)

	f.l.MustExec(weavetest.Signers(f.alice),
		Transfer(tokenID, f.aliceAcct, f.bobAcct, f.alice.PublicKey(), 1000),
		CloseAccount(tokenID, f.aliceAcct, f.alice.PublicKey(), f.alice.PublicKey()))

	if f.l.Get(f.aliceAcct) != nil {
		t.Fatal("closed account still exists")
	}
	assert.Equal(t, before+reserve, f.l.Lamports(f.alice.PublicKey()))
	assert.Equal(t, uint64(1000), f.balance(t, f.bobAcct))
}
