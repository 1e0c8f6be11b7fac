package escrow

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/weavetest/assert"
	"github.com/iov-one/tokenswap/x/ata"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
	. "github.com/smartystreets/goconvey/convey"
)

var ids = tokenswap.DefaultProgramIDs()

const (
	give    uint64 = 500000000
	receive uint64 = 100000000
	funding uint64 = 10000000000
)

func register(rt *runtime.Runtime) {
	rt.Register("system", ids.System, system.New())
	rt.Register("token", ids.Token, token.New())
	rt.Register("ata", ids.ATA, ata.New())
	rt.Register("escrow", ids.Escrow, New(ids))
}

// env is a ledger where the maker holds 500,000,000 of mint A and the taker
// holds 100,000,000 of mint B. Both already have associated accounts for
// both mints.
type env struct {
	l     *weavetest.Ledger
	maker *crypto.PrivateKey
	taker *crypto.PrivateKey
	mintA tokenswap.Address
	mintB tokenswap.Address
}

func newEnv(t testing.TB) *env {
	e := &env{
		l:     weavetest.NewLedger(t, register),
		maker: weavetest.KeyFor("maker"),
		taker: weavetest.KeyFor("taker"),
	}
	authority := weavetest.KeyFor("authority")
	e.l.Fund(funding, authority.PublicKey(), e.maker.PublicKey(), e.taker.PublicKey())

	rent := tokenswap.DefaultRent()
	mintA, mintB := weavetest.NewKey(), weavetest.NewKey()
	e.mintA, e.mintB = mintA.PublicKey(), mintB.PublicKey()
	ixs := token.CreateMint(ids.Token, authority.PublicKey(), e.mintA, authority.PublicKey(), 6, rent)
	ixs = append(ixs, token.CreateMint(ids.Token, authority.PublicKey(), e.mintB, authority.PublicKey(), 6, rent)...)
	e.l.MustExec(weavetest.Signers(authority, mintA, mintB), ixs...)

	e.l.MustExec(weavetest.Signers(authority),
		ata.Create(ids, authority.PublicKey(), e.maker.PublicKey(), e.mintA),
		ata.Create(ids, authority.PublicKey(), e.maker.PublicKey(), e.mintB),
		ata.Create(ids, authority.PublicKey(), e.taker.PublicKey(), e.mintA),
		ata.Create(ids, authority.PublicKey(), e.taker.PublicKey(), e.mintB),
		token.MintTo(ids.Token, e.mintA, e.ata(e.maker, e.mintA), authority.PublicKey(), give),
		token.MintTo(ids.Token, e.mintB, e.ata(e.taker, e.mintB), authority.PublicKey(), receive),
	)
	return e
}

func (e *env) ata(owner tokenswap.Signer, mint tokenswap.Address) tokenswap.Address {
	return ata.Address(ids, owner.PublicKey(), mint)
}

// balance returns the token amount held at addr, zero if nothing is there.
func (e *env) balance(addr tokenswap.Address) uint64 {
	acc := e.l.Get(addr)
	if acc == nil {
		return 0
	}
	state, err := token.UnmarshalAccount(acc.Data)
	if err != nil {
		return 0
	}
	return state.Amount
}

// open runs a Make with the canonical bump and returns the record the
// program should have stored.
func (e *env) open(t testing.TB, toGive, toReceive uint64) Escrow {
	t.Helper()
	ix, rec := e.makeInstruction(t, toGive, toReceive)
	e.l.MustExec(weavetest.Signers(e.maker), ix)
	return rec
}

func (e *env) makeInstruction(t testing.TB, toGive, toReceive uint64) (tokenswap.Instruction, Escrow) {
	t.Helper()
	_, bump, err := FindEscrowAddress(ids, e.maker.PublicKey())
	assert.Nil(t, err)
	msg := MakeMsg{Bump: bump, AmountToReceive: toReceive, AmountToGive: toGive}
	ix, err := MakeInstruction(ids, e.maker.PublicKey(), e.mintA, e.mintB, msg)
	assert.Nil(t, err)
	rec := Escrow{
		Maker:           e.maker.PublicKey(),
		MintA:           e.mintA,
		MintB:           e.mintB,
		AmountToReceive: toReceive,
		AmountToGive:    toGive,
		Bump:            bump,
	}
	return ix, rec
}

func (e *env) escrowAddress(t testing.TB, rec Escrow) tokenswap.Address {
	t.Helper()
	addr, err := EscrowAddress(ids, rec.Maker, rec.Bump)
	assert.Nil(t, err)
	return addr
}

func TestMake(t *testing.T) {
	Convey("Given a maker holding 500,000,000 of mint A", t, func() {
		e := newEnv(t)
		lamports := e.l.Lamports(e.maker.PublicKey())

		Convey("When the maker opens an escrow asking 100,000,000 of mint B", func() {
			rec := e.open(t, give, receive)
			addr := e.escrowAddress(t, rec)
			vault := VaultAddress(ids, addr, e.mintA)

			Convey("The vault holds exactly the deposit", func() {
				So(e.balance(vault), ShouldEqual, give)
				So(e.balance(e.ata(e.maker, e.mintA)), ShouldEqual, uint64(0))
			})

			Convey("The vault is the escrow's associated account of mint A", func() {
				acc := e.l.Get(vault)
				So(acc.Owner, ShouldResemble, ids.Token)
				state, err := token.UnmarshalAccount(acc.Data)
				So(err, ShouldBeNil)
				So(state.Owner, ShouldResemble, addr)
				So(state.Mint, ShouldResemble, e.mintA)
			})

			Convey("The record is stored at the derived address", func() {
				acc := e.l.Get(addr)
				So(acc, ShouldNotBeNil)
				So(acc.Owner, ShouldResemble, ids.Escrow)
				stored, err := UnmarshalEscrow(acc.Data)
				So(err, ShouldBeNil)
				So(stored, ShouldResemble, rec)
			})

			Convey("The maker paid both reserves", func() {
				rent := tokenswap.DefaultRent()
				reserves := rent.MinimumBalance(EscrowSize) + rent.MinimumBalance(token.AccountSize)
				So(e.l.Lamports(e.maker.PublicKey()), ShouldEqual, lamports-reserves)
			})

			Convey("The escrow is listed as open", func() {
				open, err := OpenEscrows(e.l, ids)
				So(err, ShouldBeNil)
				So(len(open), ShouldEqual, 1)
				So(open[0].Address, ShouldResemble, addr)
				So(open[0].Deposited, ShouldEqual, give)
				So(open[0].Escrow, ShouldResemble, rec)
			})
		})
	})
}

func TestTake(t *testing.T) {
	Convey("Given an open escrow of 500,000,000 A for 100,000,000 B", t, func() {
		e := newEnv(t)
		lamports := e.l.Lamports(e.maker.PublicKey())
		rec := e.open(t, give, receive)
		addr := e.escrowAddress(t, rec)
		vault := VaultAddress(ids, addr, e.mintA)

		Convey("When the taker takes it", func() {
			ix, err := TakeInstruction(ids, e.taker.PublicKey(), rec)
			So(err, ShouldBeNil)
			So(e.l.Exec(weavetest.Signers(e.taker), ix), ShouldBeNil)

			Convey("Both legs settle exactly", func() {
				So(e.balance(e.ata(e.maker, e.mintB)), ShouldEqual, receive)
				So(e.balance(e.ata(e.taker, e.mintA)), ShouldEqual, give)
				So(e.balance(e.ata(e.taker, e.mintB)), ShouldEqual, uint64(0))
			})

			Convey("Vault and record no longer exist", func() {
				So(e.l.Get(vault), ShouldBeNil)
				So(e.l.Get(addr), ShouldBeNil)
			})

			Convey("The maker got both reserves back", func() {
				So(e.l.Lamports(e.maker.PublicKey()), ShouldEqual, lamports)
			})

			Convey("A second take fails", func() {
				err := e.l.Exec(weavetest.Signers(e.taker), ix)
				So(errors.ErrNotOwnedByProgram.Is(err), ShouldBeTrue)
			})

			Convey("A refund fails", func() {
				refund, err := RefundInstruction(ids, rec)
				So(err, ShouldBeNil)
				err = e.l.Exec(weavetest.Signers(e.maker), refund)
				So(errors.ErrNotOwnedByProgram.Is(err), ShouldBeTrue)
				So(e.balance(e.ata(e.maker, e.mintA)), ShouldEqual, uint64(0))
			})

			Convey("Nothing is listed as open", func() {
				open, err := OpenEscrows(e.l, ids)
				So(err, ShouldBeNil)
				So(len(open), ShouldEqual, uint64(0))
			})
		})
	})
}

func TestRefund(t *testing.T) {
	Convey("Given an open escrow of 500,000,000 A", t, func() {
		e := newEnv(t)
		lamports := e.l.Lamports(e.maker.PublicKey())
		rec := e.open(t, give, receive)
		addr := e.escrowAddress(t, rec)
		vault := VaultAddress(ids, addr, e.mintA)

		Convey("When the maker refunds before any take", func() {
			ix, err := RefundInstruction(ids, rec)
			So(err, ShouldBeNil)
			So(e.l.Exec(weavetest.Signers(e.maker), ix), ShouldBeNil)

			Convey("The deposit is back with the maker", func() {
				So(e.balance(e.ata(e.maker, e.mintA)), ShouldEqual, give)
				So(e.l.Lamports(e.maker.PublicKey()), ShouldEqual, lamports)
			})

			Convey("Vault and record no longer exist", func() {
				So(e.l.Get(vault), ShouldBeNil)
				So(e.l.Get(addr), ShouldBeNil)
			})

			Convey("A later take fails without moving funds", func() {
				take, err := TakeInstruction(ids, e.taker.PublicKey(), rec)
				So(err, ShouldBeNil)
				err = e.l.Exec(weavetest.Signers(e.taker), take)
				So(errors.ErrNotOwnedByProgram.Is(err), ShouldBeTrue)
				So(e.balance(e.ata(e.taker, e.mintB)), ShouldEqual, receive)
				So(e.balance(e.ata(e.maker, e.mintB)), ShouldEqual, uint64(0))
			})

			Convey("The maker can open a new escrow at the same address", func() {
				again := e.open(t, give, receive)
				So(e.escrowAddress(t, again), ShouldResemble, addr)
				So(e.balance(vault), ShouldEqual, give)
			})
		})
	})
}

func TestDonatedDeposit(t *testing.T) {
	Convey("Given an open escrow whose vault received extra tokens of mint A", t, func() {
		const extra uint64 = 7000
		e := newEnv(t)
		rec := e.open(t, give, receive)
		addr := e.escrowAddress(t, rec)
		vault := VaultAddress(ids, addr, e.mintA)

		authority := weavetest.KeyFor("authority")
		e.l.MustExec(weavetest.Signers(authority),
			token.MintTo(ids.Token, e.mintA, vault, authority.PublicKey(), extra))
		So(e.balance(vault), ShouldEqual, give+extra)

		Convey("The open listing reports the whole vault", func() {
			open, err := OpenEscrows(e.l, ids)
			So(err, ShouldBeNil)
			So(len(open), ShouldEqual, 1)
			So(open[0].Deposited, ShouldEqual, give+extra)
		})

		Convey("When the taker takes it", func() {
			ix, err := TakeInstruction(ids, e.taker.PublicKey(), rec)
			So(err, ShouldBeNil)
			So(e.l.Exec(weavetest.Signers(e.taker), ix), ShouldBeNil)

			Convey("The taker receives the deposit and the extra", func() {
				So(e.balance(e.ata(e.taker, e.mintA)), ShouldEqual, give+extra)
				So(e.balance(e.ata(e.maker, e.mintB)), ShouldEqual, receive)
			})

			Convey("Vault and record no longer exist", func() {
				So(e.l.Get(vault), ShouldBeNil)
				So(e.l.Get(addr), ShouldBeNil)
			})
		})

		Convey("When the maker refunds", func() {
			ix, err := RefundInstruction(ids, rec)
			So(err, ShouldBeNil)
			So(e.l.Exec(weavetest.Signers(e.maker), ix), ShouldBeNil)

			Convey("The maker receives the deposit and the extra", func() {
				So(e.balance(e.ata(e.maker, e.mintA)), ShouldEqual, give+extra)
			})

			Convey("Vault and record no longer exist", func() {
				So(e.l.Get(vault), ShouldBeNil)
				So(e.l.Get(addr), ShouldBeNil)
			})
		})
	})
}

func TestMakePrefunded(t *testing.T) {
	Convey("Given lamports were sent to the escrow and vault addresses", t, func() {
		e := newEnv(t)
		ix, rec := e.makeInstruction(t, give, receive)
		addr := e.escrowAddress(t, rec)
		vault := VaultAddress(ids, addr, e.mintA)
		e.l.MustExec(weavetest.Signers(e.taker),
			system.Transfer(e.taker.PublicKey(), addr, 1),
			system.Transfer(e.taker.PublicKey(), vault, 1))
		lamports := e.l.Lamports(e.maker.PublicKey())

		Convey("When the maker opens the escrow", func() {
			So(e.l.Exec(weavetest.Signers(e.maker), ix), ShouldBeNil)

			Convey("The record and the deposit are in place", func() {
				acc := e.l.Get(addr)
				So(acc, ShouldNotBeNil)
				stored, err := UnmarshalEscrow(acc.Data)
				So(err, ShouldBeNil)
				So(stored, ShouldResemble, rec)
				So(e.balance(vault), ShouldEqual, give)
			})

			Convey("The maker only paid the missing part of the reserves", func() {
				rent := tokenswap.DefaultRent()
				reserves := rent.MinimumBalance(EscrowSize) + rent.MinimumBalance(token.AccountSize)
				So(e.l.Lamports(e.maker.PublicKey()), ShouldEqual, lamports-reserves+2)
				So(e.l.Lamports(addr), ShouldEqual, rent.MinimumBalance(EscrowSize))
			})

			Convey("A take still settles and closes both accounts", func() {
				take, err := TakeInstruction(ids, e.taker.PublicKey(), rec)
				So(err, ShouldBeNil)
				So(e.l.Exec(weavetest.Signers(e.taker), take), ShouldBeNil)
				So(e.balance(e.ata(e.taker, e.mintA)), ShouldEqual, give)
				So(e.l.Get(vault), ShouldBeNil)
				So(e.l.Get(addr), ShouldBeNil)
			})
		})
	})
}
