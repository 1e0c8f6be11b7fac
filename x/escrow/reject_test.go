package escrow

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

// snapshot captures every balance a failed instruction must leave alone.
type snapshot struct {
	makerA, makerB, takerA, takerB, vault uint64
	makerLamports, takerLamports        uint64
	record                              *tokenswap.Account
}

func (e *env) snapshot(t testing.TB, rec Escrow) snapshot {
	addr := e.escrowAddress(t, rec)
	return snapshot{
		makerA:        e.balance(e.ata(e.maker, e.mintA)),
		makerB:        e.balance(e.ata(e.maker, e.mintB)),
		takerA:        e.balance(e.ata(e.taker, e.mintA)),
		takerB:        e.balance(e.ata(e.taker, e.mintB)),
		vault:         e.balance(VaultAddress(ids, addr, e.mintA)),
		makerLamports: e.l.Lamports(e.maker.PublicKey()),
		takerLamports: e.l.Lamports(e.taker.PublicKey()),
		record:        e.l.Get(addr),
	}
}

// execTwice runs the same transaction twice. A failed instruction must fail
// the same way on resubmission and leave no trace either time.
func execTwice(t *testing.T, e *env, rec Escrow, signers []tokenswap.Signer, ix tokenswap.Instruction, wantErr *errors.Error) {
	t.Helper()
	before := e.snapshot(t, rec)
	for i := 0; i < 2; i++ {
		err := e.l.Exec(signers, ix)
		if !wantErr.Is(err) {
			t.Fatalf("attempt %d: want %q, got %+v", i+1, wantErr, err)
		}
		assert.Equal(t, before, e.snapshot(t, rec))
	}
}

func TestMakeRejects(t *testing.T) {
	cases := map[string]struct {
		toGive  uint64
		mutate  func(e *env, ix *tokenswap.Instruction)
		wantErr *errors.Error
	}{
		"missing associated account program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts = ix.Accounts[:8]
			},
			wantErr: errors.ErrWrongAccountCount,
		},
		"extra account": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts = append(ix.Accounts, tokenswap.Readonly(e.mintB))
			},
			wantErr: errors.ErrWrongAccountCount,
		},
		"maker did not sign": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[0].IsSigner = false
			},
			wantErr: errors.ErrMissingAuthorization,
		},
		"truncated payload": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Data = ix.Data[:10]
			},
			wantErr: errors.ErrInvalidInstructionData,
		},
		"nothing to give": {
			toGive:  0,
			wantErr: errors.ErrInvalidAmount,
		},
		"bump disagrees with escrow address": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Data[1]--
			},
			wantErr: errors.ErrAddressDerivationMismatch,
		},
		"substituted escrow address": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[3].Key = weavetest.NewKey().PublicKey()
			},
			wantErr: errors.ErrAddressDerivationMismatch,
		},
		"same mint on both sides": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[2].Key = e.mintA
			},
			wantErr: errors.ErrInvalidInput,
		},
		"mint is a wallet": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[2].Key = e.taker.PublicKey()
			},
			wantErr: errors.ErrNotOwnedByProgram,
		},
		"deposit larger than balance": {
			toGive:  give + 1,
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"source holds mint B": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[4].Key = e.ata(e.maker, e.mintB)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"source held by taker": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[4].Key = e.ata(e.taker, e.mintA)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"vault not derived from escrow": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[5].Key = e.ata(e.maker, e.mintA)
			},
			wantErr: errors.ErrAddressDerivationMismatch,
		},
		"wrong token program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[7].Key = ids.ATA
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"wrong system program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[6].Key = ids.Token
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			toGive := give
			if tc.mutate == nil {
				toGive = tc.toGive
			}
			ix, rec := e.makeInstruction(t, toGive, receive)
			if tc.mutate != nil {
				tc.mutate(e, &ix)
			}
			execTwice(t, e, rec, weavetest.Signers(e.maker), ix, tc.wantErr)
			if e.l.Get(e.escrowAddress(t, rec)) != nil {
				t.Fatal("escrow record created")
			}
		})
	}
}

func TestMakeTwice(t *testing.T) {
	e := newEnv(t)
	rec := e.open(t, give/2, receive)
	ix, _ := e.makeInstruction(t, give/2, receive)
	execTwice(t, e, rec, weavetest.Signers(e.maker), ix, errors.ErrAccountInUse)
}

func TestTakeRejects(t *testing.T) {
	cases := map[string]struct {
		toReceive uint64
		mutate    func(e *env, ix *tokenswap.Instruction)
		wantErr   *errors.Error
	}{
		"missing token program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts = ix.Accounts[:9]
			},
			wantErr: errors.ErrWrongAccountCount,
		},
		"taker did not sign": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[0].IsSigner = false
			},
			wantErr: errors.ErrMissingAuthorization,
		},
		"escrow is a token account": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[4].Key = e.ata(e.taker, e.mintA)
			},
			wantErr: errors.ErrNotOwnedByProgram,
		},
		"maker substituted by taker": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[1].Key = e.taker.PublicKey()
			},
			wantErr: errors.ErrStateFieldMismatch,
		},
		"mint B substituted": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[3].Key = e.mintA
			},
			wantErr: errors.ErrStateFieldMismatch,
		},
		"taker cannot pay": {
			toReceive: receive + 1,
			wantErr:   errors.ErrInvalidCustodyAccount,
		},
		"payment source held by maker": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[5].Key = e.ata(e.maker, e.mintB)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"payment destination held by taker": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[6].Key = e.ata(e.taker, e.mintB)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"release destination holds mint B": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[7].Key = e.ata(e.taker, e.mintB)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"vault substituted by maker account": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[8].Key = e.ata(e.maker, e.mintA)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"wrong token program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[9].Key = ids.ATA
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
		"maker passed read only": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[1].IsWritable = false
			},
			wantErr: errors.ErrPrivilegeEscalation,
		},
		"trailing payload": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Data = append(ix.Data, 0)
			},
			wantErr: errors.ErrInvalidInstructionData,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			toReceive := receive
			if tc.toReceive != 0 {
				toReceive = tc.toReceive
			}
			rec := e.open(t, give, toReceive)
			ix, err := TakeInstruction(ids, e.taker.PublicKey(), rec)
			assert.Nil(t, err)
			if tc.mutate != nil {
				tc.mutate(e, &ix)
			}
			execTwice(t, e, rec, weavetest.Signers(e.taker), ix, tc.wantErr)
		})
	}
}

func TestRefundRejects(t *testing.T) {
	cases := map[string]struct {
		signer  func(e *env) tokenswap.Signer
		mutate  func(e *env, ix *tokenswap.Instruction)
		wantErr *errors.Error
	}{
		"missing token program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts = ix.Accounts[:6]
			},
			wantErr: errors.ErrWrongAccountCount,
		},
		"maker did not sign": {
			signer: func(e *env) tokenswap.Signer { return e.taker },
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[0].IsSigner = false
			},
			wantErr: errors.ErrMissingAuthorization,
		},
		"taker poses as maker": {
			signer: func(e *env) tokenswap.Signer { return e.taker },
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[0].Key = e.taker.PublicKey()
				ix.Accounts[4].Key = e.ata(e.taker, e.mintA)
			},
			wantErr: errors.ErrStateFieldMismatch,
		},
		"mint A substituted": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[1].Key = e.mintB
			},
			wantErr: errors.ErrStateFieldMismatch,
		},
		"escrow is a wallet": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[3].Key = e.taker.PublicKey()
			},
			wantErr: errors.ErrNotOwnedByProgram,
		},
		"refund into the taker's account": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[4].Key = e.ata(e.taker, e.mintA)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"vault substituted": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[5].Key = e.ata(e.taker, e.mintA)
			},
			wantErr: errors.ErrInvalidCustodyAccount,
		},
		"wrong token program": {
			mutate: func(e *env, ix *tokenswap.Instruction) {
				ix.Accounts[6].Key = ids.System
			},
			wantErr: errors.ErrIncorrectProgramID,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			rec := e.open(t, give, receive)
			ix, err := RefundInstruction(ids, rec)
			assert.Nil(t, err)
			if tc.mutate != nil {
				tc.mutate(e, &ix)
			}
			var signer tokenswap.Signer = e.maker
			if tc.signer != nil {
				signer = tc.signer(e)
			}
			execTwice(t, e, rec, weavetest.Signers(signer), ix, tc.wantErr)
		})
	}
}

func TestDerivationCheck(t *testing.T) {
	maker := weavetest.KeyFor("maker").PublicKey()
	addr, bump, err := FindEscrowAddress(ids, maker)
	assert.Nil(t, err)

	info := &tokenswap.AccountInfo{Key: addr}
	assert.Nil(t, checkDerived(info, Seeds(maker, bump), ids.Escrow))

	err = checkDerived(info, Seeds(maker, bump), ids.Token)
	assert.IsErr(t, errors.ErrAddressDerivationMismatch, err)

	other := weavetest.KeyFor("other").PublicKey()
	err = checkDerived(info, Seeds(other, bump), ids.Escrow)
	assert.IsErr(t, errors.ErrAddressDerivationMismatch, err)
}
