package ata

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
)

// createAccounts is the account count of Create.
const createAccounts = 6

// Seeds returns the derivation seeds of the associated account, without the
// bump.
func Seeds(wallet, tokenProgram, mint tokenswap.Address) [][]byte {
	return [][]byte{wallet.Bytes(), tokenProgram.Bytes(), mint.Bytes()}
}

// FindAddress derives the associated token account of wallet for mint.
func FindAddress(ids tokenswap.ProgramIDs, wallet, mint tokenswap.Address) (tokenswap.Address, uint8, error) {
	return tokenswap.FindProgramAddress(Seeds(wallet, ids.Token, mint), ids.ATA)
}

// Address is FindAddress for callers that do not need the bump. Three
// address seeds are always valid, so it only panics if no bump exists.
func Address(ids tokenswap.ProgramIDs, wallet, mint tokenswap.Address) tokenswap.Address {
	addr, _, err := FindAddress(ids, wallet, mint)
	if err != nil {
		panic(err)
	}
	return addr
}

// Create builds the instruction creating the associated account of wallet
// for mint, paid for by payer.
//
// Accounts: payer(s,w), ata(w), wallet, mint, system program, token program.
func Create(ids tokenswap.ProgramIDs, payer, wallet, mint tokenswap.Address) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: ids.ATA,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(payer),
			tokenswap.Writable(Address(ids, wallet, mint)),
			tokenswap.Readonly(wallet),
			tokenswap.Readonly(mint),
			tokenswap.Readonly(ids.System),
			tokenswap.Readonly(ids.Token),
		},
	}
}

// Program is the associated account program.
type Program struct{}

var _ tokenswap.Program = Program{}

// New returns the associated account program.
func New() Program {
	return Program{}
}

// Process creates an associated account. It is the only instruction, the
// data must be empty.
func (Program) Process(ctx context.Context, inv tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) != 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "create takes no payload")
	}
	if len(accounts) != createAccounts {
		return errors.Wrapf(errors.ErrWrongAccountCount, "create needs %d, got %d", createAccounts, len(accounts))
	}
	payer, acct, wallet, mint, sysProgram, tokenProgram := accounts[0], accounts[1], accounts[2], accounts[3], accounts[4], accounts[5]

	if !payer.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "payer must sign")
	}
	seeds := Seeds(wallet.Key, tokenProgram.Key, mint.Key)
	want, bump, err := tokenswap.FindProgramAddress(seeds, programID)
	if err != nil {
		return err
	}
	if want != acct.Key {
		return errors.Wrapf(errors.ErrAddressDerivationMismatch, "associated account of %s for %s is %s", wallet.Key, mint.Key, want)
	}
	if !acct.IsUnallocated() {
		return errors.Wrapf(errors.ErrAccountInUse, "%s", acct.Key)
	}
	if sysProgram.Key != system.ProgramID {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "system program %s", sysProgram.Key)
	}
	if !tokenProgram.Executable {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", tokenProgram.Key)
	}

	rent := tokenswap.GetRent(ctx)
	create := system.CreateAccount(payer.Key, acct.Key, rent.MinimumBalance(token.AccountSize), token.AccountSize, tokenProgram.Key)
	if err := inv.Invoke(ctx, create, append(seeds, []byte{bump})); err != nil {
		return errors.Wrap(err, "allocate associated account")
	}
	if err := inv.Invoke(ctx, token.InitializeAccount(tokenProgram.Key, acct.Key, mint.Key, wallet.Key)); err != nil {
		return errors.Wrap(err, "initialize associated account")
	}
	tokenswap.GetLogger(ctx).Debug("associated account created", "address", acct.Key, "wallet", wallet.Key, "mint", mint.Key)
	return nil
}
