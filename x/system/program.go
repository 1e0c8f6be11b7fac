package system

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the system program.
type Program struct{}

var _ tokenswap.Program = Program{}

// New returns the system program.
func New() Program {
	return Program{}
}

// Process dispatches on the instruction tag.
func (p Program) Process(ctx context.Context, _ tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	switch data[0] {
	case TagCreateAccount:
		args, err := decodeCreateAccount(data)
		if err != nil {
			return err
		}
		return createAccount(ctx, programID, accounts, args)
	case TagTransfer:
		lamports, err := decodeTransfer(data)
		if err != nil {
			return err
		}
		return transfer(programID, accounts, lamports)
	default:
		return errors.Wrapf(errors.ErrInvalidInstructionData, "unknown tag %d", data[0])
	}
}

func createAccount(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, args createAccountArgs) error {
	if len(accounts) < 2 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "create account needs 2, got %d", len(accounts))
	}
	payer, acct := accounts[0], accounts[1]
	if !payer.IsSigner || !acct.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "payer and new account must sign")
	}
	if payer.Key == acct.Key {
		return errors.Wrap(errors.ErrInvalidInput, "payer funds itself")
	}
	if !acct.OwnedBy(programID) || !acct.IsUnallocated() {
		return errors.Wrapf(errors.ErrAccountInUse, "account %s", acct.Key)
	}
	if args.space > MaxSpace {
		return errors.Wrapf(errors.ErrInvalidInput, "space %d", args.space)
	}
	// The payer only covers what a prefunded address is missing.
	var topUp uint64
	if args.lamports > acct.Lamports {
		topUp = args.lamports - acct.Lamports
	}
	if err := debit(programID, payer, topUp); err != nil {
		return err
	}
	acct.Lamports += topUp
	acct.Data = make([]byte, args.space)
	acct.Owner = args.owner

	tokenswap.GetLogger(ctx).Debug("create account", "address", acct.Key, "owner", args.owner, "space", args.space)
	return nil
}

func transfer(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, lamports uint64) error {
	if len(accounts) < 2 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "transfer needs 2, got %d", len(accounts))
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "sender must sign")
	}
	if err := debit(programID, from, lamports); err != nil {
		return err
	}
	sum := to.Lamports + lamports
	if sum < to.Lamports {
		return errors.Wrap(errors.ErrOverflow, "recipient lamports")
	}
	to.Lamports = sum
	return nil
}

// debit takes lamports from a wallet. Only data-free accounts owned by the
// system program are wallets.
func debit(programID tokenswap.Address, from *tokenswap.AccountInfo, lamports uint64) error {
	if !from.OwnedBy(programID) || len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "%s is not a wallet", from.Key)
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %d, needs %d", from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}
