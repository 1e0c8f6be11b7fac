package token

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the token custody program.
type Program struct{}

var _ tokenswap.Program = Program{}

// New returns the token program.
func New() Program {
	return Program{}
}

// Process dispatches on the instruction tag.
func (Program) Process(ctx context.Context, _ tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	switch data[0] {
	case TagInitializeMint:
		return initializeMint(programID, accounts, data)
	case TagInitializeAccount:
		return initializeAccount(programID, accounts, data)
	case TagMintTo:
		amount, err := decodeAmount(data)
		if err != nil {
			return err
		}
		return mintTo(programID, accounts, amount)
	case TagTransfer:
		amount, err := decodeAmount(data)
		if err != nil {
			return err
		}
		return transfer(ctx, programID, accounts, amount)
	case TagCloseAccount:
		if len(data) != 1 {
			return errors.Wrap(errors.ErrInvalidInstructionData, "close account takes no payload")
		}
		return closeAccount(programID, accounts)
	default:
		return errors.Wrapf(errors.ErrInvalidInstructionData, "unknown tag %d", data[0])
	}
}

func initializeMint(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(accounts) < 1 {
		return errors.Wrap(errors.ErrWrongAccountCount, "initialize mint needs 1")
	}
	if len(data) != 2+tokenswap.AddressLength {
		return errors.Wrap(errors.ErrInvalidInstructionData, "initialize mint")
	}
	info := accounts[0]
	if err := checkFresh(programID, info, MintSize); err != nil {
		return err
	}
	m := Mint{Decimals: data[1], Initialized: true}
	copy(m.Authority[:], data[2:])
	info.Data = m.Marshal()
	return nil
}

func initializeAccount(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(accounts) < 3 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "initialize account needs 3, got %d", len(accounts))
	}
	if len(data) != 1 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "initialize account takes no payload")
	}
	info, mint, owner := accounts[0], accounts[1], accounts[2]
	if err := checkFresh(programID, info, AccountSize); err != nil {
		return err
	}
	if _, err := LoadMint(programID, mint); err != nil {
		return err
	}
	a := Account{Mint: mint.Key, Owner: owner.Key, Initialized: true}
	info.Data = a.Marshal()
	return nil
}

// checkFresh ensures an allocated, owned and still uninitialized account.
func checkFresh(programID tokenswap.Address, info *tokenswap.AccountInfo, size int) error {
	if !info.OwnedBy(programID) {
		return errors.Wrapf(errors.ErrNotOwnedByProgram, "%s", info.Key)
	}
	if len(info.Data) != size {
		return errors.Wrapf(errors.ErrInvalidInput, "%s holds %d bytes, want %d", info.Key, len(info.Data), size)
	}
	for _, b := range info.Data {
		if b != 0 {
			return errors.Wrapf(errors.ErrAccountInUse, "%s", info.Key)
		}
	}
	return nil
}

func mintTo(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if len(accounts) < 3 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "mint to needs 3, got %d", len(accounts))
	}
	mintInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]
	mint, err := LoadMint(programID, mintInfo)
	if err != nil {
		return err
	}
	if mint.Authority != authority.Key || !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingAuthorization, "mint authority of %s", mintInfo.Key)
	}
	dest, err := LoadAccount(programID, destInfo)
	if err != nil {
		return err
	}
	if dest.Mint != mintInfo.Key {
		return errors.Wrapf(errors.ErrInvalidInput, "%s holds mint %s", destInfo.Key, dest.Mint)
	}
	if mint.Supply+amount < mint.Supply || dest.Amount+amount < dest.Amount {
		return errors.Wrap(errors.ErrOverflow, "mint to")
	}
	mint.Supply += amount
	dest.Amount += amount
	mintInfo.Data = mint.Marshal()
	destInfo.Data = dest.Marshal()
	return nil
}

func transfer(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if len(accounts) < 3 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "transfer needs 3, got %d", len(accounts))
	}
	srcInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]
	src, err := LoadAccount(programID, srcInfo)
	if err != nil {
		return err
	}
	dest, err := LoadAccount(programID, destInfo)
	if err != nil {
		return err
	}
	if src.Owner != authority.Key || !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingAuthorization, "owner of %s", srcInfo.Key)
	}
	if src.Mint != dest.Mint {
		return errors.Wrapf(errors.ErrInvalidInput, "transfer from mint %s to mint %s", src.Mint, dest.Mint)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %d, needs %d", srcInfo.Key, src.Amount, amount)
	}
	if srcInfo.Key == destInfo.Key {
		return nil
	}
	if dest.Amount+amount < dest.Amount {
		return errors.Wrap(errors.ErrOverflow, "transfer")
	}
	src.Amount -= amount
	dest.Amount += amount
	srcInfo.Data = src.Marshal()
	destInfo.Data = dest.Marshal()

	tokenswap.GetLogger(ctx).Debug("token transfer", "from", srcInfo.Key, "to", destInfo.Key, "amount", amount)
	return nil
}

func closeAccount(programID tokenswap.Address, accounts []*tokenswap.AccountInfo) error {
	if len(accounts) < 3 {
		return errors.Wrapf(errors.ErrWrongAccountCount, "close account needs 3, got %d", len(accounts))
	}
	info, dest, authority := accounts[0], accounts[1], accounts[2]
	acc, err := LoadAccount(programID, info)
	if err != nil {
		return err
	}
	if acc.Owner != authority.Key || !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingAuthorization, "owner of %s", info.Key)
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "%s still holds %d", info.Key, acc.Amount)
	}
	if info.Key == dest.Key {
		return errors.Wrap(errors.ErrInvalidInput, "close into itself")
	}
	return info.Close(dest)
}
