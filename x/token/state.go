package token

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// MintSize is the data length of a mint account.
	MintSize = tokenswap.AddressLength + 8 + 1 + 1
	// AccountSize is the data length of a token account.
	AccountSize = 2*tokenswap.AddressLength + 8 + 1
)

// Mint describes a fungible asset.
type Mint struct {
	Authority   tokenswap.Address
	Supply      uint64
	Decimals    uint8
	Initialized bool
}

// Marshal encodes the mint into its fixed layout.
func (m Mint) Marshal() []byte {
	bz := make([]byte, MintSize)
	copy(bz, m.Authority[:])
	binary.LittleEndian.PutUint64(bz[32:], m.Supply)
	bz[40] = m.Decimals
	if m.Initialized {
		bz[41] = 1
	}
	return bz
}

// UnmarshalMint decodes the fixed mint layout.
func UnmarshalMint(bz []byte) (Mint, error) {
	var m Mint
	if len(bz) != MintSize {
		return m, errors.Wrapf(errors.ErrInvalidInput, "mint of %d bytes", len(bz))
	}
	copy(m.Authority[:], bz)
	m.Supply = binary.LittleEndian.Uint64(bz[32:])
	m.Decimals = bz[40]
	m.Initialized = bz[41] == 1
	return m, nil
}

// Account is a balance of a single mint.
type Account struct {
	Mint        tokenswap.Address
	Owner       tokenswap.Address
	Amount      uint64
	Initialized bool
}

// Marshal encodes the token account into its fixed layout.
func (a Account) Marshal() []byte {
	bz := make([]byte, AccountSize)
	copy(bz, a.Mint[:])
	copy(bz[32:], a.Owner[:])
	binary.LittleEndian.PutUint64(bz[64:], a.Amount)
	if a.Initialized {
		bz[72] = 1
	}
	return bz
}

// UnmarshalAccount decodes the fixed token account layout.
func UnmarshalAccount(bz []byte) (Account, error) {
	var a Account
	if len(bz) != AccountSize {
		return a, errors.Wrapf(errors.ErrInvalidInput, "token account of %d bytes", len(bz))
	}
	copy(a.Mint[:], bz)
	copy(a.Owner[:], bz[32:])
	a.Amount = binary.LittleEndian.Uint64(bz[64:])
	a.Initialized = bz[72] == 1
	return a, nil
}

// LoadMint decodes an initialized mint owned by the token program.
func LoadMint(programID tokenswap.Address, info *tokenswap.AccountInfo) (Mint, error) {
	if !info.OwnedBy(programID) {
		return Mint{}, errors.Wrapf(errors.ErrNotOwnedByProgram, "mint %s", info.Key)
	}
	m, err := UnmarshalMint(info.Data)
	if err != nil {
		return m, errors.Wrapf(err, "mint %s", info.Key)
	}
	if !m.Initialized {
		return m, errors.Wrapf(errors.ErrUninitialized, "mint %s", info.Key)
	}
	return m, nil
}

// LoadAccount decodes an initialized token account owned by the token
// program.
func LoadAccount(programID tokenswap.Address, info *tokenswap.AccountInfo) (Account, error) {
	if !info.OwnedBy(programID) {
		return Account{}, errors.Wrapf(errors.ErrNotOwnedByProgram, "token account %s", info.Key)
	}
	a, err := UnmarshalAccount(info.Data)
	if err != nil {
		return a, errors.Wrapf(err, "token account %s", info.Key)
	}
	if !a.Initialized {
		return a, errors.Wrapf(errors.ErrUninitialized, "token account %s", info.Key)
	}
	return a, nil
}
