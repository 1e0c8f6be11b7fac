package tokenswap

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/tokenswap/errors"
)

// accountHeaderLen is owner, lamports and the executable flag.
const accountHeaderLen = AddressLength + 8 + 1

// Account is the persisted state stored under an address. Only the owning
// program may debit its lamports or change its data.
type Account struct {
	Owner      Address
	Lamports   uint64
	Data       []byte
	Executable bool
}

// NewAccount returns an empty account owned by the given program.
func NewAccount(owner Address, lamports uint64, size int) *Account {
	return &Account{
		Owner:    owner,
		Lamports: lamports,
		Data:     make([]byte, size),
	}
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// Equals compares all fields.
func (a *Account) Equals(b *Account) bool {
	return a.Owner == b.Owner &&
		a.Lamports == b.Lamports &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// IsEmpty is true for an account that was never created or has been closed.
func (a *Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner.IsZero() && !a.Executable
}

// IsUnallocated is true for an account the system program can still create:
// owned by the system program and without data. Lamports sent to the
// address beforehand do not allocate it.
func (a *Account) IsUnallocated() bool {
	return len(a.Data) == 0 && a.Owner.IsZero() && !a.Executable
}

// Marshal serializes the account as owner, lamports (little endian), the
// executable flag and the raw data.
func (a *Account) Marshal() ([]byte, error) {
	bz := make([]byte, accountHeaderLen+len(a.Data))
	copy(bz, a.Owner[:])
	binary.LittleEndian.PutUint64(bz[AddressLength:], a.Lamports)
	if a.Executable {
		bz[AddressLength+8] = 1
	}
	copy(bz[accountHeaderLen:], a.Data)
	return bz, nil
}

// Unmarshal is the inverse of Marshal.
func (a *Account) Unmarshal(bz []byte) error {
	if len(bz) < accountHeaderLen {
		return errors.Wrapf(errors.ErrInvalidInput, "account of %d bytes", len(bz))
	}
	copy(a.Owner[:], bz)
	a.Lamports = binary.LittleEndian.Uint64(bz[AddressLength:])
	switch bz[AddressLength+8] {
	case 0:
		a.Executable = false
	case 1:
		a.Executable = true
	default:
		return errors.Wrap(errors.ErrInvalidInput, "executable flag")
	}
	a.Data = append([]byte(nil), bz[accountHeaderLen:]...)
	return nil
}

// AccountInfo is an account as handed to a program for one instruction. The
// embedded Account is shared with every other reference to the same key
// within a transaction, so writes through it are visible to later
// instructions and invocations.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	*Account
}

// OwnedBy returns true if the account exists and is owned by the program.
func (a *AccountInfo) OwnedBy(program Address) bool {
	return a.Account != nil && a.Owner == program
}

// Close moves all lamports to dest, clears the data and hands the account
// back to the system program. Only the owning program may do this.
func (a *AccountInfo) Close(dest *AccountInfo) error {
	if !a.IsWritable || !dest.IsWritable {
		return errors.Wrap(errors.ErrReadonly, "close")
	}
	sum := dest.Lamports + a.Lamports
	if sum < dest.Lamports {
		return errors.Wrap(errors.ErrOverflow, "close")
	}
	dest.Lamports = sum
	a.Lamports = 0
	a.Data = nil
	a.Owner = ZeroAddress
	return nil
}
