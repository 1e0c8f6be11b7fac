package token

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Instruction tags.
const (
	TagInitializeMint    byte = 0
	TagInitializeAccount byte = 1
	TagMintTo            byte = 2
	TagTransfer          byte = 3
	TagCloseAccount      byte = 4
)

// InitializeMint sets up a freshly allocated mint.
//
// Accounts: mint(w).
func InitializeMint(programID, mint, authority tokenswap.Address, decimals uint8) tokenswap.Instruction {
	data := make([]byte, 2+tokenswap.AddressLength)
	data[0] = TagInitializeMint
	data[1] = decimals
	copy(data[2:], authority[:])
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts:  []tokenswap.AccountMeta{tokenswap.Writable(mint)},
		Data:      data,
	}
}

// InitializeAccount sets up a freshly allocated token account of mint held
// by owner.
//
// Accounts: account(w), mint, owner.
func InitializeAccount(programID, account, mint, owner tokenswap.Address) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(account),
			tokenswap.Readonly(mint),
			tokenswap.Readonly(owner),
		},
		Data: []byte{TagInitializeAccount},
	}
}

// MintTo creates amount new tokens in dest.
//
// Accounts: mint(w), dest(w), authority(s).
func MintTo(programID, mint, dest, authority tokenswap.Address, amount uint64) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(mint),
			tokenswap.Writable(dest),
			{Key: authority, IsSigner: true},
		},
		Data: amountData(TagMintTo, amount),
	}
}

// Transfer moves amount tokens from source to dest. The authority must be
// the owner of source.
//
// Accounts: source(w), dest(w), authority(s).
func Transfer(programID, source, dest, authority tokenswap.Address, amount uint64) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(source),
			tokenswap.Writable(dest),
			{Key: authority, IsSigner: true},
		},
		Data: amountData(TagTransfer, amount),
	}
}

// CloseAccount deletes an empty token account and moves its reserve to
// dest. The authority must be the owner of the account.
//
// Accounts: account(w), dest(w), authority(s).
func CloseAccount(programID, account, dest, authority tokenswap.Address) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(account),
			tokenswap.Writable(dest),
			{Key: authority, IsSigner: true},
		},
		Data: []byte{TagCloseAccount},
	}
}

func amountData(tag byte, amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

func decodeAmount(data []byte) (uint64, error) {
	if len(data) != 9 {
		return 0, errors.Wrapf(errors.ErrInvalidInstructionData, "amount payload of %d bytes", len(data)-1)
	}
	return binary.LittleEndian.Uint64(data[1:]), nil
}
