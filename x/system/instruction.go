package system

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// ProgramID is the address of the system program. Accounts that were never
// created are owned by it.
var ProgramID = tokenswap.ZeroAddress

// MaxSpace is the largest account CreateAccount allocates.
const MaxSpace = 10 * 1024 * 1024

// Instruction tags.
const (
	TagCreateAccount byte = 0
	TagTransfer      byte = 1
)

const (
	createAccountLen = 1 + 8 + 8 + tokenswap.AddressLength
	transferLen      = 1 + 8
)

// CreateAccount allocates space bytes for newAccount, funds it with lamports
// taken from payer and assigns it to owner. Both accounts must sign.
func CreateAccount(payer, newAccount tokenswap.Address, lamports, space uint64, owner tokenswap.Address) tokenswap.Instruction {
	data := make([]byte, createAccountLen)
	data[0] = TagCreateAccount
	binary.LittleEndian.PutUint64(data[1:], lamports)
	binary.LittleEndian.PutUint64(data[9:], space)
	copy(data[17:], owner[:])
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(payer),
			tokenswap.WritableSigner(newAccount),
		},
		Data: data,
	}
}

// Transfer moves lamports between two wallets.
func Transfer(from, to tokenswap.Address, lamports uint64) tokenswap.Instruction {
	data := make([]byte, transferLen)
	data[0] = TagTransfer
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(from),
			tokenswap.Writable(to),
		},
		Data: data,
	}
}

type createAccountArgs struct {
	lamports uint64
	space    uint64
	owner    tokenswap.Address
}

func decodeCreateAccount(data []byte) (createAccountArgs, error) {
	var args createAccountArgs
	if len(data) != createAccountLen {
		return args, errors.Wrapf(errors.ErrInvalidInstructionData, "create account of %d bytes", len(data))
	}
	args.lamports = binary.LittleEndian.Uint64(data[1:])
	args.space = binary.LittleEndian.Uint64(data[9:])
	copy(args.owner[:], data[17:])
	return args, nil
}

func decodeTransfer(data []byte) (uint64, error) {
	if len(data) != transferLen {
		return 0, errors.Wrapf(errors.ErrInvalidInstructionData, "transfer of %d bytes", len(data))
	}
	return binary.LittleEndian.Uint64(data[1:]), nil
}
