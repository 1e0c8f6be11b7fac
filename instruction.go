package tokenswap

import (
	"encoding/binary"
)

// AccountMeta references an account from an instruction.
type AccountMeta struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
}

// WritableSigner is an account that must sign and may be modified.
func WritableSigner(key Address) AccountMeta {
	return AccountMeta{Key: key, IsSigner: true, IsWritable: true}
}

// Writable is an account that may be modified.
func Writable(key Address) AccountMeta {
	return AccountMeta{Key: key, IsWritable: true}
}

// Readonly is an account that must not be modified.
func Readonly(key Address) AccountMeta {
	return AccountMeta{Key: key}
}

// Instruction is a single call into a program.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Keys returns the addresses of all referenced accounts, in order.
func (ix Instruction) Keys() []Address {
	keys := make([]Address, len(ix.Accounts))
	for i, m := range ix.Accounts {
		keys[i] = m.Key
	}
	return keys
}

func (ix Instruction) appendSignBytes(bz []byte) []byte {
	var num [4]byte
	bz = append(bz, ix.ProgramID[:]...)
	binary.LittleEndian.PutUint32(num[:], uint32(len(ix.Accounts)))
	bz = append(bz, num[:]...)
	for _, m := range ix.Accounts {
		var flags byte
		if m.IsSigner {
			flags |= 1
		}
		if m.IsWritable {
			flags |= 2
		}
		bz = append(bz, m.Key[:]...)
		bz = append(bz, flags)
	}
	binary.LittleEndian.PutUint32(num[:], uint32(len(ix.Data)))
	bz = append(bz, num[:]...)
	return append(bz, ix.Data...)
}
