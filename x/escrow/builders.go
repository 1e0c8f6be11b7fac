package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/ata"
)

// FindEscrowAddress picks the canonical bump for a new escrow of maker.
// Each maker has one canonical escrow, pass another off-curve bump to
// EscrowAddress to open more.
func FindEscrowAddress(ids tokenswap.ProgramIDs, maker tokenswap.Address) (tokenswap.Address, uint8, error) {
	return tokenswap.FindProgramAddress([][]byte{[]byte("escrow"), maker.Bytes()}, ids.Escrow)
}

// EscrowAddress derives the escrow record address of maker for bump.
func EscrowAddress(ids tokenswap.ProgramIDs, maker tokenswap.Address, bump uint8) (tokenswap.Address, error) {
	return tokenswap.CreateProgramAddress(Seeds(maker, bump), ids.Escrow)
}

// VaultAddress returns the vault of an escrow, its associated account for
// mint A.
func VaultAddress(ids tokenswap.ProgramIDs, escrow, mintA tokenswap.Address) tokenswap.Address {
	return ata.Address(ids, escrow, mintA)
}

// MakeInstruction builds a Make. The maker's associated account of mint A
// funds the vault.
func MakeInstruction(ids tokenswap.ProgramIDs, maker, mintA, mintB tokenswap.Address, msg MakeMsg) (tokenswap.Instruction, error) {
	escrow, err := EscrowAddress(ids, maker, msg.Bump)
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: ids.Escrow,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(maker),
			tokenswap.Readonly(mintA),
			tokenswap.Readonly(mintB),
			tokenswap.Writable(escrow),
			tokenswap.Writable(ata.Address(ids, maker, mintA)),
			tokenswap.Writable(VaultAddress(ids, escrow, mintA)),
			tokenswap.Readonly(ids.System),
			tokenswap.Readonly(ids.Token),
			tokenswap.Readonly(ids.ATA),
		},
		Data: msg.Marshal(),
	}, nil
}

// TakeInstruction builds a Take of the escrow described by rec. All token
// accounts are the associated accounts of taker and maker.
func TakeInstruction(ids tokenswap.ProgramIDs, taker tokenswap.Address, rec Escrow) (tokenswap.Instruction, error) {
	escrow, err := EscrowAddress(ids, rec.Maker, rec.Bump)
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: ids.Escrow,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(taker),
			tokenswap.Writable(rec.Maker),
			tokenswap.Readonly(rec.MintA),
			tokenswap.Readonly(rec.MintB),
			tokenswap.Writable(escrow),
			tokenswap.Writable(ata.Address(ids, taker, rec.MintB)),
			tokenswap.Writable(ata.Address(ids, rec.Maker, rec.MintB)),
			tokenswap.Writable(ata.Address(ids, taker, rec.MintA)),
			tokenswap.Writable(VaultAddress(ids, escrow, rec.MintA)),
			tokenswap.Readonly(ids.Token),
		},
		Data: []byte{TagTake},
	}, nil
}

// RefundInstruction builds a Refund of the escrow described by rec.
func RefundInstruction(ids tokenswap.ProgramIDs, rec Escrow) (tokenswap.Instruction, error) {
	escrow, err := EscrowAddress(ids, rec.Maker, rec.Bump)
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: ids.Escrow,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.WritableSigner(rec.Maker),
			tokenswap.Readonly(rec.MintA),
			tokenswap.Readonly(rec.MintB),
			tokenswap.Writable(escrow),
			tokenswap.Writable(ata.Address(ids, rec.Maker, rec.MintA)),
			tokenswap.Writable(VaultAddress(ids, escrow, rec.MintA)),
			tokenswap.Readonly(ids.Token),
		},
		Data: []byte{TagRefund},
	}, nil
}
