package tokenswap

import (
	"context"
)

// Program processes instructions addressed to its program id. Programs are
// stateless, all state lives in the accounts they are given.
type Program interface {
	Process(ctx context.Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx context.Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) Process(ctx context.Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error {
	return f(ctx, inv, programID, accounts, data)
}

// Invoker executes a nested instruction on behalf of the calling program.
//
// Every account of the nested instruction must already be available to the
// caller. Each signer seed set is the exact seed tuple of an address derived
// from the caller's program id, and grants that address signer privilege
// for the nested instruction.
type Invoker interface {
	Invoke(ctx context.Context, ix Instruction, signerSeeds ...[][]byte) error
}

// ProgramIDs are the well known program addresses. They are fixed for the
// lifetime of a process.
type ProgramIDs struct {
	System Address `json:"system" toml:"system"`
	Token  Address `json:"token" toml:"token"`
	ATA    Address `json:"ata" toml:"ata"`
	Escrow Address `json:"escrow" toml:"escrow"`
}

// DefaultProgramIDs returns the program addresses used by a default ledger.
func DefaultProgramIDs() ProgramIDs {
	return ProgramIDs{
		System: ZeroAddress,
		Token:  MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		ATA:    MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"),
		Escrow: MustParseAddress("4ibrEMW5F6hKnkW4jVedswYv6H6VtwPN6ar6dvXDN1nT"),
	}
}
