package token

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/system"
)

// CreateMint allocates a mint paid for by payer and initializes it. The
// mint address must sign the transaction.
func CreateMint(programID, payer, mint, authority tokenswap.Address, decimals uint8, rent tokenswap.Rent) []tokenswap.Instruction {
	return []tokenswap.Instruction{
		system.CreateAccount(payer, mint, rent.MinimumBalance(MintSize), MintSize, programID),
		InitializeMint(programID, mint, authority, decimals),
	}
}

// CreateAccount allocates a token account at a key pair address and
// initializes it for owner. The account address must sign the transaction.
func CreateAccount(programID, payer, account, mint, owner tokenswap.Address, rent tokenswap.Rent) []tokenswap.Instruction {
	return []tokenswap.Instruction{
		system.CreateAccount(payer, account, rent.MinimumBalance(AccountSize), AccountSize, programID),
		InitializeAccount(programID, account, mint, owner),
	}
}
