package runtime

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// NativeLoader owns the account of every registered program.
var NativeLoader = tokenswap.MustParseAddress("NativeLoader1111111111111111111111111111111")

// DefaultMaxInvokeDepth limits nested program invocation.
const DefaultMaxInvokeDepth = 4

// Config holds the parameters of a ledger. It is fixed for the lifetime of a
// runtime.
type Config struct {
	Programs tokenswap.ProgramIDs `json:"programs" toml:"programs"`
	Rent     tokenswap.Rent       `json:"rent" toml:"rent"`
}

// DefaultConfig returns the default program ids and rent.
func DefaultConfig() Config {
	return Config{
		Programs: tokenswap.DefaultProgramIDs(),
		Rent:     tokenswap.DefaultRent(),
	}
}

// Validate checks that the program ids are distinct and the system program
// lives at the zero address.
func (c Config) Validate() error {
	p := c.Programs
	if !p.System.IsZero() {
		return errors.Wrapf(errors.ErrInvalidInput, "system program must be the zero address, got %s", p.System)
	}
	seen := map[tokenswap.Address]string{p.System: "system"}
	for name, id := range map[string]tokenswap.Address{"token": p.Token, "ata": p.ATA, "escrow": p.Escrow} {
		if other, ok := seen[id]; ok {
			return errors.Wrapf(errors.ErrInvalidInput, "%s program shares id %s with %s", name, id, other)
		}
		seen[id] = name
	}
	if c.Rent.LamportsPerByteYear == 0 || c.Rent.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "rent must not be zero")
	}
	return nil
}
