package tokenswap

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds of a derived address.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// pdaMarker separates program-derived addresses from any other sha256
// digest of the same seeds.
var pdaMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress derives an address for the given program from the
// seeds:
//
//   sha256(seed_0 || ... || seed_n || program || "ProgramDerivedAddress")
//
// A digest that decodes to a point on the ed25519 curve could be a public key
// with a known private key, so it is rejected with ErrInvalidSeeds. Callers
// include a bump seed to move the digest off the curve, see
// FindProgramAddress.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return ZeroAddress, err
	}
	addr := hashSeeds(seeds, program)
	if IsOnCurve(addr) {
		return ZeroAddress, errors.Wrap(errors.ErrInvalidSeeds, "address on curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the highest bump in [0, 255] that, appended
// to the seeds, yields an off-curve address. The bump is returned so that it
// can be stored and later passed to CreateProgramAddress for a single-step
// re-derivation.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return ZeroAddress, 0, errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds leave no room for a bump", len(seeds))
	}
	if err := validateSeeds(seeds); err != nil {
		return ZeroAddress, 0, err
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		if addr := hashSeeds(withBump, program); !IsOnCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return ZeroAddress, 0, errors.Wrap(errors.ErrInvalidSeeds, "no viable bump")
}

// IsOnCurve returns true if the address is the compressed form of a point on
// the ed25519 curve.
func IsOnCurve(a Address) bool {
	var buf [32]byte
	copy(buf[:], a[:])
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(&buf)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidSeeds, "seed %d is %d bytes", i, len(s))
		}
	}
	return nil
}

func hashSeeds(seeds [][]byte, program Address) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program[:])
	h.Write(pdaMarker)

	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}
