package tokenswap

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/tokenswap/errors"
)

// AddressLength is the length of all addresses. An address is either an
// ed25519 public key or a program-derived address.
const AddressLength = 32

// Address identifies an account.
type Address [AddressLength]byte

// ZeroAddress is the address of the system program.
var ZeroAddress Address

// NewAddress copies raw into an address. It fails unless raw is exactly
// AddressLength bytes long.
func NewAddress(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, errors.Wrapf(errors.ErrInvalidInput, "address length %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// ParseAddress decodes the human readable form of an address. Base58 is the
// default, a "hex:" prefix selects hexadecimal.
func ParseAddress(enc string) (Address, error) {
	var raw []byte
	if strings.HasPrefix(enc, "hex:") {
		b, err := hex.DecodeString(enc[4:])
		if err != nil {
			return ZeroAddress, errors.Wrapf(errors.ErrInvalidInput, "cannot decode hex: %s", err)
		}
		raw = b
	} else {
		raw = base58.Decode(enc)
		if len(raw) == 0 && enc != "" {
			return ZeroAddress, errors.Wrapf(errors.ErrInvalidInput, "cannot decode base58 %q", enc)
		}
	}
	return NewAddress(raw)
}

// MustParseAddress is ParseAddress for package level constants. It panics on
// a malformed value.
func MustParseAddress(enc string) Address {
	a, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return a
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsZero is true for the zero value.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns a copy of the address as a slice, ready to be used as a seed.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String returns the base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON provides a base58 representation for JSON,
// to override the standard array encoding
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// MarshalText allows addresses to be used as map keys and in text formats
// such as toml.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(raw []byte) error {
	addr, err := ParseAddress(string(raw))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
