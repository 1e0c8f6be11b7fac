package crypto

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"golang.org/x/crypto/ed25519"
)

var _ tokenswap.Signer = (*PrivateKey)(nil)

// PrivateKey is an ed25519 private key. Its public key is the address of the
// wallet it controls.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.key) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "private key not initialized")
	}
	return ed25519.Sign(p.key, message), nil
}

// PublicKey returns the address controlled by this key.
func (p *PrivateKey) PublicKey() tokenswap.Address {
	var addr tokenswap.Address
	copy(addr[:], p.key.Public().(ed25519.PublicKey))
	return addr
}

// Seed returns the 32 byte seed the key can be restored from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// GenPrivKey returns a random new private key
func GenPrivKey() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "seed of %d bytes", len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Verify checks that sig is a signature of message by the key behind addr.
// Derived addresses have no key and never verify.
func Verify(addr tokenswap.Address, message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(addr[:]), message, sig)
}
