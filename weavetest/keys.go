package weavetest

import (
	"crypto/sha256"

	"github.com/iov-one/tokenswap/crypto"
)

// NewKey returns a random key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKey()
}

// KeyFor returns the same key for the same name in every run.
func KeyFor(name string) *crypto.PrivateKey {
	seed := sha256.Sum256([]byte(name))
	k, err := crypto.PrivKeyFromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return k
}
