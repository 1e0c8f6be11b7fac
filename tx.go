package tokenswap

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap/errors"
	"golang.org/x/crypto/ed25519"
)

// signBytesPrefix binds signatures to this ledger format.
var signBytesPrefix = []byte("tokenswap/tx/v1")

// Signer produces ed25519 signatures for the address it controls.
type Signer interface {
	PublicKey() Address
	Sign(message []byte) ([]byte, error)
}

// Signature is an ed25519 signature over Tx.SignBytes.
type Signature struct {
	PubKey Address
	Sig    []byte
}

// Tx is a list of instructions that is executed atomically. Either all
// instructions succeed or none of their effects are stored.
type Tx struct {
	Instructions []Instruction
	Signatures   []Signature
}

// NewTx returns an unsigned transaction.
func NewTx(ixs ...Instruction) *Tx {
	return &Tx{Instructions: ixs}
}

// SignBytes returns the bytes that every signer signs.
func (tx *Tx) SignBytes() []byte {
	bz := append([]byte(nil), signBytesPrefix...)
	var num [4]byte
	binary.LittleEndian.PutUint32(num[:], uint32(len(tx.Instructions)))
	bz = append(bz, num[:]...)
	for _, ix := range tx.Instructions {
		bz = ix.appendSignBytes(bz)
	}
	return bz
}

// Sign appends a signature of every signer. Instructions must not change
// after signing.
func (tx *Tx) Sign(signers ...Signer) error {
	msg := tx.SignBytes()
	for _, s := range signers {
		sig, err := s.Sign(msg)
		if err != nil {
			return errors.Wrapf(err, "sign with %s", s.PublicKey())
		}
		tx.Signatures = append(tx.Signatures, Signature{PubKey: s.PublicKey(), Sig: sig})
	}
	return nil
}

// VerifySignatures checks every signature and returns the set of addresses
// that authorized this transaction.
func (tx *Tx) VerifySignatures() (map[Address]bool, error) {
	msg := tx.SignBytes()
	signers := make(map[Address]bool, len(tx.Signatures))
	for i, s := range tx.Signatures {
		if len(s.Sig) != ed25519.SignatureSize {
			return nil, errors.Wrapf(errors.ErrInvalidSignature, "signature %d length", i)
		}
		if !ed25519.Verify(ed25519.PublicKey(s.PubKey[:]), msg, s.Sig) {
			return nil, errors.Wrapf(errors.ErrInvalidSignature, "signature %d by %s", i, s.PubKey)
		}
		signers[s.PubKey] = true
	}
	return signers, nil
}
