package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// EscrowSize is the data length of an escrow record.
const EscrowSize = 3*tokenswap.AddressLength + 8 + 8 + 1

// Escrow is the record of one open trade.
type Escrow struct {
	Maker           tokenswap.Address
	MintA           tokenswap.Address
	MintB           tokenswap.Address
	AmountToReceive uint64
	AmountToGive    uint64
	Bump            uint8
}

// Marshal encodes the record into its fixed little endian layout.
func (e Escrow) Marshal() []byte {
	bz := make([]byte, EscrowSize)
	copy(bz, e.Maker[:])
	copy(bz[32:], e.MintA[:])
	copy(bz[64:], e.MintB[:])
	binary.LittleEndian.PutUint64(bz[96:], e.AmountToReceive)
	binary.LittleEndian.PutUint64(bz[104:], e.AmountToGive)
	bz[112] = e.Bump
	return bz
}

// UnmarshalEscrow decodes a record.
func UnmarshalEscrow(bz []byte) (Escrow, error) {
	var e Escrow
	if len(bz) != EscrowSize {
		return e, errors.Wrapf(errors.ErrInvalidInput, "escrow record of %d bytes", len(bz))
	}
	copy(e.Maker[:], bz)
	copy(e.MintA[:], bz[32:])
	copy(e.MintB[:], bz[64:])
	e.AmountToReceive = binary.LittleEndian.Uint64(bz[96:])
	e.AmountToGive = binary.LittleEndian.Uint64(bz[104:])
	e.Bump = bz[112]
	return e, nil
}

// Seeds returns the signer seeds of the escrow record of maker.
func Seeds(maker tokenswap.Address, bump uint8) [][]byte {
	return [][]byte{[]byte("escrow"), maker.Bytes(), {bump}}
}
