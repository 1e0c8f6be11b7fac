package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap/errors"
)

// Instruction tags.
const (
	TagMake   byte = 0
	TagTake   byte = 1
	TagRefund byte = 2
)

// Exact account counts per instruction.
const (
	makeAccounts   = 9
	takeAccounts   = 10
	refundAccounts = 7
)

const makePayloadLen = 1 + 8 + 8

// MakeMsg is the payload of Make.
type MakeMsg struct {
	Bump            uint8
	AmountToReceive uint64
	AmountToGive    uint64
}

// Marshal encodes the Make instruction data, tag included.
func (m MakeMsg) Marshal() []byte {
	bz := make([]byte, 1+makePayloadLen)
	bz[0] = TagMake
	bz[1] = m.Bump
	binary.LittleEndian.PutUint64(bz[2:], m.AmountToReceive)
	binary.LittleEndian.PutUint64(bz[10:], m.AmountToGive)
	return bz
}

// Validate checks the amounts.
func (m MakeMsg) Validate() error {
	if m.AmountToReceive == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount to receive")
	}
	if m.AmountToGive == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount to give")
	}
	return nil
}

// decodeMake decodes the payload following the tag.
func decodeMake(payload []byte) (MakeMsg, error) {
	var m MakeMsg
	if len(payload) != makePayloadLen {
		return m, errors.Wrapf(errors.ErrInvalidInstructionData, "make payload of %d bytes", len(payload))
	}
	m.Bump = payload[0]
	m.AmountToReceive = binary.LittleEndian.Uint64(payload[1:])
	m.AmountToGive = binary.LittleEndian.Uint64(payload[9:])
	return m, nil
}
