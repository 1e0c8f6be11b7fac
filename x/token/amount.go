package token

import (
	"math/big"

	"github.com/iov-one/tokenswap/errors"
	"github.com/shopspring/decimal"
)

// FormatAmount renders base units as a decimal number of whole tokens.
func FormatAmount(amount uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return d.StringFixed(int32(decimals))
}

// ParseAmount is the inverse of FormatAmount. It rejects values with more
// fractional digits than the mint supports.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "%q", s)
	}
	if d.Sign() < 0 {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "negative %q", s)
	}
	units := d.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Wrapf(errors.ErrInvalidAmount, "%q has more than %d decimals", s, decimals)
	}
	n := units.BigInt()
	if !n.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%q", s)
	}
	return n.Uint64(), nil
}
