package tokenswap

// accountStorageOverhead is charged on top of the data length of every
// account.
const accountStorageOverhead = 128

// Rent defines the reserve an account must hold to stay alive.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year" toml:"lamports_per_byte_year"`
	ExemptionYears      uint64 `json:"exemption_years" toml:"exemption_years"`
}

// DefaultRent returns the default rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

// MinimumBalance returns the reserve required for an account holding size
// bytes of data.
func (r Rent) MinimumBalance(size int) uint64 {
	return (accountStorageOverhead + uint64(size)) * r.LamportsPerByteYear * r.ExemptionYears
}
