package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/x/token"
)

// Ledger is the read access needed to list escrows.
type Ledger interface {
	Account(addr tokenswap.Address) (*tokenswap.Account, error)
	AccountsByOwner(owner tokenswap.Address) ([]runtime.Entry, error)
}

var _ Ledger = (*runtime.Runtime)(nil)

// Open is an escrow waiting for a taker.
type Open struct {
	Address   tokenswap.Address
	Vault     tokenswap.Address
	Deposited uint64
	Escrow
}

// OpenEscrows lists all escrow records with the balance of their vault,
// ordered by record address.
func OpenEscrows(l Ledger, ids tokenswap.ProgramIDs) ([]Open, error) {
	entries, err := l.AccountsByOwner(ids.Escrow)
	if err != nil {
		return nil, err
	}
	var open []Open
	for _, e := range entries {
		rec, err := UnmarshalEscrow(e.Account.Data)
		if err != nil {
			continue
		}
		o := Open{
			Address: e.Key,
			Vault:   VaultAddress(ids, e.Key, rec.MintA),
			Escrow:  rec,
		}
		acc, err := l.Account(o.Vault)
		switch {
		case errors.ErrNotFound.Is(err):
		case err != nil:
			return nil, errors.Wrapf(err, "vault of %s", e.Key)
		default:
			if vault, err := token.UnmarshalAccount(acc.Data); err == nil {
				o.Deposited = vault.Amount
			}
		}
		open = append(open, o)
	}
	return open, nil
}
