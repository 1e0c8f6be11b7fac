package runtime

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const optKey = "accounts"

// GenesisAccount is a wallet funded at genesis.
type GenesisAccount struct {
	Address  tokenswap.Address `json:"address"`
	Lamports uint64            `json:"lamports"`
}

// InitState funds the wallets listed under the "accounts" genesis key. It
// fails without writing anything if one of them already exists.
func (r *Runtime) InitState(opts tokenswap.Options) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cache := r.db.CacheWrap()
	for _, a := range accts {
		if a.Lamports == 0 {
			cache.Discard()
			return errors.Wrapf(errors.ErrInvalidAmount, "genesis account %s without lamports", a.Address)
		}
		if _, ok := r.programs[a.Address]; ok {
			cache.Discard()
			return errors.Wrapf(errors.ErrAccountInUse, "genesis account %s is a program", a.Address)
		}
		existing, err := loadAccount(cache, a.Address)
		if err != nil {
			cache.Discard()
			return err
		}
		if existing != nil {
			cache.Discard()
			return errors.Wrapf(errors.ErrAccountInUse, "genesis account %s", a.Address)
		}
		acc := tokenswap.NewAccount(tokenswap.ZeroAddress, a.Lamports, 0)
		if err := storeAccount(cache, a.Address, acc); err != nil {
			cache.Discard()
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	r.logger.Info("genesis", "accounts", len(accts))
	return nil
}
