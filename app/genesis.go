package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/store"
)

// IsValidChainID ensures chain ids are short printable names.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Genesis file format.
type Genesis struct {
	ChainID    string            `json:"chain_id"`
	AppOptions tokenswap.Options `json:"app_options"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "cannot unmarshal genesis: %s", err)
	}
	return gen, nil
}

const (
	chainIDKey   = "internal/chainID"
	ledgerConfig = "ledger"
)

// ChainID returns the chain id stored at genesis, or an empty string for a
// ledger that was not initialized yet.
func ChainID(db store.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// InitChain initializes an empty ledger. The chain id can be set only once,
// a second genesis fails with ErrAccountInUse and changes nothing.
func InitChain(db store.KVStore, rt *runtime.Runtime, gen Genesis) error {
	if !IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", gen.ChainID)
	}
	current, err := ChainID(db)
	if err != nil {
		return err
	}
	if current != "" {
		return errors.Wrapf(errors.ErrAccountInUse, "chain %q already initialized", current)
	}
	conf := rt.Config()
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "ledger configuration")
	}
	if err := rt.InitState(gen.AppOptions); err != nil {
		return errors.Wrap(err, "genesis")
	}
	if err := gconf.Save(db, ledgerConfig, &conf); err != nil {
		return errors.Wrap(err, "ledger configuration")
	}
	if err := db.Set([]byte(chainIDKey), []byte(gen.ChainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// CheckConfig fails with ErrInvalidInput if conf differs from the
// configuration the ledger was initialized with. A ledger without genesis
// accepts any configuration.
func CheckConfig(db store.ReadOnlyKVStore, conf runtime.Config) error {
	var stored runtime.Config
	switch err := gconf.Load(db, ledgerConfig, &stored); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	if stored != conf {
		return errors.Wrap(errors.ErrInvalidInput, "configuration differs from genesis")
	}
	return nil
}
