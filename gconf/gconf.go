package gconf

import (
	"encoding/json"

	"github.com/iov-one/tokenswap/errors"
)

// ReadStore is a subset of store.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of store.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Validator is implemented by every configuration object.
type Validator interface {
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Validator) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "marshal: key %q: %s", k, err)
	}
	if err := db.Set(k, raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Load reads the configuration singleton of pkg into dst. ErrNotFound is
// returned if nothing was saved.
func Load(db ReadStore, pkg string, dst interface{}) error {
	k := key(pkg)
	raw, err := db.Get(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "unmarshal: key %q: %s", k, err)
	}
	return nil
}
