package crypto

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"sort"

	"github.com/iov-one/tokenswap/errors"
)

// Keyring is a named set of private keys, persisted as a JSON object of hex
// encoded seeds.
type Keyring map[string]*PrivateKey

// LoadKeyring reads a keyring file. A missing file is an empty keyring.
func LoadKeyring(path string) (Keyring, error) {
	raw, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return Keyring{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read keyring")
	}
	var seeds map[string]string
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "keyring json: %s", err)
	}
	kr := make(Keyring, len(seeds))
	for name, enc := range seeds {
		seed, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "key %q: %s", name, err)
		}
		if kr[name], err = PrivKeyFromSeed(seed); err != nil {
			return nil, errors.Wrapf(err, "key %q", name)
		}
	}
	return kr, nil
}

// Save writes the keyring readable only by the owner.
func (kr Keyring) Save(path string) error {
	seeds := make(map[string]string, len(kr))
	for name, k := range kr {
		seeds[name] = hex.EncodeToString(k.Seed())
	}
	raw, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal keyring")
	}
	return errors.Wrap(ioutil.WriteFile(path, raw, 0600), "write keyring")
}

// Get returns the key stored under name.
func (kr Keyring) Get(name string) (*PrivateKey, error) {
	k, ok := kr[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
	}
	return k, nil
}

// Names returns all key names in order.
func (kr Keyring) Names() []string {
	names := make([]string, 0, len(kr))
	for n := range kr {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
