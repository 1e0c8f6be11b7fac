package runtime

import (
	"context"
	"sync"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/tendermint/tendermint/libs/log"
)

// accountPrefix namespaces account keys in the store.
var accountPrefix = []byte("acct:")

func accountKey(addr tokenswap.Address) []byte {
	return append(append([]byte(nil), accountPrefix...), addr[:]...)
}

type registered struct {
	name    string
	program tokenswap.Program
}

// Runtime executes transactions one at a time against a store.
type Runtime struct {
	mu       sync.Mutex
	db       store.CacheableKVStore
	conf     Config
	logger   log.Logger
	programs map[tokenswap.Address]registered
	metrics  *Metrics
	maxDepth int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMetrics records execution metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// WithMaxInvokeDepth overrides DefaultMaxInvokeDepth.
func WithMaxInvokeDepth(depth int) Option {
	return func(r *Runtime) { r.maxDepth = depth }
}

// New returns a runtime without any program registered.
func New(db store.CacheableKVStore, conf Config, logger log.Logger, opts ...Option) *Runtime {
	if logger == nil {
		logger = tokenswap.DefaultLogger
	}
	r := &Runtime{
		db:       db,
		conf:     conf,
		logger:   logger,
		programs: make(map[tokenswap.Address]registered),
		maxDepth: DefaultMaxInvokeDepth,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register makes a program callable under id. It panics if the id is taken,
// registration is part of the startup.
func (r *Runtime) Register(name string, id tokenswap.Address, p tokenswap.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[id]; ok {
		panic("program already registered: " + id.String())
	}
	r.programs[id] = registered{name: name, program: p}
}

// Config returns the configuration the runtime was created with.
func (r *Runtime) Config() Config {
	return r.conf
}

// Execute verifies the transaction signatures and runs all instructions.
// Their effects are written to the store only if every instruction succeeds.
func (r *Runtime) Execute(ctx context.Context, tx *tokenswap.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "no instructions")
	}
	signers, err := tx.VerifySignatures()
	if err != nil {
		return err
	}

	cache := r.db.CacheWrap()
	ex := &execution{
		rt:       r,
		db:       cache,
		signers:  signers,
		accounts: make(map[tokenswap.Address]*tokenswap.Account),
		loaded:   make(map[tokenswap.Address]*tokenswap.Account),
	}
	ctx = tokenswap.WithRent(tokenswap.WithLogger(ctx, r.logger), r.conf.Rent)

	for i, ix := range tx.Instructions {
		if err := ex.run(ctx, ix, 0, nil); err != nil {
			cache.Discard()
			r.logger.Info("transaction failed", "instruction", i, "err", err)
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	r.metrics.accounts(len(ex.accounts))
	if err := ex.commit(); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	r.logger.Debug("transaction committed", "instructions", len(tx.Instructions), "accounts", len(ex.accounts))
	return nil
}

// Account returns the stored state of addr. Registered programs are reported
// as executable accounts. ErrNotFound is returned for an address that holds
// nothing.
func (r *Runtime) Account(addr tokenswap.Address) (*tokenswap.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[addr]; ok {
		return programAccount(), nil
	}
	acc, err := loadAccount(r.db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return acc, nil
}

// Entry is a stored account together with its address.
type Entry struct {
	Key     tokenswap.Address
	Account *tokenswap.Account
}

// AccountsByOwner returns all stored accounts owned by the program, ordered
// by address.
func (r *Runtime) AccountsByOwner(owner tokenswap.Address) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	end := append([]byte(nil), accountPrefix...)
	end[len(end)-1]++
	it, err := r.db.Iterator(accountPrefix, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	var found []Entry
	for ; it.Valid(); err = it.Next() {
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		var acc tokenswap.Account
		if err := acc.Unmarshal(it.Value()); err != nil {
			return nil, errors.Wrap(err, "stored account")
		}
		if acc.Owner != owner {
			continue
		}
		addr, err := tokenswap.NewAddress(it.Key()[len(accountPrefix):])
		if err != nil {
			return nil, errors.Wrap(err, "stored key")
		}
		found = append(found, Entry{Key: addr, Account: &acc})
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return found, nil
}

func programAccount() *tokenswap.Account {
	return &tokenswap.Account{Owner: NativeLoader, Lamports: 1, Executable: true}
}

// loadAccount returns nil if nothing is stored under addr.
func loadAccount(db store.ReadOnlyKVStore, addr tokenswap.Address) (*tokenswap.Account, error) {
	raw, err := db.Get(accountKey(addr))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var acc tokenswap.Account
	if err := acc.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

func storeAccount(db store.SetDeleter, addr tokenswap.Address, acc *tokenswap.Account) error {
	if acc.Lamports == 0 {
		return db.Delete(accountKey(addr))
	}
	raw, err := acc.Marshal()
	if err != nil {
		return err
	}
	return db.Set(accountKey(addr), raw)
}
