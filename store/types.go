package store

// ReadOnlyKVStore is the read access to a store. Get returns nil for a
// missing key.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks the keys of [start, end) in ascending order. A nil
	// bound leaves that side open. The domain must not be written while
	// the iterator is open.
	Iterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write access shared by stores and batches. Keys and
// values are not modified after they are passed in.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is implemented by every backing store.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch that writes to this store.
	NewBatch() Batch
}

// Batch collects writes until Write is called. A batch of a persistent
// store writes atomically.
type Batch interface {
	SetDeleter
	Write() error
}

/*
Iterator walks an ordered range of keys.

  it, err := db.Iterator(start, end)
  ...
  defer it.Close()
  for ; it.Valid(); err = it.Next() {
    k, v := it.Key(), it.Value()
    ...
  }

Next, Key and Value panic once Valid returned false. Keys and values must
not be modified.
*/
type Iterator interface {
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore is a KVStore that transactions can be run on top of.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad over a store. Reads see the pending writes.
// Write flushes them into the store, Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// Model is a key with its value.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
