package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree of every tree in this package. A transaction touches a few
// dozen keys at most.
const btreeDegree = 8

// entry is a single key of a tree. A deleted entry is only found in cache
// wraps, where it hides the key of the backing store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

func lookup(bt *btree.BTree, key []byte) (entry, bool) {
	e, ok := bt.Get(entry{key: key}).(entry)
	return e, ok
}

// ascend returns a copy of all entries in [start, end). A nil bound leaves
// that side open. The copy stays valid while the tree is modified.
func ascend(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(i btree.Item) bool {
		res = append(res, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return res
}

func apply(out SetDeleter, e entry) error {
	if e.deleted {
		return out.Delete(e.key)
	}
	return out.Set(e.key, e.value)
}

// MemStore returns an empty store that lives in memory only. Writes go
// straight into a btree, cache wraps are used for anything transactional.
func MemStore() CacheableKVStore {
	return &memStore{bt: btree.New(btreeDegree)}
}

type memStore struct {
	bt *btree.BTree
}

var _ CacheableKVStore = (*memStore)(nil)

func (m *memStore) Get(key []byte) ([]byte, error) {
	e, _ := lookup(m.bt, key)
	return e.value, nil
}

func (m *memStore) Has(key []byte) (bool, error) {
	_, ok := lookup(m.bt, key)
	return ok, nil
}

func (m *memStore) Set(key, value []byte) error {
	m.bt.ReplaceOrInsert(entry{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.bt.Delete(entry{key: key})
	return nil
}

func (m *memStore) Iterator(start, end []byte) (Iterator, error) {
	entries := ascend(m.bt, start, end)
	models := make([]Model, len(entries))
	for i, e := range entries {
		models[i] = Pair(e.key, e.value)
	}
	return NewSliceIterator(models), nil
}

func (m *memStore) NewBatch() Batch {
	return NewNonAtomicBatch(m)
}

func (m *memStore) CacheWrap() KVCacheWrap {
	return newCacheWrap(m)
}
