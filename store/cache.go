package store

import (
	"github.com/google/btree"
)

// cacheWrap buffers writes in a btree in front of a backing store. Reads
// see the buffered writes first. Write flushes them as one batch of the
// backing store, Discard drops them.
type cacheWrap struct {
	pending *btree.BTree
	back    KVStore
}

var _ KVCacheWrap = (*cacheWrap)(nil)

func newCacheWrap(back KVStore) *cacheWrap {
	return &cacheWrap{
		pending: btree.New(btreeDegree),
		back:    back,
	}
}

// CacheWrap layers another cache on top of this one. Writing it only
// updates this cache.
func (c *cacheWrap) CacheWrap() KVCacheWrap {
	return newCacheWrap(c)
}

func (c *cacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all buffered changes in key order and empties the cache.
func (c *cacheWrap) Write() error {
	batch := c.back.NewBatch()
	for _, e := range ascend(c.pending, nil, nil) {
		if err := apply(batch, e); err != nil {
			c.Discard()
			return err
		}
	}
	c.Discard()
	return batch.Write()
}

func (c *cacheWrap) Discard() {
	for c.pending.DeleteMin() != nil {
	}
}

func (c *cacheWrap) Set(key, value []byte) error {
	c.pending.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

func (c *cacheWrap) Delete(key []byte) error {
	c.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return nil
}

func (c *cacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := lookup(c.pending, key)
	if !ok {
		return c.back.Get(key)
	}
	return e.value, nil
}

func (c *cacheWrap) Has(key []byte) (bool, error) {
	e, ok := lookup(c.pending, key)
	if !ok {
		return c.back.Has(key)
	}
	return !e.deleted, nil
}

func (c *cacheWrap) Iterator(start, end []byte) (Iterator, error) {
	back, err := c.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(ascend(c.pending, start, end), back)
}
