package store

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a persistent KVStore backed by goleveldb. Wrap it with
// CacheWrap to group the writes of one transaction into an atomic batch.
type LevelDB struct {
	db *leveldb.DB
}

var _ CacheableKVStore = (*LevelDB)(nil)

// OpenLevelDB creates or opens a database in the given directory.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return &LevelDB{db: db}, nil
}

// Close releases the database files.
func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns nil for a missing key.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	switch err {
	case nil:
		return val, nil
	case leveldb.ErrNotFound:
		return nil, nil
	default:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

func (l *LevelDB) Set(key, value []byte) error {
	if err := l.db.Put(key, value, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (l *LevelDB) Delete(key []byte) error {
	if err := l.db.Delete(key, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Iterator over a domain of keys in ascending order.
func (l *LevelDB) Iterator(start, end []byte) (Iterator, error) {
	it := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIter{it: it, valid: it.First()}, nil
}

// NewBatch returns a batch written with a single synced leveldb write.
func (l *LevelDB) NewBatch() Batch {
	return &levelBatch{db: l.db, batch: new(leveldb.Batch)}
}

// CacheWrap places a btree cache in front of the database.
func (l *LevelDB) CacheWrap() KVCacheWrap {
	return newCacheWrap(l)
}

type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) Write() error {
	err := b.db.Write(b.batch, &opt.WriteOptions{Sync: true})
	b.batch.Reset()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// levelIter adapts the goleveldb iterator. Keys and values are copied as
// goleveldb reuses its buffers.
type levelIter struct {
	it    iterator.Iterator
	valid bool
}

func (i *levelIter) Valid() bool {
	return i.valid
}

func (i *levelIter) Next() error {
	if !i.valid {
		panic("advanced past the end")
	}
	i.valid = i.it.Next()
	if !i.valid {
		if err := i.it.Error(); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

func (i *levelIter) Key() []byte {
	return append([]byte(nil), i.it.Key()...)
}

func (i *levelIter) Value() []byte {
	return append([]byte(nil), i.it.Value()...)
}

func (i *levelIter) Close() {
	i.it.Release()
	i.valid = false
}
