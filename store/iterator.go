package store

import "bytes"

// mergeIter walks the pending entries of a cache wrap and the iterator of
// its backing store side by side. On equal keys the pending entry wins and
// a deleted one hides the key.
type mergeIter struct {
	pending []entry
	back    Iterator
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(pending []entry, back Iterator) (*mergeIter, error) {
	it := &mergeIter{pending: pending, back: back}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (it *mergeIter) Valid() bool {
	return len(it.pending) != 0 || it.back.Valid()
}

func (it *mergeIter) Next() error {
	if !it.Valid() {
		panic("iterator passed the end")
	}
	if err := it.advance(); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *mergeIter) Key() []byte {
	if it.fromPending() {
		return it.pending[0].key
	}
	return it.back.Key()
}

func (it *mergeIter) Value() []byte {
	if it.fromPending() {
		return it.pending[0].value
	}
	return it.back.Value()
}

func (it *mergeIter) Close() {
	it.back.Close()
	it.pending = nil
}

// order compares the two heads. It is negative when the pending entry comes
// first, positive when the backing store does and zero for the same key.
func (it *mergeIter) order() int {
	switch {
	case len(it.pending) == 0:
		return 1
	case !it.back.Valid():
		return -1
	}
	return bytes.Compare(it.pending[0].key, it.back.Key())
}

func (it *mergeIter) fromPending() bool {
	if !it.Valid() {
		panic("iterator passed the end")
	}
	return it.order() <= 0
}

// advance moves both sources past the current key.
func (it *mergeIter) advance() error {
	o := it.order()
	if o <= 0 {
		it.pending = it.pending[1:]
	}
	if o >= 0 {
		return it.back.Next()
	}
	return nil
}

func (it *mergeIter) skipDeleted() error {
	for len(it.pending) != 0 && it.pending[0].deleted && it.order() <= 0 {
		if err := it.advance(); err != nil {
			return err
		}
	}
	return nil
}
