package store

// NonAtomicBatch collects writes and applies them one after the other on
// Write. Only in-memory stores use it, a failure half way cannot leave a
// database behind.
type NonAtomicBatch struct {
	out SetDeleter
	ops []entry
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, entry{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, entry{key: key, deleted: true})
	return nil
}

// Write applies all collected operations in order and resets the batch.
func (b *NonAtomicBatch) Write() error {
	ops := b.ops
	b.ops = nil
	for _, op := range ops {
		if err := apply(b.out, op); err != nil {
			return err
		}
	}
	return nil
}

// sliceIterator walks a sorted slice of models.
type sliceIterator struct {
	data []Model
}

// NewSliceIterator returns an iterator over data, which must be sorted by
// key.
func NewSliceIterator(data []Model) Iterator {
	return &sliceIterator{data: data}
}

func (s *sliceIterator) Valid() bool {
	return len(s.data) != 0
}

func (s *sliceIterator) Next() error {
	s.mustBeValid()
	s.data = s.data[1:]
	return nil
}

func (s *sliceIterator) Key() []byte {
	s.mustBeValid()
	return s.data[0].Key
}

func (s *sliceIterator) Value() []byte {
	s.mustBeValid()
	return s.data[0].Value
}

func (s *sliceIterator) Close() {
	s.data = nil
}

func (s *sliceIterator) mustBeValid() {
	if !s.Valid() {
		panic("iterator passed the end")
	}
}
