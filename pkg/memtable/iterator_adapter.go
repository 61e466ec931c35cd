package memtable

import "github.com/hearthdb/hearthkv/pkg/common/iterator"

// IteratorAdapter adapts a memtable.Iterator to the common iterator.Iterator
// interface, whose Seek/Next return a validity bool instead of requiring a
// separate Valid() call.
type IteratorAdapter struct {
	iter *Iterator
}

var _ iterator.Iterator = (*IteratorAdapter)(nil)

// NewIteratorAdapter wraps iter.
func NewIteratorAdapter(iter *Iterator) *IteratorAdapter {
	return &IteratorAdapter{iter: iter}
}

// SeekToFirst positions the iterator at the first key.
func (a *IteratorAdapter) SeekToFirst() {
	a.iter.SeekToFirst()
}

// SeekToLast positions the iterator at the last key.
func (a *IteratorAdapter) SeekToLast() {
	a.iter.SeekToLast()
}

// Seek positions the iterator at the first key >= target.
func (a *IteratorAdapter) Seek(target []byte) bool {
	a.iter.Seek(target)
	return a.iter.Valid()
}

// Next advances the iterator to the next key.
func (a *IteratorAdapter) Next() bool {
	if !a.Valid() {
		return false
	}
	a.iter.Next()
	return a.iter.Valid()
}

// Key returns the current entry's user key, stripping the internal
// sequence/type tag that Iterator.Key carries.
func (a *IteratorAdapter) Key() []byte {
	if !a.Valid() {
		return nil
	}
	return a.iter.UserKey()
}

// Value returns the current value, or nil for a tombstone.
func (a *IteratorAdapter) Value() []byte {
	if !a.Valid() {
		return nil
	}
	if a.iter.IsTombstone() {
		return nil
	}
	return a.iter.Value()
}

// Valid returns true if the iterator is positioned at a valid entry.
func (a *IteratorAdapter) Valid() bool {
	return a.iter != nil && a.iter.Valid()
}

// IsTombstone returns true if the current entry is a deletion marker.
func (a *IteratorAdapter) IsTombstone() bool {
	return a.iter != nil && a.iter.IsTombstone()
}

// SequenceNumber returns the sequence number of the current entry.
func (a *IteratorAdapter) SequenceNumber() uint64 {
	if !a.Valid() {
		return 0
	}
	return a.iter.SequenceNumber()
}
