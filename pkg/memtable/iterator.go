package memtable

import "github.com/hearthdb/hearthkv/pkg/batch"

// Iterator walks a MemTable's entries in key order: user key ascending,
// then sequence number descending. It wraps the underlying skip list
// iterator and decodes each entry lazily.
type Iterator struct {
	it  *skipListIterator
	cmp *internalKeyComparator
}

// Valid reports whether the iterator is positioned at an entry.
func (it *Iterator) Valid() bool {
	return it.it.Valid()
}

// SeekToFirst positions the iterator at the table's first entry.
func (it *Iterator) SeekToFirst() {
	it.it.SeekToFirst()
}

// SeekToLast positions the iterator at the table's last entry.
func (it *Iterator) SeekToLast() {
	it.it.SeekToLast()
}

// Seek positions the iterator at the first entry whose user key is >=
// target, preferring the newest version of target itself if one exists.
func (it *Iterator) Seek(userKey []byte) {
	// A tag of valueForSeek with the maximum sequence number sorts before
	// every real entry for this user key, landing on the newest one.
	it.it.Seek(encodeLookupKey(userKey, maxSequence))
}

// Next advances to the following entry.
func (it *Iterator) Next() {
	it.it.Next()
}

// Prev moves to the preceding entry.
func (it *Iterator) Prev() {
	it.it.Prev()
}

// Key returns the current entry's internal key: the user key followed by
// the fixed64 (sequence, type) tag, exactly the bytes that follow the
// varint32 length prefix in the encoded entry. Callers that only want the
// user-visible key should call UserKey instead.
func (it *Iterator) Key() []byte {
	if !it.Valid() {
		return nil
	}
	return it.internalKey()
}

// UserKey returns the current entry's user key, with the trailing tag
// stripped off.
func (it *Iterator) UserKey() []byte {
	if !it.Valid() {
		return nil
	}
	userKey, _ := splitInternalKey(it.internalKey())
	return userKey
}

// Value returns the current entry's value. For a tombstone entry, this is
// whatever value bytes were stored alongside the deletion marker (empty
// when the deletion was added with a nil value); callers
// that care about tombstones should check IsTombstone first.
func (it *Iterator) Value() []byte {
	if !it.Valid() {
		return nil
	}
	_, _, value, err := decodeEntry(it.it.Key())
	if err != nil {
		return nil
	}
	return value
}

// IsTombstone reports whether the current entry is a deletion marker.
func (it *Iterator) IsTombstone() bool {
	if !it.Valid() {
		return false
	}
	_, tag := splitInternalKey(it.internalKey())
	_, typ := unpackTag(tag)
	return typ == batch.TypeDeletion
}

// SequenceNumber returns the current entry's sequence number.
func (it *Iterator) SequenceNumber() uint64 {
	if !it.Valid() {
		return 0
	}
	_, tag := splitInternalKey(it.internalKey())
	seq, _ := unpackTag(tag)
	return seq
}

func (it *Iterator) internalKey() []byte {
	internalKey, _, err := decodeEntryPrefix(it.it.Key())
	if err != nil {
		return nil
	}
	return internalKey
}

// maxSequence is the largest sequence number a lookup key can carry; used
// by Seek to land on the newest version of a user key.
const maxSequence = ^uint64(0) >> 8
