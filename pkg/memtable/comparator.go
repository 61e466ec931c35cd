package memtable

import (
	"bytes"

	"github.com/hearthdb/hearthkv/pkg/batch"
	"github.com/hearthdb/hearthkv/pkg/codec"
)

// Comparator defines a total order over user keys.
type Comparator interface {
	Compare(a, b []byte) int
}

// BytewiseComparator orders user keys by unsigned byte-wise comparison. It
// is the default comparator for a MemTable that doesn't need a custom key
// layout.
type BytewiseComparator struct{}

// Compare implements Comparator.
func (BytewiseComparator) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// valueForSeek is the type value used when constructing a lookup key: it is
// the highest-numbered real record type, so under the descending-tag order a
// lookup key sorts at or before every real entry at the same (user key,
// sequence) pair, and seeking to a key built with this type and a target
// sequence lands on the first real entry whose sequence is <= the target.
const valueForSeek = batch.ValueType(0x01)

// packTag combines a sequence number and a record type into the fixed64 tag
// stored after a memtable entry's user key, matching the WAL/batch record
// type encoding (TypeDeletion=0, TypeValue=1).
func packTag(seq uint64, t batch.ValueType) uint64 {
	return (seq << 8) | uint64(t)
}

// unpackTag splits a fixed64 tag back into sequence and type.
func unpackTag(tag uint64) (seq uint64, t batch.ValueType) {
	return tag >> 8, batch.ValueType(tag & 0xff)
}

// internalKeyComparator orders encoded memtable entries (the varint32
// ikey_len ‖ user_key ‖ tag prefix that opens every entry) by user key
// ascending, then by descending tag so that a newer (higher sequence)
// record for the same user key sorts before an older one. Comparing the
// raw 8-byte tag as a big-endian-equivalent integer in reverse happens to
// fall out of comparing the two tags numerically and negating, since both
// are fixed-width.
type internalKeyComparator struct {
	user Comparator
}

func newInternalKeyComparator(user Comparator) *internalKeyComparator {
	if user == nil {
		user = BytewiseComparator{}
	}
	return &internalKeyComparator{user: user}
}

// compareEncoded compares two encoded entries (each starting with the
// varint32 ikey_len prefix) by decoding their internal-key portion.
func (c *internalKeyComparator) compareEncoded(a, b []byte) int {
	aKey, _, err := decodeEntryPrefix(a)
	if err != nil {
		panic("memtable: corrupt entry in comparator: " + err.Error())
	}
	bKey, _, err := decodeEntryPrefix(b)
	if err != nil {
		panic("memtable: corrupt entry in comparator: " + err.Error())
	}
	return c.compareInternalKeys(aKey, bKey)
}

// compareInternalKeys compares two internal keys: user_key ‖ fixed64 tag.
func (c *internalKeyComparator) compareInternalKeys(a, b []byte) int {
	aUser, aTag := splitInternalKey(a)
	bUser, bTag := splitInternalKey(b)

	if cmp := c.user.Compare(aUser, bUser); cmp != 0 {
		return cmp
	}
	// Equal user keys: higher tag (newer sequence, or same sequence with a
	// type that sorts later) comes first, so reverse the numeric comparison.
	switch {
	case aTag > bTag:
		return -1
	case aTag < bTag:
		return 1
	default:
		return 0
	}
}

// splitInternalKey splits an internal key (user_key ‖ fixed64 tag) into its
// user key and tag.
func splitInternalKey(ikey []byte) (userKey []byte, tag uint64) {
	n := len(ikey)
	tag, _ = codec.DecodeFixed64(ikey[n-8:])
	return ikey[:n-8], tag
}

// decodeEntryPrefix decodes the varint32 ikey_len prefix of an encoded
// memtable entry and returns the internal key slice (user_key ‖ tag) along
// with the remaining bytes (value_len ‖ value).
func decodeEntryPrefix(entry []byte) (internalKey []byte, rest []byte, err error) {
	ikeyLen, afterLen, err := codec.DecodeVarint32(entry)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(afterLen)) < ikeyLen {
		return nil, nil, codec.ErrVarintCorrupt
	}
	return afterLen[:ikeyLen], afterLen[ikeyLen:], nil
}
