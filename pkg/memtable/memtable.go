// Package memtable implements the write path's in-memory ordered store: an
// arena-backed skip list of tagged key/value entries, queried through an
// internal-key comparator that orders by user key ascending, then sequence
// number descending so a lookup naturally lands on the newest visible
// version of a key.
package memtable

import (
	"math/rand"

	"github.com/hearthdb/hearthkv/pkg/arena"
	"github.com/hearthdb/hearthkv/pkg/batch"
	"github.com/hearthdb/hearthkv/pkg/codec"
	"github.com/hearthdb/hearthkv/pkg/common/log"
)

// LookupResult reports the outcome of a MemTable.Get call.
type LookupResult int

const (
	// Missing means no entry for the key is visible at the requested
	// snapshot (entries with a higher sequence number are not considered).
	Missing LookupResult = iota
	// Found means a live value was located.
	Found
	// Tombstone means the newest visible entry for the key is a deletion
	// marker.
	Tombstone
)

// MemTable is an arena-backed, comparator-ordered store of tagged entries.
// It has no internal locking: per the single-writer model, Add is called
// from exactly one goroutine, while any number of goroutines may call Get
// or iterate concurrently with that writer.
type MemTable struct {
	arena   *arena.Arena
	cmp     *internalKeyComparator
	table   *skipList
	metrics Metrics
	logger  log.Logger
}

// New returns an empty MemTable using the default bytewise user comparator.
func New() *MemTable {
	return NewWithComparator(BytewiseComparator{})
}

// NewWithComparator returns an empty MemTable ordering user keys with cmp.
func NewWithComparator(cmp Comparator) *MemTable {
	return newMemTable(cmp, NewNoopMetrics())
}

// NewWithMetrics is like New but attaches a Metrics implementation for
// instrumentation.
func NewWithMetrics(metrics Metrics) *MemTable {
	return newMemTable(BytewiseComparator{}, metrics)
}

func newMemTable(cmp Comparator, metrics Metrics) *MemTable {
	ikc := newInternalKeyComparator(cmp)
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &MemTable{
		arena:   arena.New(),
		cmp:     ikc,
		table:   newSkipList(ikc, rand.Int63()),
		metrics: metrics,
		logger:  log.GetDefaultLogger().WithField("component", "memtable"),
	}
}

// Add inserts one entry: sequence number seq, record type t (TypeValue or
// TypeDeletion), userKey, and value. value is encoded as given for either
// type; a deletion added with a nil value is stored with an empty
// length-prefixed slice, matching the wire layout every entry carries.
//
// Entry layout, allocated from the arena in one shot:
//
//	varint32 ikey_len | user_key | fixed64 tag | varint32 value_len | value
//
// where ikey_len = len(user_key) + 8 and tag = (seq << 8) | type.
func (m *MemTable) Add(seq uint64, t batch.ValueType, userKey, value []byte) error {
	ikeyLen := len(userKey) + 8
	encodedLen := codec.VarintLength32(uint32(ikeyLen)) + ikeyLen + codec.VarintLength32(uint32(len(value))) + len(value)

	buf, err := m.arena.Allocate(encodedLen)
	if err != nil {
		m.logger.Error("failed to allocate %d bytes for entry on key %q: %v", encodedLen, userKey, err)
		return err
	}

	p := buf[:0]
	p = codec.AppendVarint32(p, uint32(ikeyLen))
	p = append(p, userKey...)
	p = codec.AppendFixed64(p, packTag(seq, t))
	p = codec.AppendVarint32(p, uint32(len(value)))
	p = append(p, value...)

	m.table.Insert(buf)
	m.metrics.RecordAdd(len(userKey), len(value))
	return nil
}

// Get looks up the newest entry visible at sequence snapshot for userKey.
func (m *MemTable) Get(userKey []byte, snapshot uint64) (value []byte, result LookupResult) {
	lookupKey := encodeLookupKey(userKey, snapshot)

	it := m.table.NewIterator()
	it.Seek(lookupKey)
	if !it.Valid() {
		m.metrics.RecordGet(false)
		return nil, Missing
	}

	entryUserKey, tag, value, err := decodeEntry(it.Key())
	if err != nil {
		m.logger.Error("corrupt entry found during Get(%q): %v", userKey, err)
		m.metrics.RecordGet(false)
		return nil, Missing
	}
	if m.cmp.user.Compare(entryUserKey, userKey) != 0 {
		m.metrics.RecordGet(false)
		return nil, Missing
	}

	_, typ := unpackTag(tag)
	if typ == batch.TypeDeletion {
		m.metrics.RecordGet(true)
		return nil, Tombstone
	}
	m.metrics.RecordGet(true)
	return value, Found
}

// ApproximateMemoryUsage reports the owning arena's total block-level
// memory usage, the authoritative size figure callers use to decide when
// to roll the memtable over.
func (m *MemTable) ApproximateMemoryUsage() int64 {
	return m.arena.MemoryUsage()
}

// NewIterator returns an iterator over every entry in key order (user key
// ascending, then sequence descending).
func (m *MemTable) NewIterator() *Iterator {
	return &Iterator{it: m.table.NewIterator(), cmp: m.cmp}
}

// encodeLookupKey builds a memtable seek key for (userKey, snapshot): the
// same ikey_len ‖ user_key ‖ tag shape as a real entry's prefix, but tagged
// with valueForSeek so the comparator's descending-tag ordering places it
// immediately before the newest real entry at or below the snapshot
// sequence.
func encodeLookupKey(userKey []byte, snapshot uint64) []byte {
	ikeyLen := len(userKey) + 8
	out := make([]byte, 0, codec.VarintLength32(uint32(ikeyLen))+ikeyLen)
	out = codec.AppendVarint32(out, uint32(ikeyLen))
	out = append(out, userKey...)
	out = codec.AppendFixed64(out, packTag(snapshot, valueForSeek))
	return out
}

// decodeEntry splits an encoded entry into its user key, tag, and value.
func decodeEntry(entry []byte) (userKey []byte, tag uint64, value []byte, err error) {
	internalKey, rest, err := decodeEntryPrefix(entry)
	if err != nil {
		return nil, 0, nil, err
	}
	uk, t := splitInternalKey(internalKey)
	v, _, err := codec.GetLengthPrefixedSlice(rest)
	if err != nil {
		return nil, 0, nil, err
	}
	return uk, t, v, nil
}
