package memtable

import (
	"testing"

	"github.com/hearthdb/hearthkv/pkg/batch"
)

func newTestSkipList() *skipList {
	return newSkipList(newInternalKeyComparator(BytewiseComparator{}), 42)
}

func skipListEntryUserKey(t *testing.T, raw []byte) string {
	t.Helper()
	internalKey, _, err := decodeEntryPrefix(raw)
	if err != nil {
		t.Fatalf("decodeEntryPrefix: %v", err)
	}
	userKey, _ := splitInternalKey(internalKey)
	return string(userKey)
}

func TestSkipListInsertAndIterateInOrder(t *testing.T) {
	s := newTestSkipList()
	s.Insert(encodeTestEntry("c", 1, batch.TypeValue, "3"))
	s.Insert(encodeTestEntry("a", 1, batch.TypeValue, "1"))
	s.Insert(encodeTestEntry("b", 1, batch.TypeValue, "2"))

	it := s.NewIterator()
	it.SeekToFirst()

	var order []string
	for it.Valid() {
		order = append(order, skipListEntryUserKey(t, it.Key()))
		it.Next()
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSkipListSeekLandsOnFirstKeyGreaterOrEqual(t *testing.T) {
	s := newTestSkipList()
	s.Insert(encodeTestEntry("a", 1, batch.TypeValue, ""))
	s.Insert(encodeTestEntry("c", 1, batch.TypeValue, ""))

	it := s.NewIterator()
	it.Seek(encodeLookupKey([]byte("b"), maxSequence))
	if !it.Valid() {
		t.Fatalf("expected Seek(\"b\") to land on \"c\"")
	}
	if uk := skipListEntryUserKey(t, it.Key()); uk != "c" {
		t.Fatalf("got %q, want %q", uk, "c")
	}
}

func TestSkipListSeekToLastAndPrevWalkBackward(t *testing.T) {
	s := newTestSkipList()
	s.Insert(encodeTestEntry("a", 1, batch.TypeValue, ""))
	s.Insert(encodeTestEntry("b", 1, batch.TypeValue, ""))
	s.Insert(encodeTestEntry("c", 1, batch.TypeValue, ""))

	it := s.NewIterator()
	it.SeekToLast()
	if !it.Valid() {
		t.Fatalf("expected SeekToLast to be valid on a non-empty list")
	}
	if uk := skipListEntryUserKey(t, it.Key()); uk != "c" {
		t.Fatalf("got %q, want %q", uk, "c")
	}

	var order []string
	for it.Valid() {
		order = append(order, skipListEntryUserKey(t, it.Key()))
		it.Prev()
	}
	want := []string{"c", "b", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSkipListOnEmptyListSeekToLastAndSeekToFirstAreInvalid(t *testing.T) {
	s := newTestSkipList()
	it := s.NewIterator()

	it.SeekToFirst()
	if it.Valid() {
		t.Fatalf("SeekToFirst on an empty list must be invalid")
	}

	it.SeekToLast()
	if it.Valid() {
		t.Fatalf("SeekToLast on an empty list must be invalid")
	}
}

func TestSkipListApproximateSizeGrowsWithInsertions(t *testing.T) {
	s := newTestSkipList()
	if s.ApproximateSize() != 0 {
		t.Fatalf("expected 0 size on an empty list")
	}
	entry := encodeTestEntry("a", 1, batch.TypeValue, "value")
	s.Insert(entry)
	if s.ApproximateSize() != int64(len(entry)) {
		t.Fatalf("got %d, want %d", s.ApproximateSize(), len(entry))
	}
}
