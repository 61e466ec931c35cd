package memtable

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	// MaxHeight is the maximum height of the skip list.
	MaxHeight = 12

	// BranchingFactor determines the probability of increasing the height:
	// a new node gets a given level with probability 1/BranchingFactor.
	BranchingFactor = 4
)

// skipListNode holds one arena-backed entry and its forward pointers at
// each level the node participates in.
type skipListNode struct {
	key    []byte
	height int32
	next   [MaxHeight]unsafe.Pointer
}

func newSkipListNode(key []byte, height int) *skipListNode {
	return &skipListNode{key: key, height: int32(height)}
}

func (n *skipListNode) getNext(level int) *skipListNode {
	return (*skipListNode)(atomic.LoadPointer(&n.next[level]))
}

func (n *skipListNode) setNext(level int, next *skipListNode) {
	atomic.StorePointer(&n.next[level], unsafe.Pointer(next))
}

// skipList is an ordered set of arena-backed entry byte slices, kept sorted
// by an internalKeyComparator. Insertion publishes new nodes with atomic
// pointer stores so a concurrent reader that observes a node also observes
// its complete key bytes, matching the publication-safety rule every
// memtable reader relies on. A skipList has a single writer; any number of
// concurrent readers are safe.
type skipList struct {
	cmp       *internalKeyComparator
	head      *skipListNode
	maxHeight int32
	rnd       *rand.Rand
	rndMtx    sync.Mutex
	size      int64
}

func newSkipList(cmp *internalKeyComparator, seed int64) *skipList {
	return &skipList{
		cmp:       cmp,
		head:      newSkipListNode(nil, MaxHeight),
		maxHeight: 1,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

func (s *skipList) randomHeight() int {
	s.rndMtx.Lock()
	defer s.rndMtx.Unlock()

	height := 1
	for height < MaxHeight && s.rnd.Intn(BranchingFactor) == 0 {
		height++
	}
	return height
}

func (s *skipList) getCurrentHeight() int {
	return int(atomic.LoadInt32(&s.maxHeight))
}

func (s *skipList) keyIsAfterNode(key []byte, n *skipListNode) bool {
	return n != nil && s.cmp.compareEncoded(n.key, key) < 0
}

// findGreaterOrEqual returns the first node whose key is >= key, or nil if
// none exists. If prev is non-nil, it is filled in with, for each level,
// the last node strictly before the result.
func (s *skipList) findGreaterOrEqual(key []byte, prev []*skipListNode) *skipListNode {
	current := s.head
	level := s.getCurrentHeight() - 1
	for {
		next := current.getNext(level)
		if s.keyIsAfterNode(key, next) {
			current = next
			continue
		}
		if prev != nil {
			prev[level] = current
		}
		if level == 0 {
			return next
		}
		level--
	}
}

// findLessThan returns the last node with a key strictly less than key, or
// the head sentinel if none exists.
func (s *skipList) findLessThan(key []byte) *skipListNode {
	current := s.head
	level := s.getCurrentHeight() - 1
	for {
		next := current.getNext(level)
		if next != nil && s.cmp.compareEncoded(next.key, key) < 0 {
			current = next
			continue
		}
		if level == 0 {
			return current
		}
		level--
	}
}

// findLast returns the last node in the list, or the head sentinel if the
// list is empty.
func (s *skipList) findLast() *skipListNode {
	current := s.head
	level := s.getCurrentHeight() - 1
	for {
		next := current.getNext(level)
		if next != nil {
			current = next
			continue
		}
		if level == 0 {
			return current
		}
		level--
	}
}

// Insert adds an already-arena-encoded entry to the set. Entries that
// compare equal under the comparator are all kept; a new entry is placed
// before any existing entries equal to it.
func (s *skipList) Insert(key []byte) {
	height := s.randomHeight()
	var prev [MaxHeight]*skipListNode

	currHeight := s.getCurrentHeight()
	if height > currHeight {
		if atomic.CompareAndSwapInt32(&s.maxHeight, int32(currHeight), int32(height)) {
			currHeight = height
		}
	}

	current := s.head
	for level := currHeight - 1; level >= 0; level-- {
		for next := current.getNext(level); s.keyIsAfterNode(key, next); next = current.getNext(level) {
			current = next
		}
		prev[level] = current
	}

	node := newSkipListNode(key, height)
	for level := 0; level < height; level++ {
		node.setNext(level, prev[level].getNext(level))
		prev[level].setNext(level, node)
	}

	atomic.AddInt64(&s.size, int64(len(key)))
}

// ApproximateSize returns the total length, in bytes, of every key inserted
// so far. This is a secondary bookkeeping counter; MemTable callers use the
// owning arena's MemoryUsage for the authoritative figure.
func (s *skipList) ApproximateSize() int64 {
	return atomic.LoadInt64(&s.size)
}

// skipListIterator provides bidirectional sequential access over a
// skipList's entries.
type skipListIterator struct {
	list    *skipList
	current *skipListNode
}

func (s *skipList) NewIterator() *skipListIterator {
	return &skipListIterator{list: s}
}

// Valid reports whether the iterator is positioned at an entry.
func (it *skipListIterator) Valid() bool {
	return it.current != nil
}

// Key returns the current entry's raw encoded bytes.
func (it *skipListIterator) Key() []byte {
	if !it.Valid() {
		return nil
	}
	return it.current.key
}

// Next advances to the following entry.
func (it *skipListIterator) Next() {
	it.current = it.current.getNext(0)
}

// Prev moves to the preceding entry. This re-seeks from the head rather
// than following an explicit back-link: the list carries none, since only
// a single writer ever mutates it and a fresh top-down search is already
// O(log n).
func (it *skipListIterator) Prev() {
	prev := it.list.findLessThan(it.current.key)
	if prev == it.list.head {
		it.current = nil
		return
	}
	it.current = prev
}

// Seek positions the iterator at the first entry whose key is >= target.
func (it *skipListIterator) Seek(target []byte) {
	it.current = it.list.findGreaterOrEqual(target, nil)
}

// SeekToFirst positions the iterator at the list's first entry.
func (it *skipListIterator) SeekToFirst() {
	it.current = it.list.head.getNext(0)
}

// SeekToLast positions the iterator at the list's last entry.
func (it *skipListIterator) SeekToLast() {
	last := it.list.findLast()
	if last == it.list.head {
		it.current = nil
		return
	}
	it.current = last
}
