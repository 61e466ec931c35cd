package arena

import "testing"

func TestAllocateExactSize(t *testing.T) {
	a := New()
	b, err := a.Allocate(10)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(b) != 10 {
		t.Errorf("want len 10, got %d", len(b))
	}
}

func TestAllocateZeroIsError(t *testing.T) {
	a := New()
	if _, err := a.Allocate(0); err != ErrZeroSizeAllocation {
		t.Errorf("expected ErrZeroSizeAllocation, got %v", err)
	}
	if _, err := a.AllocateAligned(0); err != ErrZeroSizeAllocation {
		t.Errorf("expected ErrZeroSizeAllocation, got %v", err)
	}
}

func TestAllocateNeverOverlaps(t *testing.T) {
	a := New()
	seen := make(map[uintptr]bool)
	for i := 0; i < 2000; i++ {
		b, err := a.Allocate(17)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		for j := range b {
			b[j] = byte(i)
		}
		addr := addressOf(b)
		if seen[addr] {
			t.Fatalf("allocation %d aliases a previous allocation at %v", i, addr)
		}
		seen[addr] = true
	}
}

func TestAllocateLargeRequestGetsOwnBlock(t *testing.T) {
	a := New()
	// Prime the current block with a small allocation so there's leftover
	// space that a subsequent big allocation should not disturb.
	small, err := a.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	remainingBefore := len(a.allocPtr)

	big, err := a.Allocate(BlockSize) // > BlockSize/4
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(big) != BlockSize {
		t.Errorf("want len %d, got %d", BlockSize, len(big))
	}

	// The remainder of the original block must still be usable afterward.
	if len(a.allocPtr) != remainingBefore {
		t.Errorf("large allocation disturbed the current block's remainder: want %d, got %d", remainingBefore, len(a.allocPtr))
	}

	next, err := a.Allocate(remainingBefore)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if addressOf(next) != addressOf(small)+16 {
		t.Errorf("expected the small allocation's leftover space to be reused")
	}
}

func TestAllocateAlignedIsAligned(t *testing.T) {
	a := New()
	for i := 0; i < 500; i++ {
		b, err := a.AllocateAligned(i%37 + 1)
		if err != nil {
			t.Fatalf("AllocateAligned: %v", err)
		}
		if addressOf(b)%alignment != 0 {
			t.Fatalf("allocation %d at %v is not %d-byte aligned", i, addressOf(b), alignment)
		}
	}
}

func TestMemoryUsageMonotonic(t *testing.T) {
	a := New()
	prev := a.MemoryUsage()
	if prev != 0 {
		t.Fatalf("expected fresh arena to report 0 usage, got %d", prev)
	}
	for i := 0; i < 50; i++ {
		if _, err := a.Allocate(64); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		cur := a.MemoryUsage()
		if cur < prev {
			t.Fatalf("memory usage decreased: %d -> %d", prev, cur)
		}
		prev = cur
	}
	if prev == 0 {
		t.Fatalf("expected memory usage to grow from allocations")
	}
}

func TestMemoryUsageCountsBlocksNotAllocations(t *testing.T) {
	a := New()
	for i := 0; i < 10; i++ {
		if _, err := a.Allocate(8); err != nil {
			t.Fatalf("Allocate: %v", err)
		}
	}
	// 10 tiny allocations should have been served from a single standard
	// block, so usage should reflect one block, not 10 * 8 bytes.
	if got := a.MemoryUsage(); got != BlockSize+pointerSize {
		t.Errorf("want %d, got %d", BlockSize+pointerSize, got)
	}
}
