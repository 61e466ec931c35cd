package batch

import "testing"

func TestNewMetricsWithNilTelemetryReturnsNoop(t *testing.T) {
	m := NewMetrics(nil)
	if _, ok := m.(*noopMetrics); !ok {
		t.Fatalf("expected NewMetrics(nil) to return the noop implementation")
	}
}

func TestNoopMetricsDoesNotPanic(t *testing.T) {
	m := NewNoopMetrics()
	m.RecordPut(3, 5)
	m.RecordDelete(3)
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewWithMetricsWiresPutAndDelete(t *testing.T) {
	b := NewWithMetrics(NewNoopMetrics())
	b.Put([]byte("a"), []byte("1"))
	b.Delete([]byte("b"))
	if b.Count() != 2 {
		t.Fatalf("got count %d, want 2", b.Count())
	}
}

func TestZeroValueBatchMetricsDoesNotPanic(t *testing.T) {
	var b Batch
	b.Clear()
	b.Put([]byte("a"), []byte("1"))
}
