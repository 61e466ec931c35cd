package memtable

import (
	"context"

	"github.com/hearthdb/hearthkv/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Metrics defines the telemetry operations a MemTable reports. Flush and
// pool-state metrics from a full storage engine have no home here: this
// package has no flush policy and no MemTablePool (see DESIGN.md).
type Metrics interface {
	telemetry.ComponentMetrics

	// RecordAdd records one Add call's key and value sizes.
	RecordAdd(keyBytes, valueBytes int)

	// RecordGet records one Get call's outcome: hit reports whether an
	// entry (value or tombstone) was located at all.
	RecordGet(hit bool)
}

type memTableMetrics struct {
	tel telemetry.Telemetry
}

// NewMetrics adapts a telemetry.Telemetry into memtable Metrics. A nil tel
// yields a no-op implementation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &memTableMetrics{tel: tel}
}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *memTableMetrics) RecordAdd(keyBytes, valueBytes int) {
	ctx := context.Background()
	m.tel.RecordCounter(ctx, "hearthkv.memtable.operations.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
		attribute.String(telemetry.AttrOperationType, "add"),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.memtable.add.key_bytes", float64(keyBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.memtable.add.value_bytes", float64(valueBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
	)
}

func (m *memTableMetrics) RecordGet(hit bool) {
	status := telemetry.StatusError
	if hit {
		status = telemetry.StatusSuccess
	}
	m.tel.RecordCounter(context.Background(), "hearthkv.memtable.operations.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
		attribute.String(telemetry.AttrOperationType, telemetry.OpTypeGet),
		attribute.String(telemetry.AttrStatus, status),
	)
}

func (m *memTableMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordAdd(keyBytes, valueBytes int) {}
func (noopMetrics) RecordGet(hit bool)                 {}
func (noopMetrics) Close() error                       { return nil }
