package arena

import (
	"context"

	"github.com/hearthdb/hearthkv/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Metrics defines the telemetry operations an Arena reports.
type Metrics interface {
	telemetry.ComponentMetrics

	// RecordAllocate records one Allocate/AllocateAligned call: the number
	// of bytes requested and whether it required a new block.
	RecordAllocate(requestedBytes int, newBlock bool)
}

// arenaMetrics implements Metrics over a telemetry.Telemetry sink.
type arenaMetrics struct {
	tel telemetry.Telemetry
}

// NewMetrics adapts a telemetry.Telemetry into arena Metrics. A nil tel
// yields a no-op implementation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &arenaMetrics{tel: tel}
}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *arenaMetrics) RecordAllocate(requestedBytes int, newBlock bool) {
	ctx := context.Background()
	m.tel.RecordCounter(ctx, "hearthkv.arena.allocations.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentArena),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.arena.allocate.bytes", float64(requestedBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentArena),
	)
	if newBlock {
		m.tel.RecordCounter(ctx, "hearthkv.arena.blocks.total", 1,
			attribute.String(telemetry.AttrComponent, telemetry.ComponentArena),
		)
	}
}

func (m *arenaMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordAllocate(requestedBytes int, newBlock bool) {}
func (noopMetrics) Close() error                                     { return nil }
