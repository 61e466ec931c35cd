package wal

import (
	"context"

	"github.com/hearthdb/hearthkv/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Metrics defines the telemetry operations a Writer reports. Implementations
// must be safe to call with a nil receiver's worth of no-ops; NewNoopMetrics
// satisfies that.
type Metrics interface {
	telemetry.ComponentMetrics

	// RecordFragment records one physical fragment written to a block:
	// its type (full/first/middle/last) and payload size.
	RecordFragment(recordType string, payloadBytes int)

	// RecordBlockPadding records a block-trailer padding write, in bytes.
	RecordBlockPadding(paddingBytes int)
}

// walMetrics implements Metrics over a telemetry.Telemetry sink.
type walMetrics struct {
	tel telemetry.Telemetry
}

// NewMetrics adapts a telemetry.Telemetry into wal Metrics. A nil tel yields
// a no-op implementation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &walMetrics{tel: tel}
}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *walMetrics) RecordFragment(recordType string, payloadBytes int) {
	ctx := context.Background()
	m.tel.RecordCounter(ctx, "hearthkv.wal.fragments.total", 1,
		attribute.String(telemetry.AttrComponent, "wal"),
		attribute.String("record_type", recordType),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.wal.fragment.bytes", float64(payloadBytes),
		attribute.String(telemetry.AttrComponent, "wal"),
		attribute.String("record_type", recordType),
	)
}

func (m *walMetrics) RecordBlockPadding(paddingBytes int) {
	m.tel.RecordCounter(context.Background(), "hearthkv.wal.block_padding.bytes", int64(paddingBytes),
		attribute.String(telemetry.AttrComponent, "wal"),
	)
}

func (m *walMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFragment(recordType string, payloadBytes int) {}
func (noopMetrics) RecordBlockPadding(paddingBytes int)                {}
func (noopMetrics) Close() error                                       { return nil }
