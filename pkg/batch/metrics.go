package batch

import (
	"context"

	"github.com/hearthdb/hearthkv/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Metrics defines the telemetry operations a Batch reports.
type Metrics interface {
	telemetry.ComponentMetrics

	// RecordPut records one Put call's key and value sizes.
	RecordPut(keyBytes, valueBytes int)

	// RecordDelete records one Delete call's key size.
	RecordDelete(keyBytes int)
}

// batchMetrics implements Metrics over a telemetry.Telemetry sink.
type batchMetrics struct {
	tel telemetry.Telemetry
}

// NewMetrics adapts a telemetry.Telemetry into batch Metrics. A nil tel
// yields a no-op implementation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &batchMetrics{tel: tel}
}

// NewNoopMetrics returns a Metrics implementation that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *batchMetrics) RecordPut(keyBytes, valueBytes int) {
	ctx := context.Background()
	m.tel.RecordCounter(ctx, "hearthkv.batch.operations.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentBatch),
		attribute.String(telemetry.AttrOperationType, telemetry.OpTypePut),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.batch.put.key_bytes", float64(keyBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentBatch),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.batch.put.value_bytes", float64(valueBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentBatch),
	)
}

func (m *batchMetrics) RecordDelete(keyBytes int) {
	ctx := context.Background()
	m.tel.RecordCounter(ctx, "hearthkv.batch.operations.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentBatch),
		attribute.String(telemetry.AttrOperationType, telemetry.OpTypeDelete),
	)
	m.tel.RecordHistogram(ctx, "hearthkv.batch.delete.key_bytes", float64(keyBytes),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentBatch),
	)
}

func (m *batchMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordPut(keyBytes, valueBytes int) {}
func (noopMetrics) RecordDelete(keyBytes int)           {}
func (noopMetrics) Close() error                        { return nil }
