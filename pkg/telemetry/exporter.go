package telemetry

import (
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// createMetricExporter creates the stdout metrics exporter. This tree wires
// no other exporter: Prometheus scraping and OTLP/Jaeger trace export both
// need a long-lived network endpoint, which a storage-engine library has no
// business owning.
func createMetricExporter() (metric.Exporter, error) {
	return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
}
