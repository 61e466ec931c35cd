package telemetry

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the telemetry provider. There is exactly
// one exporter path wired in this tree (a stdout metrics exporter): the
// engine is a library with no server loop to host a Prometheus scrape
// endpoint or an OTLP/Jaeger trace collector connection from.
type Config struct {
	// ServiceName identifies the service in exported telemetry data.
	ServiceName string `json:"service_name"`

	// ServiceVersion identifies the service version in exported telemetry data.
	ServiceVersion string `json:"service_version"`

	// Enabled controls whether telemetry is active. When false, New returns
	// a NoopTelemetry.
	Enabled bool `json:"enabled"`

	// ExportInterval controls how often the periodic metric reader flushes
	// to the stdout exporter.
	ExportInterval time.Duration `json:"export_interval"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "hearthkv",
		ServiceVersion: "development",
		Enabled:        true,
		ExportInterval: 15 * time.Second,
	}
}

// LoadFromEnv overrides defaults from environment variables.
func (c *Config) LoadFromEnv() {
	if val := os.Getenv("HEARTHKV_TELEMETRY_SERVICE_NAME"); val != "" {
		c.ServiceName = val
	}
	if val := os.Getenv("HEARTHKV_TELEMETRY_SERVICE_VERSION"); val != "" {
		c.ServiceVersion = val
	}
	if val := os.Getenv("HEARTHKV_TELEMETRY_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Enabled = enabled
		}
	}
	if val := os.Getenv("HEARTHKV_TELEMETRY_EXPORT_INTERVAL"); val != "" {
		if interval, err := time.ParseDuration(val); err == nil {
			c.ExportInterval = interval
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name cannot be empty")
	}
	if c.ServiceVersion == "" {
		return fmt.Errorf("service_version cannot be empty")
	}
	if c.ExportInterval <= 0 {
		return fmt.Errorf("export_interval must be positive, got %s", c.ExportInterval)
	}
	return nil
}
