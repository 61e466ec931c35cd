package telemetry

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "hearthkv" {
		t.Errorf("want service name 'hearthkv', got %q", cfg.ServiceName)
	}
	if cfg.ServiceVersion != "development" {
		t.Errorf("want service version 'development', got %q", cfg.ServiceVersion)
	}
	if !cfg.Enabled {
		t.Error("want telemetry enabled by default")
	}
	if cfg.ExportInterval != 15*time.Second {
		t.Errorf("want export interval 15s, got %s", cfg.ExportInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid default config", cfg: DefaultConfig(), wantErr: false},
		{
			name: "empty service name",
			cfg: Config{
				ServiceName:    "",
				ServiceVersion: "1.0.0",
				Enabled:        true,
				ExportInterval: 30 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "empty service version",
			cfg: Config{
				ServiceName:    "test",
				ServiceVersion: "",
				Enabled:        true,
				ExportInterval: 30 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "non-positive export interval",
			cfg: Config{
				ServiceName:    "test",
				ServiceVersion: "1.0.0",
				Enabled:        true,
				ExportInterval: 0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigLoadFromEnv(t *testing.T) {
	envVars := []string{
		"HEARTHKV_TELEMETRY_SERVICE_NAME",
		"HEARTHKV_TELEMETRY_SERVICE_VERSION",
		"HEARTHKV_TELEMETRY_ENABLED",
		"HEARTHKV_TELEMETRY_EXPORT_INTERVAL",
	}
	original := make(map[string]string, len(envVars))
	for _, v := range envVars {
		original[v] = os.Getenv(v)
	}
	defer func() {
		for _, v := range envVars {
			os.Setenv(v, original[v])
		}
	}()

	os.Setenv("HEARTHKV_TELEMETRY_SERVICE_NAME", "test-service")
	os.Setenv("HEARTHKV_TELEMETRY_SERVICE_VERSION", "2.0.0")
	os.Setenv("HEARTHKV_TELEMETRY_ENABLED", "false")
	os.Setenv("HEARTHKV_TELEMETRY_EXPORT_INTERVAL", "60s")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.ServiceName != "test-service" {
		t.Errorf("want service name 'test-service', got %q", cfg.ServiceName)
	}
	if cfg.ServiceVersion != "2.0.0" {
		t.Errorf("want service version '2.0.0', got %q", cfg.ServiceVersion)
	}
	if cfg.Enabled {
		t.Error("want telemetry disabled")
	}
	if cfg.ExportInterval != 60*time.Second {
		t.Errorf("want export interval 60s, got %s", cfg.ExportInterval)
	}
}

func TestConfigLoadFromEnvInvalidValuesAreIgnored(t *testing.T) {
	original := os.Getenv("HEARTHKV_TELEMETRY_ENABLED")
	defer os.Setenv("HEARTHKV_TELEMETRY_ENABLED", original)

	os.Setenv("HEARTHKV_TELEMETRY_ENABLED", "not-a-bool")
	cfg := DefaultConfig()
	want := cfg.Enabled
	cfg.LoadFromEnv()
	if cfg.Enabled != want {
		t.Error("invalid boolean env value should leave Enabled unchanged")
	}
}
