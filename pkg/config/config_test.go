package config

import (
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	dbPath := "/tmp/testdb"
	cfg := NewDefaultConfig(dbPath)

	if cfg.WALDir != filepath.Join(dbPath, "wal") {
		t.Errorf("expected WAL dir %s, got %s", filepath.Join(dbPath, "wal"), cfg.WALDir)
	}
	if cfg.WALSyncMode != SyncBatch {
		t.Errorf("expected WAL sync mode %d, got %d", SyncBatch, cfg.WALSyncMode)
	}
	if cfg.MemTableSize != 32*1024*1024 {
		t.Errorf("expected memtable size %d, got %d", 32*1024*1024, cfg.MemTableSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{
			name:     "empty WAL dir",
			mutate:   func(c *Config) { c.WALDir = "" },
			expected: "invalid configuration: WAL directory not specified",
		},
		{
			name:     "zero memtable size",
			mutate:   func(c *Config) { c.MemTableSize = 0 },
			expected: "invalid configuration: MemTable size must be positive",
		},
		{
			name: "zero sync bytes under SyncBatch",
			mutate: func(c *Config) {
				c.WALSyncMode = SyncBatch
				c.WALSyncBytes = 0
			},
			expected: "invalid configuration: WAL sync bytes must be positive under SyncBatch",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig("/tmp/testdb")
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tc.expected {
				t.Errorf("expected error %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestConfigValidateAllowsZeroSyncBytesUnderSyncNone(t *testing.T) {
	cfg := NewDefaultConfig("/tmp/testdb")
	cfg.WALSyncMode = SyncNone
	cfg.WALSyncBytes = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected SyncNone with zero sync bytes to be valid, got %v", err)
	}
}

func TestConfigUpdate(t *testing.T) {
	cfg := NewDefaultConfig("/tmp/testdb")

	cfg.Update(func(c *Config) {
		c.MemTableSize = 64 * 1024 * 1024
	})

	if cfg.MemTableSize != 64*1024*1024 {
		t.Errorf("expected memtable size %d, got %d", 64*1024*1024, cfg.MemTableSize)
	}
}
