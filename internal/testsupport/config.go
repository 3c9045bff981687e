// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"champtimer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Timer.Device = filepath.Join(base, "ttyFAKE")
	cfg.Paths.ResultsDir = filepath.Join(base, "results")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithLaneCount overrides the configured lane count.
func WithLaneCount(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Timer.LaneCount = count
	}
}

// WithDevice overrides the configured serial device.
func WithDevice(device string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Timer.Device = device
	}
}
