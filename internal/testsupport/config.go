package testsupport

import (
	"path/filepath"
	"testing"

	"starcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCaptureFPS overrides the default capture frame rate.
func WithCaptureFPS(fps int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Capture.FPS = fps
	}
}
