package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"songbook/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose data and log directories live under a
// unique temp directory. Logging is quiet and the attendance sheet has three
// song slots.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Attendance.SongColumns = []string{"Song 1", "Song 2", "Song 3"}
	cfgVal.Logging.Level = "error"
	if err := os.MkdirAll(cfgVal.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSheets writes the named CSV sheets into the data directory.
func WithSheets(sheets map[string]string) ConfigOption {
	return func(b *configBuilder) {
		for name, content := range sheets {
			WriteFile(b.t, filepath.Join(b.cfg.Paths.DataDir, name), content)
		}
	}
}

// WithSampleSheets writes SampleSheets into the data directory.
func WithSampleSheets() ConfigOption {
	return WithSheets(SampleSheets)
}

// WithNeighborRadius overrides notation.neighbor_radius.
func WithNeighborRadius(radius int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notation.NeighborRadius = radius
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
