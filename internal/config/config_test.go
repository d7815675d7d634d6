package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"songbook/internal/config"
	"songbook/internal/songcode"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SONGBOOK_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "songbook")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.CatalogFile(songcode.Hymn) != filepath.Join(wantData, "hymns.csv") {
		t.Fatalf("unexpected hymn catalog path: %q", cfg.CatalogFile(songcode.Hymn))
	}
	if cfg.TunesDatabasePath() != filepath.Join(wantData, "tunes.db") {
		t.Fatalf("unexpected tunes db path: %q", cfg.TunesDatabasePath())
	}
	if cfg.Search.DefaultTopN != 5 {
		t.Fatalf("expected default top n 5, got %d", cfg.Search.DefaultTopN)
	}
	if cfg.AnalyzerName(songcode.Hymn) != "word" || cfg.AnalyzerName(songcode.Lyric) != "char" {
		t.Fatalf("unexpected analyzers: %+v", cfg.Search)
	}
	if cfg.Notation.NeighborRadius != 2 {
		t.Fatalf("expected neighbor radius 2, got %d", cfg.Notation.NeighborRadius)
	}
	if len(cfg.Attendance.SongColumns) != 6 {
		t.Fatalf("expected six song columns, got %v", cfg.Attendance.SongColumns)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("SONGBOOK_DATA_DIR", "")
	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configPath := filepath.Join(tempDir, "config.toml")

	custom := config.Default()
	custom.Paths.DataDir = dataDir
	custom.Paths.LogDir = ""
	custom.Attendance.SongColumns = []string{" Opening ", "Closing", "opening", ""}
	custom.Search.LyricAnalyzer = " WORD "
	custom.Search.DefaultTopN = 0
	custom.Notation.NeighborRadius = 4
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if got := strings.Join(cfg.Attendance.SongColumns, ","); got != "Opening,Closing" {
		t.Fatalf("song columns not normalized: %q", got)
	}
	if cfg.Search.LyricAnalyzer != "word" {
		t.Fatalf("analyzer not normalized: %q", cfg.Search.LyricAnalyzer)
	}
	if cfg.Search.DefaultTopN != 5 {
		t.Fatalf("expected top n fallback, got %d", cfg.Search.DefaultTopN)
	}
	if cfg.Notation.NeighborRadius != 4 {
		t.Fatalf("expected neighbor radius 4, got %d", cfg.Notation.NeighborRadius)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json logging, got %q", cfg.Logging.Format)
	}
}

func TestEnvVarOverridesConfigFileDataDir(t *testing.T) {
	tempDir := t.TempDir()
	envDir := filepath.Join(tempDir, "from-env")
	t.Setenv("SONGBOOK_DATA_DIR", envDir)

	configPath := filepath.Join(tempDir, "config.toml")
	custom := config.Default()
	custom.Paths.DataDir = filepath.Join(tempDir, "from-file")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != envDir {
		t.Fatalf("expected env data dir %q, got %q", envDir, cfg.Paths.DataDir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[search]\nmystery = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("SONGBOOK_DATA_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[notation]") {
		t.Fatal("sample config missing notation section")
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if cfg.Notation.NeighborRadius != 2 {
		t.Fatalf("unexpected sample neighbor radius: %d", cfg.Notation.NeighborRadius)
	}

	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config failed to load: exists=%v err=%v", exists, err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "inverted ngram range",
			mutate: func(c *config.Config) { c.Search.NGramMin, c.Search.NGramMax = 5, 3 },
			want:   "search.ngram_max",
		},
		{
			name:   "unknown analyzer",
			mutate: func(c *config.Config) { c.Search.ConventionAnalyzer = "soundex" },
			want:   "search.convention_analyzer",
		},
		{
			name:   "relative viewer url",
			mutate: func(c *config.Config) { c.Notation.ViewerAURL = "notation.pdf" },
			want:   "notation.viewer_a_url",
		},
		{
			name:   "viewer url with fragment",
			mutate: func(c *config.Config) { c.Notation.ViewerBURL = "https://example.org/b.pdf#page=2" },
			want:   "notation.viewer_b_url",
		},
		{
			name:   "huge neighbor radius",
			mutate: func(c *config.Config) { c.Notation.NeighborRadius = 500 },
			want:   "notation.neighbor_radius",
		},
		{
			name:   "bad log level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DataDir = t.TempDir()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDataPathKeepsAbsolutePaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/srv/songbook"
	abs := filepath.Join(string(filepath.Separator), "elsewhere", "hymns.csv")
	if got := cfg.DataPath(abs); got != abs {
		t.Fatalf("DataPath(%q) = %q", abs, got)
	}
	if got := cfg.DataPath("lyrics.csv"); got != filepath.Join("/srv/songbook", "lyrics.csv") {
		t.Fatalf("DataPath(relative) = %q", got)
	}
}
