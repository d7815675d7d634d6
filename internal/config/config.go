package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"songbook/internal/songcode"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Catalogs names the catalog files and the column holding each entry's
// searchable display text.
type Catalogs struct {
	HymnsFile            string `toml:"hymns_file"`
	LyricsFile           string `toml:"lyrics_file"`
	ConventionsFile      string `toml:"conventions_file"`
	HymnTextColumn       string `toml:"hymn_text_column"`
	LyricTextColumn      string `toml:"lyric_text_column"`
	ConventionTextColumn string `toml:"convention_text_column"`
}

// Attendance describes the service history sheet.
type Attendance struct {
	File        string   `toml:"file"`
	DateColumn  string   `toml:"date_column"`
	SongColumns []string `toml:"song_columns"`
	// DateLayouts are tried in order before falling back to free-form parsing.
	DateLayouts []string `toml:"date_layouts"`
}

// Search contains text search settings.
type Search struct {
	DefaultTopN        int    `toml:"default_top_n"`
	HymnAnalyzer       string `toml:"hymn_analyzer"`
	LyricAnalyzer      string `toml:"lyric_analyzer"`
	ConventionAnalyzer string `toml:"convention_analyzer"`
	NGramMin           int    `toml:"ngram_min"`
	NGramMax           int    `toml:"ngram_max"`
}

// Notation contains sheet-music resolution settings.
type Notation struct {
	TunesSeedFile  string `toml:"tunes_seed_file"`
	DatabaseFile   string `toml:"database_file"`
	NeighborRadius int    `toml:"neighbor_radius"`
	SuggestLimit   int    `toml:"suggest_limit"`
	ViewerAURL     string `toml:"viewer_a_url"`
	ViewerBURL     string `toml:"viewer_b_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for songbook.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Catalogs: hymn, lyric and convention tables
//   - Attendance: service history sheet layout
//   - Search: analyzers and result limits
//   - Notation: tune table storage, neighbor search and viewer links
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Catalogs   Catalogs   `toml:"catalogs"`
	Attendance Attendance `toml:"attendance"`
	Search     Search     `toml:"search"`
	Notation   Notation   `toml:"notation"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DataPath resolves name against the data directory unless it is absolute.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DataDir, name)
}

// CatalogFile returns the catalog path for category.
func (c *Config) CatalogFile(category songcode.Category) string {
	switch category {
	case songcode.Hymn:
		return c.DataPath(c.Catalogs.HymnsFile)
	case songcode.Lyric:
		return c.DataPath(c.Catalogs.LyricsFile)
	case songcode.Convention:
		return c.DataPath(c.Catalogs.ConventionsFile)
	default:
		return ""
	}
}

// TextColumn returns the display-text column for category.
func (c *Config) TextColumn(category songcode.Category) string {
	switch category {
	case songcode.Hymn:
		return c.Catalogs.HymnTextColumn
	case songcode.Lyric:
		return c.Catalogs.LyricTextColumn
	case songcode.Convention:
		return c.Catalogs.ConventionTextColumn
	default:
		return ""
	}
}

// AnalyzerName returns the configured analyzer kind for category.
func (c *Config) AnalyzerName(category songcode.Category) string {
	switch category {
	case songcode.Hymn:
		return c.Search.HymnAnalyzer
	case songcode.Lyric:
		return c.Search.LyricAnalyzer
	case songcode.Convention:
		return c.Search.ConventionAnalyzer
	default:
		return ""
	}
}

// AttendanceFile returns the attendance sheet path.
func (c *Config) AttendanceFile() string {
	return c.DataPath(c.Attendance.File)
}

// TunesSeedFile returns the tune cross-reference seed path.
func (c *Config) TunesSeedFile() string {
	return c.DataPath(c.Notation.TunesSeedFile)
}

// TunesDatabasePath returns the SQLite tune table path.
func (c *Config) TunesDatabasePath() string {
	return c.DataPath(c.Notation.DatabaseFile)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
