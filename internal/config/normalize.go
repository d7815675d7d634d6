package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalogs()
	c.normalizeAttendance()
	c.normalizeSearch()
	c.normalizeNotation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(dataDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalogs() {
	c.Catalogs.HymnsFile = trimOr(c.Catalogs.HymnsFile, defaultHymnsFile)
	c.Catalogs.LyricsFile = trimOr(c.Catalogs.LyricsFile, defaultLyricsFile)
	c.Catalogs.ConventionsFile = trimOr(c.Catalogs.ConventionsFile, defaultConventionsFile)
	c.Catalogs.HymnTextColumn = trimOr(c.Catalogs.HymnTextColumn, defaultTextColumn)
	c.Catalogs.LyricTextColumn = trimOr(c.Catalogs.LyricTextColumn, defaultTextColumn)
	c.Catalogs.ConventionTextColumn = trimOr(c.Catalogs.ConventionTextColumn, defaultTextColumn)
}

func (c *Config) normalizeAttendance() {
	c.Attendance.File = trimOr(c.Attendance.File, defaultAttendanceFile)
	c.Attendance.DateColumn = trimOr(c.Attendance.DateColumn, defaultDateColumn)

	columns := make([]string, 0, len(c.Attendance.SongColumns))
	seen := make(map[string]struct{}, len(c.Attendance.SongColumns))
	for _, column := range c.Attendance.SongColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		columns = append(columns, trimmed)
	}
	if len(columns) == 0 {
		columns = append(columns, defaultSongColumns...)
	}
	c.Attendance.SongColumns = columns

	layouts := make([]string, 0, len(c.Attendance.DateLayouts))
	for _, layout := range c.Attendance.DateLayouts {
		if trimmed := strings.TrimSpace(layout); trimmed != "" {
			layouts = append(layouts, trimmed)
		}
	}
	c.Attendance.DateLayouts = layouts
}

func (c *Config) normalizeSearch() {
	if c.Search.DefaultTopN <= 0 {
		c.Search.DefaultTopN = defaultTopN
	}
	c.Search.HymnAnalyzer = strings.ToLower(trimOr(c.Search.HymnAnalyzer, defaultHymnAnalyzer))
	c.Search.LyricAnalyzer = strings.ToLower(trimOr(c.Search.LyricAnalyzer, defaultAnalyzer))
	c.Search.ConventionAnalyzer = strings.ToLower(trimOr(c.Search.ConventionAnalyzer, defaultAnalyzer))
	if c.Search.NGramMin <= 0 {
		c.Search.NGramMin = defaultNGramMin
	}
	if c.Search.NGramMax <= 0 {
		c.Search.NGramMax = defaultNGramMax
	}
}

func (c *Config) normalizeNotation() {
	c.Notation.TunesSeedFile = trimOr(c.Notation.TunesSeedFile, defaultTunesSeedFile)
	c.Notation.DatabaseFile = trimOr(c.Notation.DatabaseFile, defaultTunesDatabase)
	if c.Notation.NeighborRadius < 0 {
		c.Notation.NeighborRadius = 0
	}
	if c.Notation.SuggestLimit <= 0 {
		c.Notation.SuggestLimit = defaultSuggestLimit
	}
	c.Notation.ViewerAURL = trimOr(c.Notation.ViewerAURL, defaultViewerAURL)
	c.Notation.ViewerBURL = trimOr(c.Notation.ViewerBURL, defaultViewerBURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
