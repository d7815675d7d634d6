package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateNotation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir is required. Set %s or edit the config (create with 'songbook config init')", dataDirEnv)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.NGramMin < 1 {
		return errors.New("search.ngram_min must be positive")
	}
	if c.Search.NGramMax < c.Search.NGramMin {
		return errors.New("search.ngram_max must be >= search.ngram_min")
	}
	for key, value := range map[string]string{
		"search.hymn_analyzer":       c.Search.HymnAnalyzer,
		"search.lyric_analyzer":      c.Search.LyricAnalyzer,
		"search.convention_analyzer": c.Search.ConventionAnalyzer,
	} {
		switch value {
		case "char", "word":
		default:
			return fmt.Errorf("%s: unsupported value %q (want char or word)", key, value)
		}
	}
	return nil
}

func (c *Config) validateNotation() error {
	if c.Notation.NeighborRadius > 50 {
		return errors.New("notation.neighbor_radius must be <= 50")
	}
	for key, value := range map[string]string{
		"notation.viewer_a_url": c.Notation.ViewerAURL,
		"notation.viewer_b_url": c.Notation.ViewerBURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL", key)
		}
		if parsed.Fragment != "" {
			return fmt.Errorf("%s must not carry a fragment; the page fragment is appended", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
