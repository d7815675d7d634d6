package library

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"songbook/internal/attendance"
	"songbook/internal/catalog"
	"songbook/internal/config"
	"songbook/internal/dataset"
	"songbook/internal/logging"
	"songbook/internal/notation"
	"songbook/internal/search"
	"songbook/internal/songcode"
	"songbook/internal/textutil"
	"songbook/internal/vocabulary"
)

// Snapshot is one immutable generation of the songbook data.
type Snapshot struct {
	id       string
	loadedAt time.Time
	catalogs [3]*catalog.Catalog
	vocab    vocabulary.Vocabulary
	history  *attendance.History
	engine   *search.Engine
	resolver *notation.Resolver
	stats    dataset.Stats
}

// NewSnapshot indexes data. tunes seeds the notation table.
func NewSnapshot(cfg *config.Config, data *dataset.Data, tunes []notation.TuneRef, logger *slog.Logger) (*Snapshot, error) {
	snap := &Snapshot{
		id:       uuid.NewString(),
		loadedAt: time.Now().UTC(),
		stats:    data.Stats,
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldSnapshotID, snap.id))

	indexes := make([]*search.Index, 0, len(songcode.Categories))
	for _, category := range songcode.Categories {
		c, err := catalog.New(category, data.Catalog(category))
		if err != nil {
			return nil, fmt.Errorf("build %s catalog: %w", category, err)
		}
		if c.Duplicates() > 0 {
			logging.WarnWithContext(logger, "duplicate song numbers in catalog", "catalog_duplicate_numbers",
				logging.String(logging.FieldCategory, category.String()),
				logging.Int("rows", c.Duplicates()),
				logging.String(logging.FieldImpact, "later rows with the same number are only reachable through search"),
			)
		}
		snap.catalogs[category.Index()] = c

		analyzer, err := textutil.ParseAnalyzer(cfg.AnalyzerName(category), cfg.Search.NGramMin, cfg.Search.NGramMax)
		if err != nil {
			return nil, fmt.Errorf("%s analyzer: %w", category, err)
		}
		indexes = append(indexes, search.NewIndex(c, analyzer))
	}

	snap.engine = search.NewEngine(cfg.Search.DefaultTopN, logger, indexes...)
	snap.history = attendance.NewHistory(data.Attendance)
	snap.vocab = vocabulary.Build(snap.history.Records())
	snap.resolver = notation.NewResolver(notation.NewTuneTable(tunes), snap.Catalog(songcode.Hymn), notation.Options{
		NeighborRadius: cfg.Notation.NeighborRadius,
		Links:          notation.LinkMapper{ViewerA: cfg.Notation.ViewerAURL, ViewerB: cfg.Notation.ViewerBURL},
		Logger:         logger,
	})

	logger.Info("snapshot ready",
		logging.Int("hymns", snap.Catalog(songcode.Hymn).Len()),
		logging.Int("lyrics", snap.Catalog(songcode.Lyric).Len()),
		logging.Int("conventions", snap.Catalog(songcode.Convention).Len()),
		logging.Int("services", snap.history.Len()),
		logging.Int("tunes", snap.resolver.Tunes().Len()),
	)
	return snap, nil
}

// ID identifies the snapshot in logs and output.
func (s *Snapshot) ID() string { return s.id }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Stats returns the loader's repair counters.
func (s *Snapshot) Stats() dataset.Stats { return s.stats }

// Catalog returns the catalog for category.
func (s *Snapshot) Catalog(category songcode.Category) *catalog.Catalog {
	if !category.Valid() {
		return nil
	}
	return s.catalogs[category.Index()]
}

// History returns the attendance history.
func (s *Snapshot) History() *attendance.History { return s.history }

// Vocabulary returns the per-category sets of songs that have been sung.
func (s *Snapshot) Vocabulary() vocabulary.Vocabulary { return s.vocab }

// Normalize canonicalizes a raw song code.
func (s *Snapshot) Normalize(raw string) string {
	return songcode.Normalize(raw)
}

// Lookup returns the catalog entry for code.
func (s *Snapshot) Lookup(code songcode.Code) (catalog.Entry, error) {
	c := s.Catalog(code.Category)
	if c == nil {
		return catalog.Entry{}, songcode.ErrUnknownCategory
	}
	return c.LookupCode(code)
}

// IsKnown reports whether code is in the vocabulary.
func (s *Snapshot) IsKnown(code songcode.Code) bool {
	return s.vocab.IsKnown(code)
}

// LastSung reports when code was sung, newest first.
func (s *Snapshot) LastSung(code songcode.Code, all bool) attendance.SungInfo {
	return s.history.LastSung(code, all)
}

// Search ranks entries in the named category against query.
func (s *Snapshot) Search(query, category string, topN int) ([]search.Result, error) {
	return s.engine.Search(query, category, topN)
}

// ResolvePage finds the notation page for tune on hymn.
func (s *Snapshot) ResolvePage(tune string, hymn int) (notation.Resolution, error) {
	return s.resolver.Resolve(tune, hymn)
}

// PageToLink maps a page to its viewer URL.
func (s *Snapshot) PageToLink(page int) (string, error) {
	return s.resolver.PageToLink(page)
}

// SuggestTunes lists known tune names close to tune around hymn.
func (s *Snapshot) SuggestTunes(tune string, hymn, limit int) []notation.Suggestion {
	return s.resolver.SuggestTunes(tune, hymn, limit)
}

// Tunes returns the tune cross-reference table.
func (s *Snapshot) Tunes() *notation.TuneTable {
	return s.resolver.Tunes()
}

// FindTunes fuzzy-matches tune names across the whole table.
func (s *Snapshot) FindTunes(pattern string, limit int) []notation.TuneMatch {
	return s.resolver.Tunes().Find(pattern, limit)
}

// Report is the combined answer for one song code.
type Report struct {
	Code     string             `json:"code"`
	Entry    catalog.Entry      `json:"entry"`
	Known    bool               `json:"known"`
	LastSung *time.Time         `json:"last_sung,omitempty"`
	Dates    []time.Time        `json:"dates,omitempty"`
	Tunes    []notation.TuneRef `json:"tunes,omitempty"`
}

// Check parses raw and gathers the catalog entry, membership and recency for
// it. Invalid codes and numbers outside the catalog are errors.
func (s *Snapshot) Check(raw string, all bool) (Report, error) {
	code, err := songcode.Parse(raw)
	if err != nil {
		return Report{}, err
	}
	entry, err := s.Lookup(code)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Code:  code.String(),
		Entry: entry,
		Known: s.IsKnown(code),
	}
	info := s.LastSung(code, all)
	if last, ok := info.Last(); ok {
		report.LastSung = &last
	}
	if all {
		report.Dates = info.Dates
	}
	if code.Category == songcode.Hymn {
		report.Tunes = s.resolver.Tunes().ForHymn(code.Number)
	}
	return report, nil
}
