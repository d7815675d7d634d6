package notation

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"songbook/internal/catalog"
	"songbook/internal/logging"
)

// ErrNotationUnresolved reports that every strategy and neighbor came up empty.
var ErrNotationUnresolved = errors.New("no notation page found")

// Source tags which strategy produced a page.
type Source int

const (
	SourceDirect Source = iota + 1
	SourceConfirmed
	SourceProbable
)

var sourceNames = map[Source]string{
	SourceDirect:    "direct",
	SourceConfirmed: "confirmed",
	SourceProbable:  "probable",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the tag by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSource maps a source name back to its tag.
func ParseSource(name string) (Source, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for source, sourceName := range sourceNames {
		if sourceName == normalized {
			return source, nil
		}
	}
	return 0, fmt.Errorf("unknown notation source %q", name)
}

// Resolution is a page found for a (tune, hymn) query.
type Resolution struct {
	Page   int    `json:"page"`
	Source Source `json:"source"`
	// HymnNumber is the hymn whose data produced the page; it differs from the
	// requested hymn when a neighbor matched.
	HymnNumber int `json:"hymn_number"`
	Offset     int `json:"offset"`
}

// Heuristic reports whether the page is a guess: it came from the probable
// pages list or from a neighboring hymn.
func (r Resolution) Heuristic() bool {
	return r.Source == SourceProbable || r.Offset != 0
}

// Strategy finds a page for a folded tune key on one hymn.
type Strategy struct {
	Source Source
	Find   func(r *Resolver, tuneKey string, hymn int) (int, bool)
}

// DefaultStrategies are tried in order on each hymn: the direct page, a
// previously confirmed guess, then the hymn's probable pages.
var DefaultStrategies = []Strategy{
	{Source: SourceDirect, Find: findDirect},
	{Source: SourceConfirmed, Find: findConfirmed},
	{Source: SourceProbable, Find: findProbable},
}

func findDirect(r *Resolver, tuneKey string, hymn int) (int, bool) {
	row, ok := r.tunes.Lookup(hymn, tuneKey)
	if !ok {
		return 0, false
	}
	return row.Page()
}

func findConfirmed(r *Resolver, tuneKey string, hymn int) (int, bool) {
	row, ok := r.tunes.Lookup(hymn, tuneKey)
	if !ok || row.ProbableResult <= 0 {
		return 0, false
	}
	return row.ProbableResult, true
}

func findProbable(r *Resolver, _ string, hymn int) (int, bool) {
	entry, err := r.hymns.Lookup(hymn)
	if err != nil {
		return 0, false
	}
	for _, page := range entry.ProbablePages {
		if page > 0 {
			return page, true
		}
	}
	return 0, false
}

// FirstSuccess runs attempts in order and returns the first successful result.
func FirstSuccess[T any](attempts ...func() (T, bool)) (T, bool) {
	for _, attempt := range attempts {
		if value, ok := attempt(); ok {
			return value, true
		}
	}
	var zero T
	return zero, false
}

// NeighborOffsets returns 0, +1, -1, +2, -2, ... up to radius.
func NeighborOffsets(radius int) []int {
	offsets := make([]int, 0, 2*radius+1)
	offsets = append(offsets, 0)
	for d := 1; d <= radius; d++ {
		offsets = append(offsets, d, -d)
	}
	return offsets
}

// Options configures a Resolver.
type Options struct {
	NeighborRadius int
	Strategies     []Strategy
	Links          LinkMapper
	Logger         *slog.Logger
}

// Resolver answers notation queries against one tune table and hymn catalog.
type Resolver struct {
	tunes      *TuneTable
	hymns      *catalog.Catalog
	strategies []Strategy
	radius     int
	links      LinkMapper
	logger     *slog.Logger
}

// NewResolver builds a resolver. A nil strategy list uses DefaultStrategies.
func NewResolver(tunes *TuneTable, hymns *catalog.Catalog, opts Options) *Resolver {
	if tunes == nil {
		tunes = NewTuneTable(nil)
	}
	strategies := opts.Strategies
	if strategies == nil {
		strategies = DefaultStrategies
	}
	radius := opts.NeighborRadius
	if radius < 0 {
		radius = 0
	}
	return &Resolver{
		tunes:      tunes,
		hymns:      hymns,
		strategies: strategies,
		radius:     radius,
		links:      opts.Links,
		logger:     logging.NewComponentLogger(opts.Logger, "notation"),
	}
}

// Tunes exposes the underlying table.
func (r *Resolver) Tunes() *TuneTable {
	return r.tunes
}

// Resolve finds the notation page for tune on hymn, widening to neighboring
// hymns in the order +1, -1, +2, -2, ... when the hymn itself has nothing.
func (r *Resolver) Resolve(tune string, hymn int) (Resolution, error) {
	if hymn <= 0 {
		return Resolution{}, ErrInvalidHymn
	}
	key := TuneKey(tune)
	if key == "" {
		return Resolution{}, ErrInvalidTune
	}

	var attempts []func() (Resolution, bool)
	for _, offset := range NeighborOffsets(r.radius) {
		candidate := hymn + offset
		if candidate <= 0 {
			continue
		}
		for _, strategy := range r.strategies {
			attempts = append(attempts, r.attempt(strategy, key, candidate, offset))
		}
	}

	res, ok := FirstSuccess(attempts...)
	if !ok {
		r.logger.Debug("notation unresolved",
			logging.String("tune", key),
			logging.Int("hymn", hymn),
			logging.Int("radius", r.radius),
		)
		return Resolution{}, fmt.Errorf("%w: tune %q on hymn %d", ErrNotationUnresolved, tune, hymn)
	}
	r.logger.Debug("notation resolved",
		logging.String("tune", key),
		logging.Int("hymn", hymn),
		logging.Int("page", res.Page),
		logging.String("source", res.Source.String()),
		logging.Int("offset", res.Offset),
	)
	return res, nil
}

func (r *Resolver) attempt(strategy Strategy, key string, hymn, offset int) func() (Resolution, bool) {
	return func() (Resolution, bool) {
		page, ok := strategy.Find(r, key, hymn)
		if !ok || page <= 0 {
			return Resolution{}, false
		}
		return Resolution{Page: page, Source: strategy.Source, HymnNumber: hymn, Offset: offset}, true
	}
}

// Confirm writes a page a person has verified for (tune, hymn). Guesses from
// heuristics land in the probable-result field; anything else becomes the
// direct page.
func (r *Resolver) Confirm(tune string, hymn, page int, res Resolution) (TuneRef, bool, error) {
	if page > LastPage {
		return TuneRef{}, false, pageError(page)
	}
	row, changed, err := r.tunes.Confirm(hymn, tune, page, res.Heuristic())
	if err != nil {
		return TuneRef{}, false, err
	}
	if changed {
		r.logger.Info("notation page confirmed",
			logging.String("tune", row.TuneName),
			logging.Int("hymn", hymn),
			logging.Int("page", page),
			logging.Bool("heuristic", res.Heuristic()),
		)
	}
	return row, changed, nil
}

// PageToLink maps page using the resolver's viewer URLs.
func (r *Resolver) PageToLink(page int) (string, error) {
	return r.links.PageToLink(page)
}
