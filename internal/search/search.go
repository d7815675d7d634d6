// Package search ranks catalog entries against free-text queries.
//
// Each category gets its own Index: a TF-IDF vector space built once from the
// catalog's display text. Queries are projected into the same space and rows
// are ranked by cosine similarity. Placeholder rows take part in the vector
// space but are never returned.
package search

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"songbook/internal/catalog"
	"songbook/internal/logging"
	"songbook/internal/songcode"
	"songbook/internal/textutil"
)

var (
	ErrEmptyQuery       = errors.New("search query is empty")
	ErrUnknownCategory  = errors.New("unknown search category")
	ErrNoLexicalOverlap = errors.New("no catalog entry shares any text with the query")
)

// DefaultTopN is used when neither the caller nor the engine supplies a limit.
const DefaultTopN = 5

// Result is one ranked hit.
type Result struct {
	Number  int     `json:"number"`
	Score   float64 `json:"score"`
	Context string  `json:"context,omitempty"`
}

// Index is the vector space for one catalog.
type Index struct {
	catalog  *catalog.Catalog
	analyzer textutil.Analyzer
	idf      map[string]float64
	vectors  []*textutil.Fingerprint
}

// NewIndex vectorizes every row of c with analyzer.
func NewIndex(c *catalog.Catalog, analyzer textutil.Analyzer) *Index {
	idx := &Index{catalog: c, analyzer: analyzer}
	n := c.Len()
	raw := make([]*textutil.Fingerprint, n)
	corpus := textutil.NewCorpus()
	for i := 0; i < n; i++ {
		raw[i] = textutil.NewFingerprint(displayText(c.At(i)), analyzer)
		corpus.Add(raw[i])
	}
	idx.idf = corpus.IDF()
	idx.vectors = make([]*textutil.Fingerprint, n)
	for i, fp := range raw {
		idx.vectors[i] = fp.WithIDF(idx.idf)
	}
	return idx
}

func displayText(e catalog.Entry) string {
	if strings.TrimSpace(e.Text) != "" {
		return e.Text
	}
	return e.Title
}

// Category returns the indexed catalog's category.
func (idx *Index) Category() songcode.Category {
	return idx.catalog.Category()
}

// Terms returns the size of the index vocabulary.
func (idx *Index) Terms() int {
	return len(idx.idf)
}

type scored struct {
	row   int
	score float64
}

// Search returns up to topN entries ordered by descending similarity. Equal
// scores keep catalog row order.
func (idx *Index) Search(query string, topN int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	q := textutil.NewFingerprint(query, idx.analyzer).WithIDF(idx.idf)
	if q == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoLexicalOverlap, query)
	}

	ranked := make([]scored, len(idx.vectors))
	best := 0.0
	for i, vec := range idx.vectors {
		s := textutil.CosineSimilarity(q, vec)
		ranked[i] = scored{row: i, score: s}
		if s > best && !idx.catalog.At(i).Placeholder() {
			best = s
		}
	}
	if best == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoLexicalOverlap, query)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	results := make([]Result, 0, topN)
	for _, r := range ranked {
		if len(results) == topN {
			break
		}
		entry := idx.catalog.At(r.row)
		if entry.Placeholder() {
			continue
		}
		results = append(results, Result{
			Number:  entry.Number,
			Score:   r.score,
			Context: entry.Context(),
		})
	}
	return results, nil
}

// Engine dispatches queries to the per-category indexes.
type Engine struct {
	indexes     [3]*Index
	defaultTopN int
	logger      *slog.Logger
}

// NewEngine builds an engine from prebuilt indexes. Categories without an
// index answer ErrUnknownCategory.
func NewEngine(defaultTopN int, logger *slog.Logger, indexes ...*Index) *Engine {
	if defaultTopN <= 0 {
		defaultTopN = DefaultTopN
	}
	e := &Engine{
		defaultTopN: defaultTopN,
		logger:      logging.NewComponentLogger(logger, "search"),
	}
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		e.indexes[idx.Category().Index()] = idx
		e.logger.Debug("search index ready",
			logging.String("category", idx.Category().String()),
			logging.Int("rows", len(idx.vectors)),
			logging.Int("terms", idx.Terms()),
		)
	}
	return e
}

// Index returns the index for category, or nil.
func (e *Engine) Index(category songcode.Category) *Index {
	if !category.Valid() {
		return nil
	}
	return e.indexes[category.Index()]
}

// Search resolves categoryName and delegates to that category's index.
// topN <= 0 uses the engine default.
func (e *Engine) Search(query, categoryName string, topN int) ([]Result, error) {
	category, err := songcode.ParseCategory(categoryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryName)
	}
	idx := e.Index(category)
	if idx == nil {
		return nil, fmt.Errorf("%w: %q has no index", ErrUnknownCategory, categoryName)
	}
	if topN <= 0 {
		topN = e.defaultTopN
	}
	results, err := idx.Search(query, topN)
	if err != nil {
		e.logger.Debug("search rejected",
			logging.String("category", category.String()),
			logging.Error(err),
		)
		return nil, err
	}
	e.logger.Debug("search answered",
		logging.String("category", category.String()),
		logging.Int("hits", len(results)),
		logging.Float64("top_score", results[0].Score),
	)
	return results, nil
}
