package textutil

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// AnalyzerKind selects how text is split into terms.
type AnalyzerKind string

const (
	// AnalyzerChar produces overlapping character n-grams.
	AnalyzerChar AnalyzerKind = "char"
	// AnalyzerWord produces word tokens of at least two characters.
	AnalyzerWord AnalyzerKind = "word"
)

// Analyzer turns folded text into terms.
type Analyzer struct {
	Kind AnalyzerKind
	MinN int
	MaxN int
}

// CharNGrams returns a character analyzer for n in [minN, maxN].
func CharNGrams(minN, maxN int) Analyzer {
	return Analyzer{Kind: AnalyzerChar, MinN: minN, MaxN: maxN}
}

// Words returns a word analyzer.
func Words() Analyzer {
	return Analyzer{Kind: AnalyzerWord}
}

// ParseAnalyzer maps a configuration value to an Analyzer.
func ParseAnalyzer(kind string, minN, maxN int) (Analyzer, error) {
	switch AnalyzerKind(strings.ToLower(strings.TrimSpace(kind))) {
	case AnalyzerChar, "":
		if minN < 1 || maxN < minN {
			return Analyzer{}, fmt.Errorf("invalid n-gram range %d..%d", minN, maxN)
		}
		return CharNGrams(minN, maxN), nil
	case AnalyzerWord:
		return Words(), nil
	default:
		return Analyzer{}, fmt.Errorf("unsupported analyzer %q", kind)
	}
}

// Terms folds text and splits it according to the analyzer.
func (a Analyzer) Terms(text string) []string {
	folded := Fold(text)
	if folded == "" {
		return nil
	}
	if a.Kind == AnalyzerWord {
		return Tokenize(folded)
	}
	return ngrams(folded, a.MinN, a.MaxN)
}

func ngrams(text string, minN, maxN int) []string {
	runes := []rune(text)
	if minN < 1 {
		minN = 1
	}
	terms := make([]string, 0, len(runes)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			terms = append(terms, string(runes[i:i+n]))
		}
	}
	return terms
}

// Tokenize splits folded text into word tokens, dropping tokens shorter than
// two runes. Combining marks stay attached to their word.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
	})
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from the analyzer's terms for text.
// Returns nil if the text produces no terms.
func NewFingerprint(text string, analyzer Analyzer) *Fingerprint {
	return fromTerms(analyzer.Terms(text))
}

func fromTerms(terms []string) *Fingerprint {
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// TokenCount returns the number of unique terms in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// WithIDF returns a new Fingerprint with TF-IDF weights applied. Terms absent
// from the IDF map are dropped, so a query only weighs terms the corpus knows.
// Returns nil when no term survives.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return nil
	}
	weighted := make(map[string]float64, len(f.tokens))
	var norm float64
	for token, count := range f.tokens {
		idfVal, ok := idf[token]
		if !ok {
			continue
		}
		w := count * idfVal
		if w == 0 {
			continue
		}
		weighted[token] = w
		norm += w * w
	}
	if len(weighted) == 0 {
		return nil
	}
	return &Fingerprint{
		tokens: weighted,
		norm:   math.Sqrt(norm),
	}
}

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a fingerprint's unique terms in the corpus. A nil fingerprint
// still counts as a document.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil {
		return
	}
	c.docCount++
	if fp == nil {
		return
	}
	for token := range fp.tokens {
		c.docFreq[token]++
	}
}

// DocCount returns the number of documents added.
func (c *Corpus) DocCount() int {
	if c == nil {
		return 0
	}
	return c.docCount
}

// IDF computes smoothed inverse document frequency weights,
// ln((N+1)/(1+df)) + 1, so terms present in every document keep weight 1.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((n+1)/(1+float64(df))) + 1
	}
	return idf
}
