package notation

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/sahilm/fuzzy"
)

// Suggestion is a known tune name that resembles a query.
type Suggestion struct {
	TuneName   string  `json:"tune_name"`
	HymnNumber int     `json:"hymn_number"`
	Score      float64 `json:"score"`
	// Phonetic is set when the names share a Double Metaphone code.
	Phonetic bool `json:"phonetic,omitempty"`
}

// SuggestTunes ranks tune names recorded for hymn and its neighbors by
// similarity to tune. Names come from the cross-reference table and from the
// hymns' catalog entries.
func (r *Resolver) SuggestTunes(tune string, hymn, limit int) []Suggestion {
	key := TuneKey(tune)
	if key == "" || hymn <= 0 {
		return nil
	}
	queryTokens := strings.Fields(key)
	queryCodes := metaphoneCodes(queryTokens)

	best := make(map[string]Suggestion)
	consider := func(name string, number int) {
		candidateKey := TuneKey(name)
		if candidateKey == "" {
			return
		}
		tokens := strings.Fields(candidateKey)
		score := jaroWinklerBest(queryTokens, tokens, key, candidateKey)
		phonetic := codesOverlap(queryCodes, metaphoneCodes(tokens))
		if prev, ok := best[candidateKey]; ok && prev.Score >= score {
			return
		}
		best[candidateKey] = Suggestion{TuneName: name, HymnNumber: number, Score: score, Phonetic: phonetic}
	}

	for _, offset := range NeighborOffsets(r.radius) {
		candidate := hymn + offset
		if candidate <= 0 {
			continue
		}
		for _, row := range r.tunes.ForHymn(candidate) {
			consider(row.TuneName, candidate)
		}
		if entry, err := r.hymns.Lookup(candidate); err == nil {
			for _, name := range entry.Tunes {
				consider(name, candidate)
			}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Phonetic != out[j].Phonetic {
			return out[i].Phonetic
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].HymnNumber != out[j].HymnNumber {
			return out[i].HymnNumber < out[j].HymnNumber
		}
		return out[i].TuneName < out[j].TuneName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// jaroWinklerBest scores the whole names, the names without spaces, and the
// best pair of words, keeping the highest.
func jaroWinklerBest(queryTokens, candidateTokens []string, query, candidate string) float64 {
	score := matchr.JaroWinkler(query, candidate, false)
	if len(queryTokens) > 1 || len(candidateTokens) > 1 {
		if s := matchr.JaroWinkler(strings.Join(queryTokens, ""), strings.Join(candidateTokens, ""), false); s > score {
			score = s
		}
	}
	for _, qt := range queryTokens {
		for _, ct := range candidateTokens {
			if s := matchr.JaroWinkler(qt, ct, false); s > score {
				score = s
			}
		}
	}
	return score
}

func metaphoneCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		primary, secondary := matchr.DoubleMetaphone(t)
		if primary != "" {
			codes[primary] = struct{}{}
		}
		if secondary != "" {
			codes[secondary] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// TuneMatch is a fuzzy-find hit over the whole table.
type TuneMatch struct {
	TuneRef
	Score          int   `json:"score"`
	MatchedIndexes []int `json:"-"`
}

// Find fuzzy-matches pattern against every tune name in the table, best
// matches first. An empty pattern returns nothing.
func (t *TuneTable) Find(pattern string, limit int) []TuneMatch {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	rows := t.Rows()
	matches := fuzzy.FindFrom(pattern, tuneSource(rows))
	out := make([]TuneMatch, 0, len(matches))
	for _, m := range matches {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, TuneMatch{TuneRef: rows[m.Index], Score: m.Score, MatchedIndexes: m.MatchedIndexes})
	}
	return out
}

type tuneSource []TuneRef

func (s tuneSource) String(i int) string { return s[i].TuneName }
func (s tuneSource) Len() int            { return len(s) }
