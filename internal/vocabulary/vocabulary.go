// Package vocabulary derives the per-category "known song" sets from the
// attendance history and answers membership questions against them.
package vocabulary

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"songbook/internal/attendance"
	"songbook/internal/songcode"
)

var digitRun = regexp.MustCompile(`\d+`)

// Set is a sorted collection of distinct positive song numbers.
type Set struct {
	numbers []int
}

// NewSet deduplicates and sorts numbers, discarding anything below 1.
func NewSet(numbers []int) Set {
	seen := make(map[int]struct{}, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n < 1 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return Set{numbers: out}
}

// Contains reports whether n is in the set.
func (s Set) Contains(n int) bool {
	if n < 1 {
		return false
	}
	i := sort.SearchInts(s.numbers, n)
	return i < len(s.numbers) && s.numbers[i] == n
}

// Len returns the set size.
func (s Set) Len() int {
	return len(s.numbers)
}

// Numbers returns a copy of the sorted numbers.
func (s Set) Numbers() []int {
	out := make([]int, len(s.numbers))
	copy(out, s.numbers)
	return out
}

// Vocabulary holds one Set per category.
type Vocabulary struct {
	sets [3]Set
}

// For returns the set for category.
func (v Vocabulary) For(category songcode.Category) Set {
	if !category.Valid() {
		return Set{}
	}
	return v.sets[category.Index()]
}

// IsKnown reports whether the code's number has been sung in its category.
func (v Vocabulary) IsKnown(code songcode.Code) bool {
	if !code.Valid() {
		return false
	}
	return v.For(code.Category).Contains(code.Number)
}

// Build scans every song slot of every record. For each category, a cell
// counts when it contains the category's prefix letter; the first digit run
// in the cell is the song number. Cells that do not fit are skipped.
func Build(records []attendance.Record) Vocabulary {
	slots := 0
	for _, r := range records {
		if len(r.Songs) > slots {
			slots = len(r.Songs)
		}
	}

	var collected [3][]int
	for slot := 0; slot < slots; slot++ {
		for _, category := range songcode.Categories {
			prefix := category.Prefix()
			for _, r := range records {
				if slot >= len(r.Songs) {
					continue
				}
				if n, ok := extractNumber(r.Songs[slot], prefix); ok {
					collected[category.Index()] = append(collected[category.Index()], n)
				}
			}
		}
	}

	var v Vocabulary
	for i := range collected {
		v.sets[i] = NewSet(collected[i])
	}
	return v
}

func extractNumber(cell, prefix string) (int, bool) {
	upper := strings.ToUpper(cell)
	if !strings.Contains(upper, prefix) {
		return 0, false
	}
	digits := digitRun.FindString(upper)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CombinedHeader names the CombinedTable columns.
var CombinedHeader = []string{"Hymn", "Lyric", "Convention"}

// Combined lays the three sets side by side, padding shorter columns with
// empty strings. It is a presentation grid only; rows do not relate songs.
func (v Vocabulary) Combined() [][]string {
	longest := 0
	for _, s := range v.sets {
		if s.Len() > longest {
			longest = s.Len()
		}
	}
	rows := make([][]string, longest)
	for i := range rows {
		row := make([]string, len(v.sets))
		for col, s := range v.sets {
			if i < len(s.numbers) {
				row[col] = strconv.Itoa(s.numbers[i])
			}
		}
		rows[i] = row
	}
	return rows
}
