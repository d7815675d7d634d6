// Package catalog indexes the hymn, lyric and convention song tables.
//
// A Catalog is built wholesale from rows supplied by the data loader and is
// never mutated afterwards; a refresh builds a new Catalog. Row i of a
// well-formed catalog holds song i+1, and Lookup translates the 1-based song
// number into that row.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"songbook/internal/songcode"
)

var (
	// ErrOutOfRange reports a song number outside [1, Size()].
	ErrOutOfRange = errors.New("song number out of range")
	// ErrNotFound reports a number inside the range that has no row.
	ErrNotFound = errors.New("song not found")
)

// Entry is one catalog row.
type Entry struct {
	Number        int      `json:"number"`
	Text          string   `json:"text"`
	Title         string   `json:"title,omitempty"`
	Themes        []string `json:"themes,omitempty"`
	Tunes         []string `json:"tunes,omitempty"`
	ProbablePages []int    `json:"probable_pages,omitempty"`
}

// Placeholder reports whether the row stands in for a missing or invalid song.
// Placeholder rows stay searchable by position but are never returned as songs.
func (e Entry) Placeholder() bool {
	return e.Number <= 0
}

// Context returns the optional descriptive string shown beside search hits.
func (e Entry) Context() string {
	return strings.TrimSpace(e.Title)
}

// Catalog serves one category's entries.
type Catalog struct {
	category songcode.Category
	entries  []Entry
	byNumber map[int]int
	size     int
	dupes    int
}

// New indexes rows for category. Rows keep their input order; the first row
// carrying a given number wins the number index.
func New(category songcode.Category, rows []Entry) (*Catalog, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("catalog: %w", songcode.ErrUnknownCategory)
	}

	entries := make([]Entry, len(rows))
	copy(entries, rows)

	maxNumber := 0
	byNumber := make(map[int]int, len(entries))
	dupes := 0
	for pos, e := range entries {
		if e.Placeholder() {
			continue
		}
		if _, ok := byNumber[e.Number]; ok {
			dupes++
			continue
		}
		byNumber[e.Number] = pos
		maxNumber = max(maxNumber, e.Number)
	}

	return &Catalog{
		category: category,
		entries:  entries,
		byNumber: byNumber,
		size:     maxNumber,
		dupes:    dupes,
	}, nil
}

// Category returns the catalog's category.
func (c *Catalog) Category() songcode.Category {
	return c.category
}

// Size returns the highest song number the catalog can serve.
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	return c.size
}

// Len returns the number of stored rows, placeholders included.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Duplicates returns how many rows lost the number index to an earlier row.
func (c *Catalog) Duplicates() int {
	if c == nil {
		return 0
	}
	return c.dupes
}

// Lookup returns the entry for a 1-based song number.
func (c *Catalog) Lookup(number int) (Entry, error) {
	if c == nil || number <= 0 || number > c.size {
		return Entry{}, fmt.Errorf("%w: %d (catalog has %d %s songs)", ErrOutOfRange, number, c.Size(), c.categoryName())
	}
	pos, ok := c.byNumber[number]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s %d", ErrNotFound, c.categoryName(), number)
	}
	return c.entries[pos], nil
}

// LookupCode checks the code's category before delegating to Lookup.
func (c *Catalog) LookupCode(code songcode.Code) (Entry, error) {
	if c == nil || code.Category != c.category {
		return Entry{}, fmt.Errorf("catalog: code %s does not belong to %s catalog", code, c.categoryName())
	}
	return c.Lookup(code.Number)
}

// Entries returns a copy of every row in input order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// At returns the row stored at position i without copying the slice.
func (c *Catalog) At(i int) Entry {
	return c.entries[i]
}

func (c *Catalog) categoryName() string {
	if c == nil {
		return "unknown"
	}
	return c.category.String()
}
