package notation

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"songbook/internal/textutil"
)

var (
	ErrInvalidTune = errors.New("tune name is empty")
	ErrInvalidHymn = errors.New("hymn number must be positive")
)

// TuneRef is one row of the tune cross-reference table.
type TuneRef struct {
	HymnNumber int    `json:"hymn_number"`
	TuneName   string `json:"tune_name"`
	// Pages holds directly recorded pages, preferred page first.
	Pages []int `json:"pages,omitempty"`
	// ProbableResult is a page confirmed from a heuristic guess; 0 means unset.
	ProbableResult int `json:"probable_result,omitempty"`
}

// Page returns the preferred direct page.
func (t TuneRef) Page() (int, bool) {
	if len(t.Pages) == 0 {
		return 0, false
	}
	return t.Pages[0], true
}

func (t TuneRef) clone() TuneRef {
	t.Pages = slices.Clone(t.Pages)
	return t
}

// TuneKey folds a tune name for comparison: case-insensitive, NFC composed,
// whitespace collapsed.
func TuneKey(name string) string {
	return textutil.Fold(name)
}

// DisplayTuneName title-cases a tune name for presentation.
func DisplayTuneName(name string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}

// ParsePages reads a comma-joined page list. Entries that are not positive
// integers are skipped and reported through the second return value.
func ParsePages(raw string) ([]int, int) {
	var pages []int
	skipped := 0
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			skipped++
			continue
		}
		pages = append(pages, n)
	}
	return pages, skipped
}

// FormatPages joins pages back into the comma-joined form.
func FormatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// TuneTable is the in-memory tune cross-reference table. Reads may run
// concurrently; Confirm holds the write lock for the whole row update.
type TuneTable struct {
	mu     sync.RWMutex
	rows   []TuneRef
	byHymn map[int][]int
}

// NewTuneTable copies rows into a table. Rows with a non-positive hymn number
// or an empty tune name are dropped.
func NewTuneTable(rows []TuneRef) *TuneTable {
	t := &TuneTable{byHymn: make(map[int][]int)}
	for _, row := range rows {
		if row.HymnNumber <= 0 || TuneKey(row.TuneName) == "" {
			continue
		}
		t.appendLocked(row.clone())
	}
	return t
}

func (t *TuneTable) appendLocked(row TuneRef) int {
	pos := len(t.rows)
	t.rows = append(t.rows, row)
	t.byHymn[row.HymnNumber] = append(t.byHymn[row.HymnNumber], pos)
	return pos
}

// Len returns the number of rows.
func (t *TuneTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Rows returns a copy of every row in table order.
func (t *TuneTable) Rows() []TuneRef {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TuneRef, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.clone()
	}
	return out
}

// ForHymn returns copies of the rows recorded for hymn.
func (t *TuneTable) ForHymn(hymn int) []TuneRef {
	t.mu.RLock()
	defer t.mu.RUnlock()
	positions := t.byHymn[hymn]
	out := make([]TuneRef, 0, len(positions))
	for _, pos := range positions {
		out = append(out, t.rows[pos].clone())
	}
	return out
}

// Lookup returns the row for (hymn, tune), comparing tune names by TuneKey.
func (t *TuneTable) Lookup(hymn int, tune string) (TuneRef, bool) {
	key := TuneKey(tune)
	t.mu.RLock()
	defer t.mu.RUnlock()
	if pos, ok := t.findLocked(hymn, key); ok {
		return t.rows[pos].clone(), true
	}
	return TuneRef{}, false
}

func (t *TuneTable) findLocked(hymn int, key string) (int, bool) {
	for _, pos := range t.byHymn[hymn] {
		if TuneKey(t.rows[pos].TuneName) == key {
			return pos, true
		}
	}
	return 0, false
}

// Confirm records page for (hymn, tune). Heuristic confirmations set
// ProbableResult; direct confirmations move page to the front of Pages.
// A missing row is appended. Repeating a confirmation leaves the row unchanged.
// The updated row is returned along with whether it changed.
func (t *TuneTable) Confirm(hymn int, tune string, page int, heuristic bool) (TuneRef, bool, error) {
	if hymn <= 0 {
		return TuneRef{}, false, ErrInvalidHymn
	}
	key := TuneKey(tune)
	if key == "" {
		return TuneRef{}, false, ErrInvalidTune
	}
	if page <= 0 {
		return TuneRef{}, false, pageError(page)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.findLocked(hymn, key)
	if !ok {
		pos = t.appendLocked(TuneRef{HymnNumber: hymn, TuneName: strings.Join(strings.Fields(tune), " ")})
	}
	row := &t.rows[pos]
	changed := !ok

	if heuristic {
		if row.ProbableResult != page {
			row.ProbableResult = page
			changed = true
		}
		return row.clone(), changed, nil
	}

	if len(row.Pages) > 0 && row.Pages[0] == page {
		return row.clone(), changed, nil
	}
	pages := make([]int, 0, len(row.Pages)+1)
	pages = append(pages, page)
	for _, p := range row.Pages {
		if p != page {
			pages = append(pages, p)
		}
	}
	row.Pages = pages
	return row.clone(), true, nil
}
