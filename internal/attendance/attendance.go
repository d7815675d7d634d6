// Package attendance holds the service history: which songs were sung on
// which date. History is the source of truth for both the vocabulary sets and
// last-sung lookups.
//
// Records are ordered by date once, at construction, so "most recent" is a
// property of the data rather than of the order the loader happened to read
// rows in.
package attendance

import (
	"sort"
	"time"

	"songbook/internal/songcode"
)

// Record is one service date and its song slots in column order.
type Record struct {
	Date  time.Time `json:"date"`
	Songs []string  `json:"songs"`
}

// History is an immutable, date-ordered list of records.
type History struct {
	records []Record
	dropped int
}

// NewHistory copies records, drops those without a date and stable-sorts the
// rest by date ascending. Records sharing a date keep their input order.
func NewHistory(records []Record) *History {
	kept := make([]Record, 0, len(records))
	dropped := 0
	for _, r := range records {
		if r.Date.IsZero() {
			dropped++
			continue
		}
		songs := make([]string, len(r.Songs))
		copy(songs, r.Songs)
		kept = append(kept, Record{Date: r.Date, Songs: songs})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})
	return &History{records: kept, dropped: dropped}
}

// Len returns the number of dated records.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.records)
}

// Dropped returns how many input records were discarded for lacking a date.
func (h *History) Dropped() int {
	if h == nil {
		return 0
	}
	return h.dropped
}

// Records returns the dated records, oldest first.
func (h *History) Records() []Record {
	if h == nil {
		return nil
	}
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// SungInfo is the answer to a last-sung query. An empty Dates slice means the
// song was never sung.
type SungInfo struct {
	Code  songcode.Code `json:"-"`
	Dates []time.Time   `json:"dates"`
}

// Sung reports whether at least one record matched.
func (s SungInfo) Sung() bool {
	return len(s.Dates) > 0
}

// Last returns the most recent matching date.
func (s SungInfo) Last() (time.Time, bool) {
	if len(s.Dates) == 0 {
		return time.Time{}, false
	}
	return s.Dates[0], true
}

// LastSung scans records from newest to oldest looking for code in any song
// slot. With all=false it stops at the first match; with all=true it returns
// every matching date, newest first.
func (h *History) LastSung(code songcode.Code, all bool) SungInfo {
	info := SungInfo{Code: code}
	if h == nil || !code.Valid() {
		return info
	}
	for i := len(h.records) - 1; i >= 0; i-- {
		record := h.records[i]
		if !recordHasCode(record, code) {
			continue
		}
		info.Dates = append(info.Dates, record.Date)
		if !all {
			break
		}
	}
	return info
}

func recordHasCode(record Record, code songcode.Code) bool {
	want := code.String()
	for _, cell := range record.Songs {
		if slotMatches(cell, code, want) {
			return true
		}
	}
	return false
}

// slotMatches compares by parsed code so "H-023" and "H 23" both match H-23;
// cells that do not parse fall back to a normalized text comparison.
func slotMatches(cell string, code songcode.Code, want string) bool {
	if parsed, err := songcode.Parse(cell); err == nil {
		return parsed == code
	}
	return songcode.Normalize(cell) == want
}
