package catalog

import (
	"errors"
	"testing"

	"songbook/internal/songcode"
)

func sampleHymns() []Entry {
	return []Entry{
		{Number: 1, Text: "Praise to the Lord", Title: "Praise"},
		{Number: 2, Text: "Abide with me"},
		{Number: 0, Text: "placeholder"},
		{Number: 3, Text: "Holy holy holy", Tunes: []string{"Nicaea"}},
	}
}

func TestLookupRoundTrip(t *testing.T) {
	cat, err := New(songcode.Hymn, sampleHymns())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cat.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", cat.Size())
	}
	for n := 1; n <= cat.Size(); n++ {
		entry, err := cat.Lookup(n)
		if err != nil {
			t.Fatalf("Lookup(%d) returned error: %v", n, err)
		}
		if entry.Number != n {
			t.Fatalf("Lookup(%d).Number = %d", n, entry.Number)
		}
	}
}

func TestLookupOutOfRange(t *testing.T) {
	cat, err := New(songcode.Hymn, sampleHymns())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for _, n := range []int{-1, 0, 4, 1000} {
		if _, err := cat.Lookup(n); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Lookup(%d) error = %v, want ErrOutOfRange", n, err)
		}
	}
}

func TestLookupGap(t *testing.T) {
	cat, err := New(songcode.Lyric, []Entry{{Number: 1, Text: "a"}, {Number: 3, Text: "c"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := cat.Lookup(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup(2) error = %v, want ErrNotFound", err)
	}
}

func TestHugeSongNumberDoesNotGrowIndex(t *testing.T) {
	cat, err := New(songcode.Hymn, []Entry{{Number: 1, Text: "a"}, {Number: 1 << 50, Text: "typo"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cat.Size() != 1<<50 {
		t.Fatalf("Size() = %d, want %d", cat.Size(), 1<<50)
	}
	entry, err := cat.Lookup(1 << 50)
	if err != nil {
		t.Fatalf("Lookup(1<<50) returned error: %v", err)
	}
	if entry.Text != "typo" {
		t.Fatalf("Lookup(1<<50).Text = %q", entry.Text)
	}
	if _, err := cat.Lookup(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup(2) error = %v, want ErrNotFound", err)
	}
}

func TestDuplicatesKeepFirst(t *testing.T) {
	cat, err := New(songcode.Convention, []Entry{{Number: 1, Text: "first"}, {Number: 1, Text: "second"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entry, err := cat.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if entry.Text != "first" {
		t.Fatalf("expected first row to win, got %q", entry.Text)
	}
	if cat.Duplicates() != 1 {
		t.Fatalf("Duplicates() = %d, want 1", cat.Duplicates())
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}
}

func TestLookupCodeRejectsOtherCategory(t *testing.T) {
	cat, err := New(songcode.Hymn, sampleHymns())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := cat.LookupCode(songcode.MustParse("L-1")); err == nil {
		t.Fatal("expected error for lyric code against hymn catalog")
	}
	entry, err := cat.LookupCode(songcode.MustParse("H-3"))
	if err != nil {
		t.Fatalf("LookupCode returned error: %v", err)
	}
	if len(entry.Tunes) != 1 || entry.Tunes[0] != "Nicaea" {
		t.Fatalf("unexpected tunes: %v", entry.Tunes)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	cat, err := New(songcode.Hymn, sampleHymns())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries := cat.Entries()
	entries[0].Text = "mutated"
	if cat.At(0).Text == "mutated" {
		t.Fatal("Entries must not expose internal storage")
	}
	if !cat.At(2).Placeholder() {
		t.Fatal("expected row 2 to be a placeholder")
	}
}
