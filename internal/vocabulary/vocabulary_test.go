package vocabulary

import (
	"reflect"
	"testing"
	"time"

	"songbook/internal/attendance"
	"songbook/internal/songcode"
)

func TestBuildCollectsPerCategory(t *testing.T) {
	records := []attendance.Record{
		{Songs: []string{"H-5", "L-3"}},
		{Songs: []string{"H-5", "H-9"}},
	}
	v := Build(records)

	if got := v.For(songcode.Hymn).Numbers(); !reflect.DeepEqual(got, []int{5, 9}) {
		t.Fatalf("hymn set = %v, want [5 9]", got)
	}
	if got := v.For(songcode.Lyric).Numbers(); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("lyric set = %v, want [3]", got)
	}
	if got := v.For(songcode.Convention).Len(); got != 0 {
		t.Fatalf("convention set size = %d, want 0", got)
	}
}

func TestBuildSkipsMalformedCells(t *testing.T) {
	records := []attendance.Record{
		{Songs: []string{"H", "", "hymn", "H-0", "l 12 ", "c7"}},
	}
	v := Build(records)
	if v.For(songcode.Hymn).Len() != 0 {
		t.Fatalf("expected no hymns, got %v", v.For(songcode.Hymn).Numbers())
	}
	if !v.For(songcode.Lyric).Contains(12) {
		t.Fatal("expected lyric 12")
	}
	if !v.For(songcode.Convention).Contains(7) {
		t.Fatal("expected convention 7")
	}
}

func TestBuildDeterministicAcrossOrder(t *testing.T) {
	a := []attendance.Record{
		{Date: time.Unix(1, 0), Songs: []string{"H-9", "L-2", "C-4"}},
		{Date: time.Unix(2, 0), Songs: []string{"H-1", "H-9"}},
		{Date: time.Unix(3, 0), Songs: []string{"L-7"}},
	}
	b := []attendance.Record{a[2], a[0], a[1]}

	first, second := Build(a), Build(b)
	for _, c := range songcode.Categories {
		if !reflect.DeepEqual(first.For(c).Numbers(), second.For(c).Numbers()) {
			t.Fatalf("category %v differs: %v vs %v", c, first.For(c).Numbers(), second.For(c).Numbers())
		}
	}
	if !reflect.DeepEqual(Build(a).Combined(), first.Combined()) {
		t.Fatal("rebuilding the same input changed the combined table")
	}
}

func TestIsKnown(t *testing.T) {
	v := Build([]attendance.Record{{Songs: []string{"H-5", "L-3"}}})
	if !v.IsKnown(songcode.MustParse("H-5")) {
		t.Fatal("H-5 should be known")
	}
	if v.IsKnown(songcode.MustParse("L-5")) {
		t.Fatal("L-5 should not be known")
	}
	if v.IsKnown(songcode.Code{}) {
		t.Fatal("zero code should never be known")
	}
}

func TestSetIgnoresSentinel(t *testing.T) {
	s := NewSet([]int{0, 3, 3, -1, 2})
	if !reflect.DeepEqual(s.Numbers(), []int{2, 3}) {
		t.Fatalf("Numbers() = %v", s.Numbers())
	}
	if s.Contains(0) {
		t.Fatal("0 is never a member")
	}
}

func TestCombinedPadsShorterColumns(t *testing.T) {
	v := Build([]attendance.Record{
		{Songs: []string{"H-1", "H-2", "H-3", "L-8", "C-4", "C-5"}},
	})
	want := [][]string{
		{"1", "8", "4"},
		{"2", "", "5"},
		{"3", "", ""},
	}
	if got := v.Combined(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Combined() = %v, want %v", got, want)
	}
}
