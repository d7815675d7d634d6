package songcode

import (
	"fmt"
	"strings"
)

// Category identifies one of the three song catalogs.
type Category int

const (
	Hymn Category = iota + 1
	Lyric
	Convention
)

// Categories lists every category in display order.
var Categories = []Category{Hymn, Lyric, Convention}

// Prefix returns the single-letter code prefix.
func (c Category) Prefix() string {
	switch c {
	case Hymn:
		return "H"
	case Lyric:
		return "L"
	case Convention:
		return "C"
	default:
		return ""
	}
}

func (c Category) String() string {
	switch c {
	case Hymn:
		return "hymn"
	case Lyric:
		return "lyric"
	case Convention:
		return "convention"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= Hymn && c <= Convention
}

// Index returns a zero-based position usable for fixed-size per-category arrays.
func (c Category) Index() int {
	return int(c) - 1
}

// CategoryFromPrefix maps a code prefix letter to its category.
func CategoryFromPrefix(prefix string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(prefix)) {
	case "H":
		return Hymn, true
	case "L":
		return Lyric, true
	case "C":
		return Convention, true
	default:
		return 0, false
	}
}

// ParseCategory accepts a category name ("hymn", "lyrics") or its prefix letter.
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "hymn", "hymns", "h":
		return Hymn, nil
	case "lyric", "lyrics", "l":
		return Lyric, nil
	case "convention", "conventions", "c":
		return Convention, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
}
