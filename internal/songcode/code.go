package songcode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCode reports input that does not normalize to "<H|L|C>-<digits>"
	// with a positive number.
	ErrInvalidCode = errors.New("invalid song code")
	// ErrUnknownCategory reports a category name outside hymn, lyric, convention.
	ErrUnknownCategory = errors.New("unknown category")
)

var (
	compactPattern   = regexp.MustCompile(`^([HLC])\s*-?\s*(\d+)$`)
	hyphenRunPattern = regexp.MustCompile(`\s*-[\s-]*`)
	canonicalPattern = regexp.MustCompile(`^([HLC])-(\d+)$`)
)

// Code is a canonical song identifier. The zero value is not a valid code.
type Code struct {
	Category Category
	Number   int
}

// New validates category and number and returns the resulting code.
func New(category Category, number int) (Code, error) {
	if !category.Valid() {
		return Code{}, fmt.Errorf("%w: unknown category %d", ErrInvalidCode, int(category))
	}
	if number < 1 {
		return Code{}, fmt.Errorf("%w: number must be positive, got %d", ErrInvalidCode, number)
	}
	return Code{Category: category, Number: number}, nil
}

// String renders the canonical "<PREFIX>-<NUMBER>" form.
func (c Code) String() string {
	if !c.Valid() {
		return ""
	}
	return c.Category.Prefix() + "-" + strconv.Itoa(c.Number)
}

// Valid reports whether c has a known category and a positive number.
func (c Code) Valid() bool {
	return c.Category.Valid() && c.Number >= 1
}

// Normalize canonicalizes a free-form song reference. Matching input such as
// "h 23" or "H23" becomes "H-23"; hyphen runs collapse to a single hyphen and
// spaces around hyphens are removed. Digits are kept as written. Normalize is
// idempotent and never validates the numeric range.
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if m := compactPattern.FindStringSubmatch(s); m != nil {
		s = m[1] + "-" + m[2]
	}
	return hyphenRunPattern.ReplaceAllString(s, "-")
}

// Parse normalizes raw and converts it into a Code.
func Parse(raw string) (Code, error) {
	normalized := Normalize(raw)
	m := canonicalPattern.FindStringSubmatch(normalized)
	if m == nil {
		return Code{}, fmt.Errorf("%w: %q", ErrInvalidCode, strings.TrimSpace(raw))
	}
	category, _ := CategoryFromPrefix(m[1])
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return Code{}, fmt.Errorf("%w: %q: %v", ErrInvalidCode, raw, err)
	}
	return New(category, number)
}

// MustParse is Parse for trusted literals; it panics on invalid input.
func MustParse(raw string) Code {
	code, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return code
}
