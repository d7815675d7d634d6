package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold composes text to NFC, case-folds it and collapses whitespace runs to
// a single space.
func Fold(text string) string {
	composed := norm.NFC.String(text)
	folded := cases.Fold().String(composed)
	return strings.Join(strings.FieldsFunc(folded, unicode.IsSpace), " ")
}
