// Package textutil provides text folding, fingerprinting and similarity
// helpers for catalog search.
//
// The primary use cases are:
//   - Folding display text (any script) into a comparable form
//   - Building term-frequency fingerprints from character n-grams or words
//   - Weighting fingerprints with corpus IDF and comparing them by cosine
//
// Folding applies Unicode NFC composition and case folding so that the same
// text typed on different keyboards produces the same terms. Character
// n-grams operate on runes, never bytes, so Malayalam and other non-Latin
// scripts are sliced on character boundaries.
package textutil
