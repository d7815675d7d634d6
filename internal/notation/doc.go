// Package notation locates the sheet-music page for a hymn tune.
//
// The tune cross-reference table maps (hymn, tune) pairs to pages in the
// scanned songbook. Resolve walks an ordered list of strategies over the
// requested hymn and then its neighbors, stopping at the first page found.
// Pages guessed by heuristics are only written back when a person confirms
// them through Confirm.
//
// PageToLink converts a page into a viewer URL. The songbook is scanned as two
// volumes, so pages 1-500 and 501-837 live in different documents.
package notation
