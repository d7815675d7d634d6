// Package songcode canonicalizes free-form song references.
//
// Choir records and user input refer to songs as "H 23", "h23", "H--23" and
// similar variants. Normalize rewrites every variant into the canonical
// "<PREFIX>-<NUMBER>" form, and Parse turns the canonical form into a Code
// value that the rest of the repository uses as a lookup key.
//
// Three categories exist: Hymn (H), Lyric (L) and Convention (C). Category is a
// closed enum so callers never dispatch on free-form category strings.
package songcode
