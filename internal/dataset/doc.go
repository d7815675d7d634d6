// Package dataset reads the songbook's tabular inputs from the data directory:
// the three catalogs, the attendance sheet and the tune cross-reference seed.
//
// Sheets are CSV exports with a header row. Headers are matched
// case-insensitively, so column order and capitalization in the spreadsheet do
// not matter. Malformed rows are skipped or turned into placeholders and
// counted in Stats; only unreadable files are errors.
package dataset
