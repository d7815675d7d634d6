// Package library is the query surface of songbook.
//
// A Snapshot bundles one consistent generation of catalogs, vocabulary,
// attendance history, search indexes and notation resolver. Snapshots are
// immutable apart from the tune table, which only changes through
// ConfirmPage. Library owns the current Snapshot and replaces it wholesale on
// Refresh, so readers holding a Snapshot never observe a half-built one.
package library
