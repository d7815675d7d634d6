// Package tunestore persists the tune cross-reference table in SQLite.
//
// The store is seeded once from the tune sheet and afterwards only changes
// through confirmed notation pages. Every write takes an exclusive file lock
// next to the database so that two processes cannot seed or confirm at the
// same time.
package tunestore
