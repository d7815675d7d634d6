// Package logging assembles structured slog loggers and formatting helpers used
// across songbook packages.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so lookups can tag log lines
// with the request and snapshot they ran against. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Command output goes to stdout, so loggers write to stderr (and optionally a
// log file) unless told otherwise.
package logging
