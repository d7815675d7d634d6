// Package config loads, normalizes, and validates songbook configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SONGBOOK_DATA_DIR environment
// fallback. The Config type centralizes where the catalogs, attendance sheet
// and tune table live, how the sheets are laid out, and how search and
// notation lookups behave.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical analyzer names, and clear validation errors.
package config
