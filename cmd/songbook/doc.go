// Package main hosts the songbook CLI.
//
// Each subcommand loads the configuration once, opens the library (which reads
// the CSV sheets and the tune database) and answers a single query: code
// checks, last-sung dates, text search, notation pages and confirmations. Output
// is a rounded table on a terminal, plain tab-separated lines when piped, and
// indented JSON with --json.
package main
