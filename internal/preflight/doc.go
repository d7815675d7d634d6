// Package preflight checks that the directories and sheets songbook reads are
// present and accessible before a load is attempted.
//
// The CLI "songbook doctor" command runs RunAll and renders one status line
// per check. Missing optional inputs (the tune seed, an unused tune database)
// pass with an explanatory detail.
package preflight
