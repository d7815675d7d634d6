package main

import (
	"fmt"
	"strings"

	"songbook/internal/preflight"
)

type checkKind int

const (
	checkOK checkKind = iota
	checkSkipped
	checkWarn
	checkFailed
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func kindOf(r preflight.Result) checkKind {
	switch {
	case r.Passed && r.Optional:
		return checkSkipped
	case r.Passed:
		return checkOK
	case r.Optional:
		return checkWarn
	default:
		return checkFailed
	}
}

func (k checkKind) label() string {
	switch k {
	case checkOK:
		return "OK"
	case checkSkipped:
		return "SKIP"
	case checkWarn:
		return "WARN"
	default:
		return "FAIL"
	}
}

func (k checkKind) color() string {
	switch k {
	case checkOK:
		return ansiGreen
	case checkWarn:
		return ansiYellow
	case checkFailed:
		return ansiRed
	default:
		return ansiBlue
	}
}

// renderDoctorReport lays out one line per check with names padded to the
// longest one, followed by a summary line.
func renderDoctorReport(title string, results []preflight.Result, colorize bool) []string {
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name)+1)
	}

	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	lines := []string{paint(heading, ansiBlue, colorize)}
	failed, warned := 0, 0
	for _, r := range results {
		kind := kindOf(r)
		switch kind {
		case checkFailed:
			failed++
		case checkWarn:
			warned++
		}
		line := fmt.Sprintf("  %-*s [%s]", width, r.Name+":", kind.label())
		if r.Detail != "" {
			line += " " + r.Detail
		}
		lines = append(lines, paint(line, kind.color(), colorize))
	}
	lines = append(lines, "", doctorSummary(len(results), failed, warned))
	return lines
}

func doctorSummary(total, failed, warned int) string {
	switch {
	case failed > 0:
		return fmt.Sprintf("%d of %d checks failed", failed, total)
	case warned > 0:
		return fmt.Sprintf("All required checks passed, %d warning(s)", warned)
	default:
		return fmt.Sprintf("All %d checks passed", total)
	}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}
