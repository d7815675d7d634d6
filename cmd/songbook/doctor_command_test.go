package main

import (
	"io"
	"strings"
	"testing"

	"songbook/internal/preflight"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		result preflight.Result
		want   checkKind
	}{
		{preflight.Result{Passed: true}, checkOK},
		{preflight.Result{Passed: true, Optional: true}, checkSkipped},
		{preflight.Result{Optional: true}, checkWarn},
		{preflight.Result{}, checkFailed},
	}
	for _, tt := range tests {
		if got := kindOf(tt.result); got != tt.want {
			t.Fatalf("kindOf(%+v) = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestRenderDoctorReportAlignsNames(t *testing.T) {
	lines := renderDoctorReport("Data Files", []preflight.Result{
		{Name: "Hymn catalog", Passed: true, Detail: "hymns.csv (10 bytes)"},
		{Name: "Tune seed", Optional: true, Detail: "unreadable"},
		{Name: "Attendance", Detail: "missing"},
	}, false)

	want := []string{
		"== Data Files ==",
		"  Hymn catalog: [OK] hymns.csv (10 bytes)",
		"  Tune seed:    [WARN] unreadable",
		"  Attendance:   [FAIL] missing",
		"",
		"1 of 3 checks failed",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("report mismatch\n got: %q\nwant: %q", lines, want)
	}
}

func TestRenderDoctorReportColor(t *testing.T) {
	lines := renderDoctorReport("Data Files", []preflight.Result{{Name: "Data directory", Passed: true}}, true)
	if !strings.HasPrefix(lines[1], ansiGreen) || !strings.HasSuffix(lines[1], ansiReset) {
		t.Fatalf("expected green line, got %q", lines[1])
	}
	if lines[len(lines)-1] != "All 1 checks passed" {
		t.Fatalf("summary = %q", lines[len(lines)-1])
	}
}

func TestDoctorSummaryWarnings(t *testing.T) {
	if got := doctorSummary(4, 0, 2); got != "All required checks passed, 2 warning(s)" {
		t.Fatalf("doctorSummary = %q", got)
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Data Files ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "created on first load")
}
