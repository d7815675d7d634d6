package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"songbook/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "hymns.csv")
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(full, []byte("No,Text\n1,Grace\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		passed bool
		detail string
	}{
		{name: "present", path: full, passed: true, detail: "bytes"},
		{name: "empty", path: empty, detail: "empty"},
		{name: "missing", path: filepath.Join(dir, "nope.csv"), detail: "missing"},
		{name: "directory", path: dir, detail: "not a regular file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckFileReadable("sheet", tt.path)
			if result.Passed != tt.passed {
				t.Fatalf("passed = %v, want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("detail %q missing %q", result.Detail, tt.detail)
			}
		})
	}
}

func TestCheckOptionalFileAbsent(t *testing.T) {
	result := CheckOptionalFile("seed", filepath.Join(t.TempDir(), "tunes.csv"), "not present")
	if !result.Passed || !result.Optional {
		t.Fatalf("expected optional pass, got %+v", result)
	}
}

func TestCheckDatabaseFileNotCreatedYet(t *testing.T) {
	result := CheckDatabaseFile("db", filepath.Join(t.TempDir(), "tunes.db"))
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "created on first load") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = dir
	cfg.Paths.LogDir = ""

	for _, name := range []string{"hymns.csv", "lyrics.csv", "conventions.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("No,Text\n1,x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(&cfg)
	if !Failed(results) {
		t.Fatal("expected failure without attendance sheet")
	}
	var attendance Result
	for _, r := range results {
		if r.Name == "Attendance sheet" {
			attendance = r
		}
	}
	if attendance.Passed {
		t.Fatalf("expected attendance check to fail, got %+v", attendance)
	}

	if err := os.WriteFile(filepath.Join(dir, "attendance.csv"), []byte("Date,Song 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if results := RunAll(&cfg); Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil, got %v", results)
	}
}
