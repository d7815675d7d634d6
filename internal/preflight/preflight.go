package preflight

import (
	"songbook/internal/config"
	"songbook/internal/songcode"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	for _, category := range songcode.Categories {
		results = append(results, CheckFileReadable(sheetLabel(category), cfg.CatalogFile(category)))
	}
	results = append(results, CheckFileReadable("Attendance sheet", cfg.AttendanceFile()))
	results = append(results, CheckOptionalFile("Tune seed", cfg.TunesSeedFile(), "not present; tune table starts empty"))
	results = append(results, CheckDatabaseFile("Tune database", cfg.TunesDatabasePath()))

	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

func sheetLabel(category songcode.Category) string {
	switch category {
	case songcode.Hymn:
		return "Hymn catalog"
	case songcode.Lyric:
		return "Lyric catalog"
	default:
		return "Convention catalog"
	}
}
