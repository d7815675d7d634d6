package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSheets is a small but complete data directory: three hymns with tune
// data, two lyrics, one convention song, three services and a tune seed.
var SampleSheets = map[string]string{
	"hymns.csv": "No,Text,Title,Tunes,Probable Pages\n" +
		"1,Amazing grace how sweet the sound,Grace,New Britain,\n" +
		"2,Holy holy holy lord god almighty,,Nicaea,40\n" +
		"3,Abide with me fast falls the eventide,,Eventide,\n",
	"lyrics.csv": "No,Text\n" +
		"1,Blessed assurance Jesus is mine\n" +
		"2,Great is thy faithfulness\n",
	"conventions.csv": "No,Text\n1,Shout to the Lord\n",
	"attendance.csv": "Date,Song 1,Song 2,Song 3\n" +
		"05/01/2025,H-1,L-2,\n" +
		"12/01/2025,H 1,C-1,\n" +
		"19/01/2025,L-1,,\n",
	"tunes.csv": "Hymn No,Tune Name,Page No,Probable Result\n" +
		"1,New Britain,12,\n" +
		"3,Eventide,640,\n",
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
