package config

const (
	defaultConfigPath      = "~/.config/songbook/config.toml"
	projectConfigName      = "songbook.toml"
	dataDirEnv             = "SONGBOOK_DATA_DIR"
	defaultDataDir         = "~/.local/share/songbook"
	defaultLogDir          = "~/.local/share/songbook/logs"
	defaultHymnsFile       = "hymns.csv"
	defaultLyricsFile      = "lyrics.csv"
	defaultConventionsFile = "conventions.csv"
	defaultTextColumn      = "Text"
	defaultAttendanceFile  = "attendance.csv"
	defaultDateColumn      = "Date"
	defaultTunesSeedFile   = "tunes.csv"
	defaultTunesDatabase   = "tunes.db"
	defaultTopN            = 5
	defaultAnalyzer        = "char"
	defaultHymnAnalyzer    = "word"
	defaultNGramMin        = 3
	defaultNGramMax        = 5
	defaultNeighborRadius  = 2
	defaultSuggestLimit    = 5
	defaultViewerAURL      = "https://example.org/songbook/notation-1-500.pdf"
	defaultViewerBURL      = "https://example.org/songbook/notation-501-837.pdf"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

var (
	defaultSongColumns = []string{"Song 1", "Song 2", "Song 3", "Song 4", "Song 5", "Song 6"}
	defaultDateLayouts = []string{"02/01/2006", "2006-01-02", "2/1/2006"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalogs: Catalogs{
			HymnsFile:            defaultHymnsFile,
			LyricsFile:           defaultLyricsFile,
			ConventionsFile:      defaultConventionsFile,
			HymnTextColumn:       defaultTextColumn,
			LyricTextColumn:      defaultTextColumn,
			ConventionTextColumn: defaultTextColumn,
		},
		Attendance: Attendance{
			File:        defaultAttendanceFile,
			DateColumn:  defaultDateColumn,
			SongColumns: append([]string(nil), defaultSongColumns...),
			DateLayouts: append([]string(nil), defaultDateLayouts...),
		},
		Search: Search{
			DefaultTopN:        defaultTopN,
			HymnAnalyzer:       defaultHymnAnalyzer,
			LyricAnalyzer:      defaultAnalyzer,
			ConventionAnalyzer: defaultAnalyzer,
			NGramMin:           defaultNGramMin,
			NGramMax:           defaultNGramMax,
		},
		Notation: Notation{
			TunesSeedFile:  defaultTunesSeedFile,
			DatabaseFile:   defaultTunesDatabase,
			NeighborRadius: defaultNeighborRadius,
			SuggestLimit:   defaultSuggestLimit,
			ViewerAURL:     defaultViewerAURL,
			ViewerBURL:     defaultViewerBURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
