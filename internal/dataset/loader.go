package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"songbook/internal/attendance"
	"songbook/internal/catalog"
	"songbook/internal/config"
	"songbook/internal/logging"
	"songbook/internal/notation"
	"songbook/internal/songcode"
)

var (
	numberColumns        = []string{"No", "Number", "No.", "#"}
	titleColumns         = []string{"Title", "First Line", "Context"}
	themeColumns         = []string{"Themes", "Theme"}
	tuneColumns          = []string{"Tunes", "Tune", "Tune Names"}
	probablePagesColumns = []string{"Probable Pages", "Probable Page"}
	seedHymnColumns      = []string{"Hymn No", "Hymn", "Hymn Number"}
	seedTuneColumns      = []string{"Tune Name", "Tune"}
	seedPageColumns      = []string{"Page No", "Pages", "Page", "Page Number"}
	seedProbableColumns  = []string{"Probable Result", "Probable Page Result"}
)

// Stats counts rows the loader had to repair or drop.
type Stats struct {
	Placeholders    [3]int `json:"placeholders"`
	UndatedRecords  int    `json:"undated_records"`
	MissingSlots    int    `json:"missing_slots"`
	SkippedTuneRows int    `json:"skipped_tune_rows"`
	BadPageValues   int    `json:"bad_page_values"`
}

// Data is one complete read of the data directory.
type Data struct {
	Catalogs   [3][]catalog.Entry
	Attendance []attendance.Record
	// Tunes is the seed sheet; nil when the sheet does not exist.
	Tunes []notation.TuneRef
	Stats Stats
}

// Catalog returns the rows loaded for category.
func (d *Data) Catalog(category songcode.Category) []catalog.Entry {
	if !category.Valid() {
		return nil
	}
	return d.Catalogs[category.Index()]
}

// Loader reads sheets according to the configuration.
type Loader struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewLoader creates a loader bound to cfg.
func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logging.NewComponentLogger(logger, "dataset")}
}

// Load reads every sheet. Catalog and attendance sheets are required; the tune
// seed is optional.
func (l *Loader) Load(ctx context.Context) (*Data, error) {
	data := &Data{}
	for _, category := range songcode.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, placeholders, err := l.LoadCatalog(category)
		if err != nil {
			return nil, err
		}
		data.Catalogs[category.Index()] = entries
		data.Stats.Placeholders[category.Index()] = placeholders
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, undated, missing, err := l.LoadAttendance()
	if err != nil {
		return nil, err
	}
	data.Attendance = records
	data.Stats.UndatedRecords = undated
	data.Stats.MissingSlots = missing

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tunes, skipped, badPages, err := l.LoadTuneSeed()
	if err != nil {
		return nil, err
	}
	data.Tunes = tunes
	data.Stats.SkippedTuneRows = skipped
	data.Stats.BadPageValues += badPages

	l.reportStats(data)
	return data, nil
}

// LoadCatalog reads one catalog sheet. Rows whose number cell is blank or not
// a positive integer become placeholders (Number 0) and are counted.
func (l *Loader) LoadCatalog(category songcode.Category) ([]catalog.Entry, int, error) {
	sh, err := readSheet(l.cfg.CatalogFile(category))
	if err != nil {
		return nil, 0, fmt.Errorf("%s catalog: %w", category, err)
	}
	numberIdx, err := sh.requireColumn(numberColumns...)
	if err != nil {
		return nil, 0, err
	}
	textIdx, err := sh.requireColumn(l.cfg.TextColumn(category))
	if err != nil {
		return nil, 0, err
	}
	titleIdx := sh.column(titleColumns...)
	themeIdx := sh.column(themeColumns...)
	tuneIdx := sh.column(tuneColumns...)
	pagesIdx := sh.column(probablePagesColumns...)

	entries := make([]catalog.Entry, 0, len(sh.rows))
	placeholders := 0
	for _, row := range sh.rows {
		if blankRow(row) {
			continue
		}
		number, err := strconv.Atoi(cell(row, numberIdx))
		if err != nil || number <= 0 {
			number = 0
			placeholders++
		}
		entry := catalog.Entry{
			Number: number,
			Text:   cell(row, textIdx),
			Title:  cell(row, titleIdx),
			Themes: splitList(cell(row, themeIdx)),
			Tunes:  splitList(cell(row, tuneIdx)),
		}
		if raw := cell(row, pagesIdx); raw != "" {
			entry.ProbablePages, _ = notation.ParsePages(strings.NewReplacer(";", ",", "|", ",").Replace(raw))
		}
		entries = append(entries, entry)
	}
	return entries, placeholders, nil
}

// LoadAttendance reads the attendance sheet. Rows without a parseable date are
// dropped. Song slots follow the configured column order; a configured column
// absent from the sheet yields empty slots.
func (l *Loader) LoadAttendance() ([]attendance.Record, int, int, error) {
	sh, err := readSheet(l.cfg.AttendanceFile())
	if err != nil {
		return nil, 0, 0, fmt.Errorf("attendance: %w", err)
	}
	dateIdx, err := sh.requireColumn(l.cfg.Attendance.DateColumn)
	if err != nil {
		return nil, 0, 0, err
	}

	slotIdx := make([]int, len(l.cfg.Attendance.SongColumns))
	missing := 0
	for i, name := range l.cfg.Attendance.SongColumns {
		slotIdx[i] = sh.column(name)
		if slotIdx[i] < 0 {
			missing++
		}
	}

	records := make([]attendance.Record, 0, len(sh.rows))
	undated := 0
	for _, row := range sh.rows {
		if blankRow(row) {
			continue
		}
		date, err := ParseDate(cell(row, dateIdx), l.cfg.Attendance.DateLayouts)
		if err != nil {
			undated++
			continue
		}
		songs := make([]string, len(slotIdx))
		for i, idx := range slotIdx {
			songs[i] = cell(row, idx)
		}
		records = append(records, attendance.Record{Date: date, Songs: songs})
	}
	return records, undated, missing, nil
}

// LoadTuneSeed reads the tune cross-reference seed sheet. A missing file is
// not an error.
func (l *Loader) LoadTuneSeed() ([]notation.TuneRef, int, int, error) {
	sh, err := readSheet(l.cfg.TunesSeedFile())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, 0, nil
		}
		return nil, 0, 0, fmt.Errorf("tune seed: %w", err)
	}
	hymnIdx, err := sh.requireColumn(seedHymnColumns...)
	if err != nil {
		return nil, 0, 0, err
	}
	tuneIdx, err := sh.requireColumn(seedTuneColumns...)
	if err != nil {
		return nil, 0, 0, err
	}
	pageIdx := sh.column(seedPageColumns...)
	probableIdx := sh.column(seedProbableColumns...)

	refs := make([]notation.TuneRef, 0, len(sh.rows))
	skipped, badPages := 0, 0
	for _, row := range sh.rows {
		if blankRow(row) {
			continue
		}
		hymn, err := strconv.Atoi(cell(row, hymnIdx))
		tune := cell(row, tuneIdx)
		if err != nil || hymn <= 0 || tune == "" {
			skipped++
			continue
		}
		pages, bad := notation.ParsePages(cell(row, pageIdx))
		badPages += bad
		probable := 0
		if raw := cell(row, probableIdx); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				probable = n
			} else {
				badPages++
			}
		}
		refs = append(refs, notation.TuneRef{HymnNumber: hymn, TuneName: tune, Pages: pages, ProbableResult: probable})
	}
	return refs, skipped, badPages, nil
}

func (l *Loader) reportStats(data *Data) {
	for _, category := range songcode.Categories {
		if n := data.Stats.Placeholders[category.Index()]; n > 0 {
			logging.WarnWithContext(l.logger, "catalog rows without a valid number", "catalog_placeholder_rows",
				logging.String(logging.FieldCategory, category.String()),
				logging.Int("rows", n),
				logging.String(logging.FieldImpact, "rows stay searchable but are never returned as songs"),
				logging.String(logging.FieldErrorHint, "fill in the number column in "+l.cfg.CatalogFile(category)),
			)
		}
	}
	if data.Stats.UndatedRecords > 0 {
		logging.WarnWithContext(l.logger, "attendance rows without a readable date", "attendance_undated_rows",
			logging.Int("rows", data.Stats.UndatedRecords),
			logging.String(logging.FieldImpact, "songs on those rows are missing from vocabulary and last-sung answers"),
			logging.String(logging.FieldErrorHint, "check the date column format or attendance.date_layouts"),
		)
	}
	if data.Stats.MissingSlots > 0 {
		logging.WarnWithContext(l.logger, "configured song columns not found in attendance sheet", "attendance_missing_columns",
			logging.Int("columns", data.Stats.MissingSlots),
			logging.String(logging.FieldErrorHint, "compare attendance.song_columns with the sheet header"),
		)
	}
	if data.Stats.SkippedTuneRows > 0 || data.Stats.BadPageValues > 0 {
		logging.WarnWithContext(l.logger, "tune sheet rows ignored", "tune_rows_skipped",
			logging.Int("rows", data.Stats.SkippedTuneRows),
			logging.Int("bad_pages", data.Stats.BadPageValues),
		)
	}
	l.logger.Debug("dataset loaded",
		logging.Int("hymns", len(data.Catalogs[songcode.Hymn.Index()])),
		logging.Int("lyrics", len(data.Catalogs[songcode.Lyric.Index()])),
		logging.Int("conventions", len(data.Catalogs[songcode.Convention.Index()])),
		logging.Int("attendance", len(data.Attendance)),
		logging.Int("tunes", len(data.Tunes)),
	)
}
