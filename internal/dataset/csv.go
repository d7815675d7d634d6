package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn reports a required header that is not present.
var ErrMissingColumn = errors.New("required column missing")

type sheet struct {
	path   string
	header []string
	rows   [][]string
}

func readSheet(path string) (*sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return parseSheet(path, file)
}

func parseSheet(path string, r io.Reader) (*sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return &sheet{path: path}, nil
	}
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = headerKey(name)
	}
	return &sheet{path: path, header: header, rows: records[1:]}, nil
}

func headerKey(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// column returns the index of the first header matching any of names, or -1.
func (s *sheet) column(names ...string) int {
	for _, name := range names {
		key := headerKey(name)
		for i, h := range s.header {
			if h == key {
				return i
			}
		}
	}
	return -1
}

func (s *sheet) requireColumn(names ...string) (int, error) {
	idx := s.column(names...)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s has no %q column", ErrMissingColumn, s.path, names[0])
	}
	return idx, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// splitList splits a multi-valued cell on commas, semicolons or pipes.
func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
