// Package sheet imports translation segments from spreadsheets.
//
// A sheet has a header row followed by one row per segment. Only the first
// three columns are read, by position: segment number, source text and
// target text. Column headings are ignored.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dotcommander/tqa/internal/types"
)

// requiredColumns is the number of leading columns a sheet must have.
const requiredColumns = 3

// ErrUnsupportedFormat is returned by Parse for extensions other than
// .xlsx and .csv.
var ErrUnsupportedFormat = errors.New("unsupported sheet format")

// Parse reads segments from an .xlsx or .csv file chosen by extension.
func Parse(path, sourceLang, targetLang string) ([]types.Segment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %q (expected .xlsx or .csv)", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening sheet: %w", err)
	}
	defer f.Close()

	if ext == ".csv" {
		return ParseCSV(f, sourceLang, targetLang)
	}
	return ParseXLSX(f, sourceLang, targetLang)
}

// ParseXLSX reads segments from the first worksheet of an Excel workbook.
func ParseXLSX(r io.Reader, sourceLang, targetLang string) ([]types.Segment, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading worksheet %q: %w", sheets[0], err)
	}
	return segmentsFromRows(rows, sourceLang, targetLang)
}

// ParseCSV reads segments from comma-separated text.
func ParseCSV(r io.Reader, sourceLang, targetLang string) ([]types.Segment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	return segmentsFromRows(rows, sourceLang, targetLang)
}

// segmentsFromRows applies the import rules to raw cell text. The first row
// is the header. Rows whose source or target cell is blank are dropped. A
// missing or non-numeric segment number is replaced by the count of
// segments accepted so far.
func segmentsFromRows(rows [][]string, sourceLang, targetLang string) ([]types.Segment, error) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width < requiredColumns {
		return nil, fmt.Errorf(
			"sheet must have at least %d columns (segment number, source, target), found %d columns",
			requiredColumns, width)
	}

	segments := []types.Segment{}
	if len(rows) < 2 {
		return segments, nil
	}

	for _, row := range rows[1:] {
		source := strings.TrimSpace(cell(row, 1))
		target := strings.TrimSpace(cell(row, 2))
		if source == "" || target == "" {
			continue
		}

		id, ok := segmentNumber(cell(row, 0))
		if !ok {
			id = len(segments)
		}

		segments = append(segments, types.Segment{
			ID:         id,
			SourceText: source,
			TargetText: target,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
	}
	return segments, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// segmentNumber parses a segment number cell. Spreadsheets often store
// integers as floats, so "7.0" is accepted and truncated.
func segmentNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
