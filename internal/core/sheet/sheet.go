// Package sheet turns spreadsheet bytes into row objects keyed by the header row.
//
// Only the first worksheet is read. Every cell value is returned as a string, for
// both CSV and XLSX input. Empty cells are omitted from their row object and rows
// without any value are skipped.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetboard/internal/domain"
)

var ErrUnsupported = errors.New("sheet: only .xlsx and .csv files are supported")

const emptyHeader = "__EMPTY"

// Parse dispatches on the file extension.
func Parse(name string, data []byte) ([]domain.Row, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(data)
	case ".xlsx":
		return ParseXLSX(data)
	default:
		return nil, ErrUnsupported
	}
}

func ParseCSV(data []byte) ([]domain.Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheet: read csv: %w", err)
	}
	return toObjects(records), nil
}

func ParseXLSX(data []byte) ([]domain.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sheet: open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []domain.Row{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s: %w", sheets[0], err)
	}
	return toObjects(rows), nil
}

func toObjects(matrix [][]string) []domain.Row {
	out := []domain.Row{}

	start := 0
	for start < len(matrix) && blank(matrix[start]) {
		start++
	}
	if start >= len(matrix) {
		return out
	}

	width := 0
	for _, r := range matrix[start:] {
		width = max(width, len(r))
	}
	headers := headerKeys(matrix[start], width)

	for _, r := range matrix[start+1:] {
		row := domain.Row{}
		for i, cell := range r {
			if cell == "" {
				continue
			}
			row[headers[i]] = cell
		}
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// headerKeys names every column: blanks become __EMPTY, __EMPTY_1, ... and
// repeated names get a _1, _2 suffix.
func headerKeys(header []string, width int) []string {
	keys := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := 0; i < width; i++ {
		base := emptyHeader
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			base = header[i]
		}
		key := base
		for used[key] {
			suffix[base]++
			key = base + "_" + strconv.Itoa(suffix[base])
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

func blank(r []string) bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}
