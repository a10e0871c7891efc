package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of a workbook with the same two-column
// layout ReadCSV accepts.
func ReadXLSX(r io.Reader) (map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	start := 0
	if isHeaderRow(rows[0]) {
		start = 1
	}

	raw := make(map[string]any)
	for i, row := range rows[start:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("sheet %q row %d: expected parameter and value columns", sheets[0], start+i+1)
		}
		if err := setParameter(raw, row[0], row[1]); err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheets[0], start+i+1, err)
		}
	}

	return raw, nil
}
