// Package ingest reads lab panel exports into the raw parameter mapping
// the scoring validator consumes. Readers only deal with file structure;
// value validation stays in the validator, so a malformed number in a
// well-formed file surfaces as a ValidationError at scoring time.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// headerAliases recognizes the column titles lab exports commonly use.
var headerAliases = map[string]string{
	"parameter": "parameter",
	"field":     "parameter",
	"test":      "parameter",
	"value":     "value",
	"result":    "value",
}

// ReadCSV parses a two-column panel export. Rows are "parameter,value"
// with the parameter given as a dotted bundle path such as
// "vitals.heart_rate"; a header row is detected and skipped. Values are
// kept as strings, coercion is the validator's job.
func ReadCSV(r io.Reader) (map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	raw := make(map[string]any)
	for i, record := range records[start:] {
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("csv row %d: expected parameter and value columns", start+i+1)
		}
		if err := setParameter(raw, record[0], record[1]); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", start+i+1, err)
		}
	}

	return raw, nil
}

func isHeaderRow(record []string) bool {
	if len(record) < 2 {
		return false
	}
	_, first := headerAliases[strings.ToLower(strings.TrimSpace(record[0]))]
	_, second := headerAliases[strings.ToLower(strings.TrimSpace(record[1]))]
	return first && second
}

// setParameter places one "bundle.field" entry into the nested raw map.
// Entries without a bundle prefix land at the top level, where the
// validator ignores them as informational.
func setParameter(raw map[string]any, name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	if name == "" {
		return fmt.Errorf("empty parameter name")
	}
	if value == "" {
		return nil
	}

	bundle, field, found := strings.Cut(name, ".")
	if !found {
		raw[name] = value
		return nil
	}

	sub, ok := raw[bundle].(map[string]any)
	if !ok {
		sub = make(map[string]any)
		raw[bundle] = sub
	}
	sub[field] = value
	return nil
}
