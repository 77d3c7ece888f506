// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrTooManyRows is returned when a file exceeds ParseOptions.MaxRows.
	ErrTooManyRows = errors.New("csv has too many rows")
	// ErrMissingColumns is returned when the header lacks a required column.
	ErrMissingColumns = errors.New("csv is missing required columns")
)

// ParseOptions controls CSV parsing limits.
type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

// DefaultParseOptions returns the limits used by uploads and the admin CLI.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// RowError describes a row that could not be accepted.
// Line is the 1-based line in the file, or 0 for file-level problems.
type RowError struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Raw    []string `json:"raw,omitempty"`
}

func (e RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// record is a raw data row with its line number.
type record struct {
	line  int
	cells []string
}

// table is a header-indexed CSV body.
type table struct {
	cols    map[string]int // folded header name -> column index
	records []record
}

// get returns the trimmed cell for the named column, or "" if the column
// is absent or the row is short.
func (t *table) get(rec record, name string) string {
	i, ok := t.cols[headerKey(name)]
	if !ok || i >= len(rec.cells) {
		return ""
	}
	return strings.TrimSpace(rec.cells[i])
}

func headerKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// readTable reads a CSV whose first row is a header. Columns are matched by
// name, case-insensitively and in any order. Blank rows are skipped.
// An empty input yields an empty table and no error. Malformed CSV anywhere
// in the file returns the reader's *csv.ParseError.
func readTable(r io.Reader, opts ParseOptions, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.TrimLeadingSpace = true

	t := &table{cols: map[string]int{}}

	header, err := reader.Read()
	if err == io.EOF {
		return t, nil // empty file
	}
	if err != nil {
		return nil, err
	}

	// Handle BOM in first cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		k := headerKey(h)
		if k == "" {
			continue
		}
		if _, dup := t.cols[k]; !dup {
			t.cols[k] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := t.cols[headerKey(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed CSV: the *csv.ParseError carries the line and column.
			return nil, err
		}
		if blank(rec) {
			continue
		}

		// Check row limit
		if opts.MaxRows > 0 && len(t.records) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}

		line, _ := reader.FieldPos(0)
		t.records = append(t.records, record{line: line, cells: rec})
	}

	return t, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
