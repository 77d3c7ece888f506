// internal/app/system/csvutil/regions.go
package csvutil

import (
	"io"

	norm "github.com/dalemusser/schoolfinder/internal/app/system/normalize"
)

// Column names of the regions/local-authority lookup sheet.
const (
	ColRegion     = "REGION"
	ColRegionName = "REGION NAME"
	ColLEA        = "LEA"
	ColLAName     = "LA Name"
)

// RegionRow is one normalized line of the regions sheet.
type RegionRow struct {
	Line       int
	RegionCode string
	RegionName string
	LACode     string
	LAName     string
}

// RegionResult holds the rows accepted from a regions CSV and the rows
// that were rejected.
type RegionResult struct {
	Rows   []RegionRow
	Errors []RowError
}

// HasErrors returns true if there are any validation errors.
func (r *RegionResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseRegionsCSV reads the regions sheet. The header must contain the
// REGION, REGION NAME, LEA and LA Name columns; other columns are ignored.
// Codes are canonicalized and names are stripped of markup. Row problems
// are collected in the result rather than returned as an error.
//
// Returns ErrTooManyRows if MaxRows is exceeded (when MaxRows > 0), and the
// reader's *csv.ParseError for malformed CSV.
func ParseRegionsCSV(r io.Reader, opts ParseOptions) (RegionResult, error) {
	var result RegionResult

	t, err := readTable(r, opts, []string{ColRegion, ColRegionName, ColLEA, ColLAName})
	if err != nil {
		return result, err
	}

	for _, rec := range t.records {
		row := RegionRow{
			Line:       rec.line,
			RegionCode: norm.Code(t.get(rec, ColRegion)),
			RegionName: norm.Name(t.get(rec, ColRegionName)),
			LACode:     norm.Code(t.get(rec, ColLEA)),
			LAName:     norm.Name(t.get(rec, ColLAName)),
		}

		switch {
		case row.RegionCode == "":
			result.Errors = append(result.Errors, RowError{Line: rec.line, Reason: "missing region code", Raw: rec.cells})
			continue
		case row.LACode == "":
			result.Errors = append(result.Errors, RowError{Line: rec.line, Reason: "missing LEA code", Raw: rec.cells})
			continue
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
