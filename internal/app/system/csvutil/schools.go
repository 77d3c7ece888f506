// internal/app/system/csvutil/schools.go
package csvutil

import (
	"io"

	norm "github.com/dalemusser/schoolfinder/internal/app/system/normalize"
)

// Column names of the establishments export.
const (
	ColURN       = "URN"
	ColName      = "EstablishmentName"
	ColType      = "TypeOfEstablishment (name)"
	ColGOR       = "GOR (code)"
	ColLA        = "LA (code)"
	ColPostcode  = "Postcode"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

// SchoolRow is one normalized line of the establishments export.
// Latitude and Longitude are left as text; the transformer decides
// whether they form a usable point.
type SchoolRow struct {
	Line       int
	URN        string
	Name       string
	Type       string
	RegionCode string
	LACode     string
	Postcode   string
	Latitude   string
	Longitude  string
}

// SchoolResult holds the rows accepted from an establishments CSV and the
// rows that were rejected.
type SchoolResult struct {
	Rows   []SchoolRow
	Errors []RowError
}

// HasErrors returns true if there are any validation errors.
func (r *SchoolResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseSchoolsCSV reads an establishments export. URN and
// EstablishmentName are required columns and must be non-empty on every
// row; the remaining columns are optional. Malformed CSV returns the
// reader's *csv.ParseError.
func ParseSchoolsCSV(r io.Reader, opts ParseOptions) (SchoolResult, error) {
	var result SchoolResult

	t, err := readTable(r, opts, []string{ColURN, ColName})
	if err != nil {
		return result, err
	}

	for _, rec := range t.records {
		row := SchoolRow{
			Line:       rec.line,
			URN:        norm.Code(t.get(rec, ColURN)),
			Name:       norm.Name(t.get(rec, ColName)),
			Type:       norm.Name(t.get(rec, ColType)),
			RegionCode: norm.Code(t.get(rec, ColGOR)),
			LACode:     norm.Code(t.get(rec, ColLA)),
			Postcode:   norm.Postcode(t.get(rec, ColPostcode)),
			Latitude:   t.get(rec, ColLatitude),
			Longitude:  t.get(rec, ColLongitude),
		}

		if row.URN == "" {
			result.Errors = append(result.Errors, RowError{Line: rec.line, Reason: "missing URN", Raw: rec.cells})
			continue
		}
		if row.Name == "" {
			result.Errors = append(result.Errors, RowError{Line: rec.line, Reason: "missing establishment name", Raw: rec.cells})
			continue
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
