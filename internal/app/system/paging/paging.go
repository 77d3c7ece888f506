// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present, malformed, or below 1.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset returns the number of rows to skip to reach page.
// page is not validated: a page below 1 yields a negative offset and the
// caller is expected to have parsed it with ParsePage.
func Offset(page, pageSize int) int64 {
	return int64(page-1) * int64(pageSize)
}

// Range holds computed display values for an offset-paginated list.
type Range struct {
	Start      int  // 1-based index of the first row shown (0 if none)
	End        int  // 1-based index of the last row shown (0 if none)
	TotalPages int  // number of pages for the given total
	HasPrev    bool // a page before this one exists
	HasNext    bool // a page after this one exists
}

// ComputeRange calculates display range values for the given page, the
// number of rows actually returned, and the reported total.
//
// total and shown come from separate store calls, so they are not assumed
// to agree; HasNext is based on total alone.
func ComputeRange(page, pageSize, shown int, total int64) Range {
	rng := Range{
		TotalPages: TotalPages(total, pageSize),
		HasPrev:    page > 1,
	}
	rng.HasNext = page < rng.TotalPages
	if shown == 0 {
		return rng
	}
	off := int(Offset(page, pageSize))
	rng.Start = off + 1
	rng.End = off + shown
	return rng
}

// TotalPages returns the page count needed for total rows.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
