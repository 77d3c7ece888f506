// internal/app/system/schoolquery/types.go
package schoolquery

import (
	"strings"

	"github.com/dalemusser/schoolfinder/internal/domain/models"
)

// PageSize is the fixed number of schools returned per page.
const PageSize = 10

// FilterField is a school field that list queries may filter on.
type FilterField string

const (
	FieldName FilterField = "name"
	FieldType FilterField = "type"
)

// FilterFields lists every filterable field in the order filters are applied.
var FilterFields = []FilterField{FieldName, FieldType}

// Op is a filter comparison operator.
type Op string

const (
	OpEq   Op = "eq"
	OpIn   Op = "in"
	OpLike Op = "like" // case/diacritic-insensitive prefix match
	OpGt   Op = "gt"
	OpLt   Op = "lt"
)

// Ops lists the supported operators in the order they are looked up in a
// request query string.
var Ops = []Op{OpEq, OpIn, OpLike, OpGt, OpLt}

// Condition pairs an operator with its operand. Values is used by OpIn,
// Value by every other operator.
type Condition struct {
	Op     Op
	Value  string
	Values []string
}

// Empty reports whether the condition carries no usable operand.
// Whitespace-only operands count as empty.
func (c Condition) Empty() bool {
	if c.Op == OpIn {
		for _, v := range c.Values {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(c.Value) == ""
}

// Filters holds at most one condition per filterable field.
type Filters map[FilterField]Condition

// SortField names the field a page is ordered by. Values outside the known
// constants are passed to the store as-is.
type SortField string

const (
	SortName SortField = "name"
	SortType SortField = "type"
)

// Order is the sort direction token sent by clients.
type Order string

const (
	Ascend  Order = "ascend"
	Descend Order = "descend"
)

// Params is the input to a school list query.
type Params struct {
	Page    int
	Sort    SortField
	Order   Order
	Filters Filters
}

// Page is one page of schools plus the total matching count.
type Page struct {
	Items    []models.School `json:"items"`
	Total    int64           `json:"total"`
	PageSize int             `json:"pageSize"`
}
