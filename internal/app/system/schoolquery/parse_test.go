package schoolquery

import (
	"net/http/httptest"
	"testing"
)

func TestParseParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/schools", nil)
	p := ParseParams(r)

	if p.Page != 1 {
		t.Errorf("Page = %d, want 1", p.Page)
	}
	if p.Sort != "" || p.Order != "" {
		t.Errorf("Sort/Order = %q/%q, want empty", p.Sort, p.Order)
	}
	if len(p.Filters) != 0 {
		t.Errorf("Filters = %v, want none", p.Filters)
	}
}

func TestParseParams_SortAndPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/schools?page=4&sort=type&order=descend", nil)
	p := ParseParams(r)

	if p.Page != 4 {
		t.Errorf("Page = %d, want 4", p.Page)
	}
	if p.Sort != SortType {
		t.Errorf("Sort = %q, want %q", p.Sort, SortType)
	}
	if p.Order != Descend {
		t.Errorf("Order = %q, want %q", p.Order, Descend)
	}
}

func TestParseParams_Filters(t *testing.T) {
	tests := []struct {
		name   string
		target string
		field  FilterField
		want   Condition
	}{
		{
			name:   "bare field is equality",
			target: "/schools?type=Academy",
			field:  FieldType,
			want:   Condition{Op: OpEq, Value: "Academy"},
		},
		{
			name:   "explicit eq",
			target: "/schools?name[eq]=Oak",
			field:  FieldName,
			want:   Condition{Op: OpEq, Value: "Oak"},
		},
		{
			name:   "like",
			target: "/schools?name[like]=st",
			field:  FieldName,
			want:   Condition{Op: OpLike, Value: "st"},
		},
		{
			name:   "gt",
			target: "/schools?name[gt]=M",
			field:  FieldName,
			want:   Condition{Op: OpGt, Value: "M"},
		},
		{
			name:   "lt",
			target: "/schools?type[lt]=F",
			field:  FieldType,
			want:   Condition{Op: OpLt, Value: "F"},
		},
		{
			name:   "eq wins over like",
			target: "/schools?name=Oak&name[like]=o",
			field:  FieldName,
			want:   Condition{Op: OpEq, Value: "Oak"},
		},
		{
			name:   "empty eq falls through to like",
			target: "/schools?name=&name[like]=o",
			field:  FieldName,
			want:   Condition{Op: OpLike, Value: "o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseParams(httptest.NewRequest("GET", tt.target, nil))
			got, ok := p.Filters[tt.field]
			if !ok {
				t.Fatalf("no condition for %q in %v", tt.field, p.Filters)
			}
			if got.Op != tt.want.Op || got.Value != tt.want.Value {
				t.Errorf("condition = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseParams_InList(t *testing.T) {
	r := httptest.NewRequest("GET", "/schools?type[in]=Academy,%20Free%20schools,,", nil)
	p := ParseParams(r)

	c, ok := p.Filters[FieldType]
	if !ok {
		t.Fatal("expected type condition")
	}
	if c.Op != OpIn {
		t.Errorf("Op = %q, want %q", c.Op, OpIn)
	}
	if len(c.Values) != 2 || c.Values[0] != "Academy" || c.Values[1] != "Free schools" {
		t.Errorf("Values = %#v", c.Values)
	}
}

func TestParseParams_IgnoresUnknownFieldsAndEmptyValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/schools?postcode=AB1&name=&type[in]=,", nil)
	p := ParseParams(r)

	if len(p.Filters) != 0 {
		t.Errorf("Filters = %v, want none", p.Filters)
	}
}
