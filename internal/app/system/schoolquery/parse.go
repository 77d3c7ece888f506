// internal/app/system/schoolquery/parse.go
package schoolquery

import (
	"net/http"
	"strings"

	"github.com/dalemusser/schoolfinder/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
)

// ParseParams reads list parameters from a request:
//
//	?page=2&sort=name&order=descend&type=Academy&name[like]=st
//
// A bare field name means equality; field[op] selects another operator and
// field[in] takes a comma-separated list. When several operators are given
// for one field, the first non-empty one in Ops order wins.
func ParseParams(r *http.Request) Params {
	p := Params{
		Page:    paging.ParsePage(r),
		Sort:    SortField(query.Get(r, "sort")),
		Order:   Order(query.Get(r, "order")),
		Filters: Filters{},
	}

	for _, field := range FilterFields {
		for _, op := range Ops {
			cond := Condition{Op: op}
			raw := query.Get(r, paramKey(field, op))
			if op == OpEq && raw == "" {
				raw = query.Get(r, string(field))
			}
			if op == OpIn {
				cond.Values = splitList(raw)
			} else {
				cond.Value = raw
			}
			if !cond.Empty() {
				p.Filters[field] = cond
				break
			}
		}
	}

	return p
}

func paramKey(field FilterField, op Op) string {
	return string(field) + "[" + string(op) + "]"
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
