package schoolquery

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestBuild_PageWindow(t *testing.T) {
	for page := 1; page <= 20; page++ {
		q := Build(Params{Page: page})
		if q.Limit != PageSize {
			t.Errorf("page %d: Limit = %d, want %d", page, q.Limit, PageSize)
		}
		if want := int64((page - 1) * 10); q.Skip != want {
			t.Errorf("page %d: Skip = %d, want %d", page, q.Skip, want)
		}
	}
	if PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", PageSize)
	}
}

func TestBuild_SkipsEmptyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
	}{
		{"nil filters", nil},
		{"empty map", Filters{}},
		{"empty eq", Filters{FieldName: {Op: OpEq, Value: ""}}},
		{"empty like", Filters{FieldType: {Op: OpLike}}},
		{"empty in", Filters{FieldType: {Op: OpIn, Values: nil}}},
		{"blank in members", Filters{FieldType: {Op: OpIn, Values: []string{"", ""}}}},
		{"whitespace in members", Filters{FieldType: {Op: OpIn, Values: []string{" ", "\t"}}}},
		{"whitespace eq", Filters{FieldName: {Op: OpEq, Value: "   "}}},
		{"whitespace like", Filters{FieldName: {Op: OpLike, Value: "\t "}}},
		{"empty gt and lt", Filters{FieldName: {Op: OpGt}, FieldType: {Op: OpLt}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Build(Params{Page: 1, Filters: tt.filters})
			if len(q.Filter) != 0 {
				t.Errorf("Filter = %v, want no predicates", q.Filter)
			}
		})
	}
}

func TestBuild_EmptyFilterDoesNotHideOthers(t *testing.T) {
	q := Build(Params{Page: 1, Filters: Filters{
		FieldName: {Op: OpEq, Value: ""},
		FieldType: {Op: OpEq, Value: "Academy converter"},
	}})

	if _, ok := q.Filter["name"]; ok {
		t.Errorf("name predicate present for empty value: %v", q.Filter)
	}
	if got := q.Filter["type"]; got != "Academy converter" {
		t.Errorf("type predicate = %v, want %q", got, "Academy converter")
	}
}

func TestBuild_Operators(t *testing.T) {
	t.Run("eq", func(t *testing.T) {
		q := Build(Params{Page: 1, Filters: Filters{FieldName: {Op: OpEq, Value: "Hill Primary"}}})
		if q.Filter["name"] != "Hill Primary" {
			t.Errorf("Filter = %v", q.Filter)
		}
	})

	t.Run("zero op means eq", func(t *testing.T) {
		q := Build(Params{Page: 1, Filters: Filters{FieldType: {Value: "Free schools"}}})
		if q.Filter["type"] != "Free schools" {
			t.Errorf("Filter = %v", q.Filter)
		}
	})

	t.Run("in", func(t *testing.T) {
		q := Build(Params{Page: 1, Filters: Filters{FieldType: {Op: OpIn, Values: []string{"A", " ", "B"}}}})
		pred, ok := q.Filter["type"].(bson.M)
		if !ok {
			t.Fatalf("type predicate = %#v, want bson.M", q.Filter["type"])
		}
		vals, ok := pred["$in"].([]string)
		if !ok || len(vals) != 2 || vals[0] != "A" || vals[1] != "B" {
			t.Errorf("$in = %#v, want [A B]", pred["$in"])
		}
	})

	t.Run("like uses folded column", func(t *testing.T) {
		q := Build(Params{Page: 1, Filters: Filters{FieldName: {Op: OpLike, Value: "St Mary"}}})
		if _, ok := q.Filter["name"]; ok {
			t.Errorf("like should not constrain the raw column: %v", q.Filter)
		}
		pred, ok := q.Filter["name_ci"].(bson.M)
		if !ok {
			t.Fatalf("name_ci predicate = %#v, want bson.M", q.Filter["name_ci"])
		}
		if pred["$gte"] != text.Fold("St Mary") {
			t.Errorf("$gte = %v, want %q", pred["$gte"], text.Fold("St Mary"))
		}
		if _, ok := pred["$lt"]; !ok {
			t.Errorf("missing $lt upper bound: %v", pred)
		}
	})

	t.Run("gt and lt", func(t *testing.T) {
		q := Build(Params{Page: 1, Filters: Filters{
			FieldName: {Op: OpGt, Value: "M"},
			FieldType: {Op: OpLt, Value: "F"},
		}})
		if p, _ := q.Filter["name"].(bson.M); p["$gt"] != "M" {
			t.Errorf("name predicate = %v", q.Filter["name"])
		}
		if p, _ := q.Filter["type"].(bson.M); p["$lt"] != "F" {
			t.Errorf("type predicate = %v", q.Filter["type"])
		}
	})
}

func TestBuild_Sort(t *testing.T) {
	tests := []struct {
		name    string
		sort    SortField
		order   Order
		wantKey string
		wantDir int
	}{
		{"default", "", "", "name_ci", 1},
		{"name descend", SortName, Descend, "name_ci", -1},
		{"name ascend", SortName, Ascend, "name_ci", 1},
		{"type descend", SortType, Descend, "type_ci", -1},
		{"unknown token ascends", SortType, "DESCEND", "type_ci", 1},
		{"garbage token ascends", SortName, "sideways", "name_ci", 1},
		{"unknown field passes through", "postcode", Descend, "postcode", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Build(Params{Page: 1, Sort: tt.sort, Order: tt.order})
			if len(q.Sort) != 1 {
				t.Fatalf("Sort = %v, want exactly one key", q.Sort)
			}
			if q.Sort[0].Key != tt.wantKey {
				t.Errorf("sort key = %q, want %q", q.Sort[0].Key, tt.wantKey)
			}
			if q.Sort[0].Value != tt.wantDir {
				t.Errorf("sort dir = %v, want %d", q.Sort[0].Value, tt.wantDir)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if Direction(Descend) != -1 {
		t.Error("descend should map to -1")
	}
	for _, o := range []Order{Ascend, "", "desc", "Descend", "x"} {
		if Direction(o) != 1 {
			t.Errorf("Direction(%q) = %d, want 1", o, Direction(o))
		}
	}
}

// fakeSource records the order of calls and returns canned results.
type fakeSource struct {
	calls    []string
	total    int64
	items    []models.School
	countErr error
	findErr  error
	opts     *options.FindOptions
}

func (f *fakeSource) Count(ctx context.Context, filter bson.M) (int64, error) {
	f.calls = append(f.calls, "count")
	return f.total, f.countErr
}

func (f *fakeSource) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.School, error) {
	f.calls = append(f.calls, "find")
	if len(opts) > 0 {
		f.opts = opts[0]
	}
	return f.items, f.findErr
}

func TestRun_CountThenFind(t *testing.T) {
	src := &fakeSource{
		total: 42,
		items: []models.School{{ID: "100001", Name: "Alpha"}, {ID: "100002", Name: "Beta"}},
	}

	page, err := Run(context.Background(), src, Params{Page: 3, Order: Descend})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(src.calls) != 2 || src.calls[0] != "count" || src.calls[1] != "find" {
		t.Errorf("calls = %v, want [count find]", src.calls)
	}
	if page.Total != 42 || page.PageSize != 10 || len(page.Items) != 2 {
		t.Errorf("page = %+v", page)
	}
	if src.opts == nil || src.opts.Skip == nil || *src.opts.Skip != 20 {
		t.Errorf("find skip = %v, want 20", src.opts.Skip)
	}
	if src.opts.Limit == nil || *src.opts.Limit != 10 {
		t.Errorf("find limit = %v, want 10", src.opts.Limit)
	}
}

func TestRun_EmptyPageIsNotNil(t *testing.T) {
	page, err := Run(context.Background(), &fakeSource{}, Params{Page: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if page.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestRun_PropagatesErrors(t *testing.T) {
	boom := errors.New("store unavailable")

	src := &fakeSource{countErr: boom}
	if _, err := Run(context.Background(), src, Params{Page: 1}); !errors.Is(err, boom) {
		t.Errorf("count error = %v, want %v", err, boom)
	}
	if len(src.calls) != 1 {
		t.Errorf("find should not run after a count failure, calls = %v", src.calls)
	}

	src = &fakeSource{findErr: boom}
	if _, err := Run(context.Background(), src, Params{Page: 1}); !errors.Is(err, boom) {
		t.Errorf("find error = %v, want %v", err, boom)
	}
}
