// internal/app/system/schoolquery/build.go
package schoolquery

import (
	"context"
	"strings"

	"github.com/dalemusser/schoolfinder/internal/app/system/paging"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Query is a built school list query, ready to hand to the store.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// FindOptions converts the query's window and ordering into Mongo find options.
func (q Query) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
}

// Source is the store surface a list query runs against.
type Source interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.School, error)
}

// Build turns list parameters into a filter document, a single sort key and
// an offset/limit window. Conditions with empty operands are skipped.
// Page is not validated.
func Build(p Params) Query {
	filter := bson.M{}
	for _, field := range FilterFields {
		cond, ok := p.Filters[field]
		if !ok || cond.Empty() {
			continue
		}
		key, pred, ok := predicate(field, cond)
		if !ok {
			continue
		}
		filter[key] = pred
	}

	return Query{
		Filter: filter,
		Sort:   bson.D{{Key: SortKey(p.Sort), Value: Direction(p.Order)}},
		Skip:   paging.Offset(p.Page, PageSize),
		Limit:  PageSize,
	}
}

// Run counts the matching schools and then fetches the requested page.
//
// The count and the fetch are separate round trips with no snapshot between
// them, so a concurrent write can make Total disagree with Items. Store
// errors are returned unchanged.
func Run(ctx context.Context, src Source, p Params) (Page, error) {
	q := Build(p)

	total, err := src.Count(ctx, q.Filter)
	if err != nil {
		return Page{}, err
	}

	items, err := src.Find(ctx, q.Filter, q.FindOptions())
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []models.School{}
	}

	return Page{Items: items, Total: total, PageSize: PageSize}, nil
}

// SortKey maps a sort field to the stored column it orders by. Known fields
// sort on their folded column; anything else is used verbatim, and an empty
// field falls back to name.
func SortKey(f SortField) string {
	switch f {
	case "", SortName:
		return "name_ci"
	case SortType:
		return "type_ci"
	default:
		return string(f)
	}
}

// Direction maps an order token to a Mongo sort direction: "descend" is -1,
// every other token is 1.
func Direction(o Order) int {
	if o == Descend {
		return -1
	}
	return 1
}

func predicate(field FilterField, c Condition) (string, any, bool) {
	key := string(field)
	switch c.Op {
	case OpIn:
		vals := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		return key, bson.M{"$in": vals}, true
	case OpLike:
		lo, hi := text.PrefixRange(text.Fold(c.Value))
		if lo == "" {
			return "", nil, false
		}
		return key + "_ci", bson.M{"$gte": lo, "$lt": hi}, true
	case OpGt:
		return key, bson.M{"$gt": c.Value}, true
	case OpLt:
		return key, bson.M{"$lt": c.Value}, true
	default:
		return key, c.Value, true
	}
}
