package schoolstore_test

import (
	"errors"
	"testing"

	schoolstore "github.com/dalemusser/schoolfinder/internal/app/store/schools"
	"github.com/dalemusser/schoolfinder/internal/app/system/schoolquery"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/dalemusser/schoolfinder/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateSchool(ctx, "100000", "The Aldgate School", "Voluntary aided school")

	got, err := store.GetByID(ctx, "100000")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "The Aldgate School" {
		t.Errorf("Name: got %q", got.Name)
	}

	if _, err := store.GetByID(ctx, "999999"); !errors.Is(err, schoolstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpsertMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	batch := []models.School{
		{ID: "1", Name: "Alpha", NameCI: text.Fold("Alpha")},
		{ID: "2", Name: "Beta", NameCI: text.Fold("Beta")},
	}
	res, err := store.UpsertMany(ctx, batch)
	if err != nil {
		t.Fatalf("UpsertMany failed: %v", err)
	}
	if res.Inserted != 2 || res.Updated != 0 {
		t.Errorf("first upsert: got %+v", res)
	}

	batch[0].Name = "Alpha Academy"
	res, err = store.UpsertMany(ctx, batch[:1])
	if err != nil {
		t.Fatalf("second UpsertMany failed: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 1 {
		t.Errorf("second upsert: got %+v", res)
	}

	got, err := store.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Alpha Academy" {
		t.Errorf("Name after replace: got %q", got.Name)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStore_UpsertMany_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := store.UpsertMany(ctx, nil)
	if err != nil {
		t.Fatalf("UpsertMany failed: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 0 {
		t.Errorf("got %+v", res)
	}
}

func TestStore_RunListQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateSchool(ctx, "1", "Ashford Primary", "Community school")
	fixtures.CreateSchool(ctx, "2", "Ashgrove Academy", "Academy converter")
	fixtures.CreateSchool(ctx, "3", "Beacon High", "Community school")
	fixtures.CreateSchool(ctx, "4", "Cedars Primary", "Foundation school")
	for i := 0; i < 12; i++ {
		fixtures.CreateSchool(ctx, "z"+string(rune('a'+i)), "Zeta "+string(rune('A'+i)), "Free schools")
	}

	tests := []struct {
		name      string
		params    schoolquery.Params
		wantTotal int64
		wantFirst string
		wantItems int
	}{
		{
			name:      "first page default sort",
			params:    schoolquery.Params{Page: 1},
			wantTotal: 16,
			wantFirst: "Ashford Primary",
			wantItems: 10,
		},
		{
			name:      "second page",
			params:    schoolquery.Params{Page: 2},
			wantTotal: 16,
			wantFirst: "Zeta G",
			wantItems: 6,
		},
		{
			name: "like is case insensitive prefix",
			params: schoolquery.Params{Page: 1, Filters: schoolquery.Filters{
				schoolquery.FieldName: {Op: schoolquery.OpLike, Value: "ASH"},
			}},
			wantTotal: 2,
			wantFirst: "Ashford Primary",
			wantItems: 2,
		},
		{
			name: "eq on type, descending",
			params: schoolquery.Params{Page: 1, Order: schoolquery.Descend, Filters: schoolquery.Filters{
				schoolquery.FieldType: {Op: schoolquery.OpEq, Value: "Community school"},
			}},
			wantTotal: 2,
			wantFirst: "Beacon High",
			wantItems: 2,
		},
		{
			name: "in on type",
			params: schoolquery.Params{Page: 1, Filters: schoolquery.Filters{
				schoolquery.FieldType: {Op: schoolquery.OpIn, Values: []string{"Academy converter", "Foundation school"}},
			}},
			wantTotal: 2,
			wantFirst: "Ashgrove Academy",
			wantItems: 2,
		},
		{
			name: "empty filter value is ignored",
			params: schoolquery.Params{Page: 1, Filters: schoolquery.Filters{
				schoolquery.FieldName: {Op: schoolquery.OpEq, Value: ""},
			}},
			wantTotal: 16,
			wantFirst: "Ashford Primary",
			wantItems: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := schoolquery.Run(ctx, store, tt.params)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("Total: got %d, want %d", page.Total, tt.wantTotal)
			}
			if len(page.Items) != tt.wantItems {
				t.Fatalf("Items: got %d, want %d", len(page.Items), tt.wantItems)
			}
			if page.Items[0].Name != tt.wantFirst {
				t.Errorf("first item: got %q, want %q", page.Items[0].Name, tt.wantFirst)
			}
			if page.PageSize != schoolquery.PageSize {
				t.Errorf("PageSize: got %d", page.PageSize)
			}
		})
	}
}

func TestStore_NegativeSkipErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := schoolquery.Run(ctx, store, schoolquery.Params{Page: 0}); err == nil {
		t.Error("expected an error for page 0 (negative skip)")
	}
}

func TestStore_Count(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := schoolstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateSchoolIn(ctx, "1", "One", "Academy", "E12000001", "841")
	fixtures.CreateSchoolIn(ctx, "2", "Two", "Academy", "E12000007", "202")

	n, err := store.Count(ctx, bson.M{"region_code": "E12000001"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}
