package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSchool inserts a school with the given URN, name and type.
func (f *Fixtures) CreateSchool(ctx context.Context, urn, name, typ string) models.School {
	f.t.Helper()
	return f.CreateSchoolIn(ctx, urn, name, typ, "E12000007", "202")
}

// CreateSchoolIn inserts a school in the given region and local authority.
func (f *Fixtures) CreateSchoolIn(ctx context.Context, urn, name, typ, regionCode, laCode string) models.School {
	f.t.Helper()

	school := models.School{
		ID:         urn,
		Name:       name,
		NameCI:     text.Fold(name),
		Type:       typ,
		TypeCI:     text.Fold(typ),
		RegionCode: regionCode,
		LACode:     laCode,
		Postcode:   "WC1N 1AA",
		UpdatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("schools").InsertOne(ctx, school); err != nil {
		f.t.Fatalf("failed to create test school: %v", err)
	}

	return school
}

// CreateRegion inserts a region with the given sub-regions.
func (f *Fixtures) CreateRegion(ctx context.Context, code, name string, subRegions map[string]string) models.Region {
	f.t.Helper()

	if subRegions == nil {
		subRegions = map[string]string{}
	}
	region := models.Region{
		Code:       code,
		Name:       name,
		NameCI:     text.Fold(name),
		SubRegions: subRegions,
		UpdatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("regions").InsertOne(ctx, region); err != nil {
		f.t.Fatalf("failed to create test region: %v", err)
	}

	return region
}
