// internal/app/store/schools/schoolstore.go
package schoolstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no school has the requested URN.
var ErrNotFound = errors.New("school not found")

// writeChunk bounds the number of operations sent in one BulkWrite.
const writeChunk = 1000

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schools")}
}

// UpsertResult reports how many schools an upsert inserted and replaced.
type UpsertResult struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
}

// Count returns the number of schools matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Find returns the schools matching filter. Sorting and windowing come
// from opts.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.School, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.School
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a school by URN.
func (s *Store) GetByID(ctx context.Context, urn string) (models.School, error) {
	var school models.School
	err := s.c.FindOne(ctx, bson.M{"_id": urn}).Decode(&school)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.School{}, ErrNotFound
	}
	if err != nil {
		return models.School{}, err
	}
	return school, nil
}

// UpsertMany replaces each school by URN, inserting those that do not yet
// exist. UpdatedAt is stamped on every document.
func (s *Store) UpsertMany(ctx context.Context, schools []models.School) (UpsertResult, error) {
	var result UpsertResult
	now := time.Now().UTC()

	for start := 0; start < len(schools); start += writeChunk {
		end := min(start+writeChunk, len(schools))

		writes := make([]mongo.WriteModel, 0, end-start)
		for _, school := range schools[start:end] {
			school.UpdatedAt = now
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": school.ID}).
				SetReplacement(school).
				SetUpsert(true))
		}

		res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return result, err
		}
		result.Inserted += res.UpsertedCount
		result.Updated += res.MatchedCount
	}

	return result, nil
}
