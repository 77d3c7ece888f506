// internal/app/store/regions/regionstore.go
package regionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no region has the requested code.
var ErrNotFound = errors.New("region not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("regions")}
}

// UpsertBatch writes a transformed batch of regions. Each region replaces
// any stored region with the same code, so a re-import of a sheet leaves
// exactly the sub-regions it lists. Returns the number of regions inserted.
func (s *Store) UpsertBatch(ctx context.Context, regions []models.Region) (int64, error) {
	if len(regions) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(regions))
	for _, region := range regions {
		region.UpdatedAt = now
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": region.Code}).
			SetReplacement(region).
			SetUpsert(true))
	}

	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, err
	}
	return res.UpsertedCount, nil
}

// List returns every region ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Region, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Region
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Region{}
	}
	return out, nil
}

// GetByCode loads a region by its code.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Region, error) {
	var region models.Region
	err := s.c.FindOne(ctx, bson.M{"_id": code}).Decode(&region)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Region{}, ErrNotFound
	}
	if err != nil {
		return models.Region{}, err
	}
	return region, nil
}
