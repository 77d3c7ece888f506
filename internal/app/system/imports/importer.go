// internal/app/system/imports/importer.go
package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	regionstore "github.com/dalemusser/schoolfinder/internal/app/store/regions"
	schoolstore "github.com/dalemusser/schoolfinder/internal/app/store/schools"
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/dalemusser/schoolfinder/internal/app/system/csvutil"
	"github.com/dalemusser/schoolfinder/internal/app/system/metrics"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrRejected is returned when any row of an upload fails validation.
// Nothing is written in that case; the Summary lists the failing rows.
var ErrRejected = errors.New("import rejected: some rows are invalid")

// Import kinds, used in summaries and metric labels.
const (
	KindRegions = "regions"
	KindSchools = "schools"
)

// RegionWriter persists a batch of regions.
type RegionWriter interface {
	UpsertBatch(ctx context.Context, regions []models.Region) (int64, error)
}

// SchoolWriter persists a batch of schools.
type SchoolWriter interface {
	UpsertMany(ctx context.Context, schools []models.School) (schoolstore.UpsertResult, error)
}

// Invalidator drops cached entries.
type Invalidator interface {
	Del(ctx context.Context, keys ...string) error
}

// Summary reports one import run.
type Summary struct {
	Batch    string             `json:"batch"`
	Kind     string             `json:"kind"`
	Rows     int                `json:"rows"`
	Records  int                `json:"records"`
	Inserted int64              `json:"inserted"`
	DryRun   bool               `json:"dryRun,omitempty"`
	Errors   []csvutil.RowError `json:"errors"`
}

// Importer runs parse, transform and upsert for region and school sheets.
type Importer struct {
	Regions RegionWriter
	Schools SchoolWriter
	Cache   Invalidator
	Options csvutil.ParseOptions
	Log     *zap.Logger
}

// New wires an Importer to the Mongo stores and the region cache.
// c may be nil when no cache is configured.
func New(db *mongo.Database, c *cache.Cache, logger *zap.Logger) *Importer {
	return &Importer{
		Regions: regionstore.New(db),
		Schools: schoolstore.New(db),
		Cache:   c,
		Options: csvutil.DefaultParseOptions(),
		Log:     logger,
	}
}

// PrepareRegions parses and transforms a regions sheet without writing.
// Each region is stamped with a fresh batch id.
func (im *Importer) PrepareRegions(r io.Reader) (Summary, []models.Region, error) {
	sum := Summary{Batch: uuid.NewString(), Kind: KindRegions, Errors: []csvutil.RowError{}}

	res, err := csvutil.ParseRegionsCSV(r, im.Options)
	if err != nil {
		return sum, nil, fmt.Errorf("parse regions csv: %w", err)
	}
	sum.Rows = len(res.Rows) + len(res.Errors)
	if res.HasErrors() {
		sum.Errors = res.Errors
		return sum, nil, ErrRejected
	}

	regions := TransformRegions(res.Rows)
	for i := range regions {
		regions[i].ImportBatch = sum.Batch
	}
	sum.Records = len(regions)
	return sum, regions, nil
}

// PrepareSchools parses and transforms an establishments export without
// writing.
func (im *Importer) PrepareSchools(r io.Reader) (Summary, []models.School, error) {
	sum := Summary{Batch: uuid.NewString(), Kind: KindSchools, Errors: []csvutil.RowError{}}

	res, err := csvutil.ParseSchoolsCSV(r, im.Options)
	if err != nil {
		return sum, nil, fmt.Errorf("parse schools csv: %w", err)
	}
	sum.Rows = len(res.Rows) + len(res.Errors)
	if res.HasErrors() {
		sum.Errors = res.Errors
		return sum, nil, ErrRejected
	}

	schools := TransformSchools(res.Rows)
	for i := range schools {
		schools[i].ImportBatch = sum.Batch
	}
	sum.Records = len(schools)
	return sum, schools, nil
}

// ImportRegions parses, transforms and upserts a regions sheet, then drops
// the cached region list and every cached region the batch touched.
func (im *Importer) ImportRegions(ctx context.Context, r io.Reader) (Summary, error) {
	start := time.Now()
	defer func() {
		metrics.ImportDuration.WithLabelValues(KindRegions).Observe(time.Since(start).Seconds())
	}()

	sum, regions, err := im.PrepareRegions(r)
	if err != nil {
		im.countRows(sum, err)
		return sum, err
	}

	inserted, err := im.Regions.UpsertBatch(ctx, regions)
	if err != nil {
		im.countRows(sum, err)
		return sum, fmt.Errorf("upsert regions: %w", err)
	}
	sum.Inserted = inserted
	im.countRows(sum, nil)

	keys := make([]string, 0, len(regions)+1)
	keys = append(keys, cache.RegionListKey)
	for _, region := range regions {
		keys = append(keys, cache.RegionKey(region.Code))
	}
	if im.Cache != nil {
		if err := im.Cache.Del(ctx, keys...); err != nil {
			// Entries expire on their own; a stale read is not fatal.
			im.Log.Warn("region cache invalidation failed", zap.Error(err))
		}
	}

	im.Log.Info("regions imported",
		zap.String("batch", sum.Batch),
		zap.Int("rows", sum.Rows),
		zap.Int("regions", sum.Records),
		zap.Int64("inserted", sum.Inserted))
	return sum, nil
}

// ImportSchools parses, transforms and upserts an establishments export.
func (im *Importer) ImportSchools(ctx context.Context, r io.Reader) (Summary, error) {
	start := time.Now()
	defer func() {
		metrics.ImportDuration.WithLabelValues(KindSchools).Observe(time.Since(start).Seconds())
	}()

	sum, schools, err := im.PrepareSchools(r)
	if err != nil {
		im.countRows(sum, err)
		return sum, err
	}

	res, err := im.Schools.UpsertMany(ctx, schools)
	if err != nil {
		im.countRows(sum, err)
		return sum, fmt.Errorf("upsert schools: %w", err)
	}
	sum.Inserted = res.Inserted
	im.countRows(sum, nil)

	im.Log.Info("schools imported",
		zap.String("batch", sum.Batch),
		zap.Int("rows", sum.Rows),
		zap.Int("schools", sum.Records),
		zap.Int64("inserted", res.Inserted),
		zap.Int64("updated", res.Updated))
	return sum, nil
}

func (im *Importer) countRows(sum Summary, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrRejected):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.ImportRows.WithLabelValues(sum.Kind, outcome).Add(float64(sum.Rows))
}
