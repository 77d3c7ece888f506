// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	regionstore "github.com/dalemusser/schoolfinder/internal/app/store/regions"
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/dalemusser/schoolfinder/internal/app/system/indexes"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/schoolfinder/internal/app/system/validators"
	"github.com/dalemusser/schoolfinder/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// connectTimeout bounds the initial Mongo handshake.
const connectTimeout = 10 * time.Second

// ConnectDB opens the Mongo client and, when configured, the Redis cache.
// Redis being unreachable is logged but not fatal: region reads fall back
// to Mongo.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := ConnectMongo(ctx, appCfg.MongoURI, appCfg.MongoMaxPoolSize, appCfg.MongoMinPoolSize)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	deps.Cache = cache.New(cache.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
		TTL:      appCfg.RegionCacheTTL,
	})
	if deps.Cache.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		if err := deps.Cache.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable at startup; continuing without warm cache",
				zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		}
		deps.Warmer = workers.NewRegionCacheWarmer(
			regionstore.New(deps.MongoDatabase), deps.Cache, logger, appCfg.RegionCacheTTL/2)
	}

	return deps, nil
}

// ConnectMongo connects and pings a Mongo client. Pool sizes of zero keep
// the driver defaults.
func ConnectMongo(ctx context.Context, uri string, maxPool, minPool uint64) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri)
	if maxPool > 0 {
		opts.SetMaxPoolSize(maxPool)
	}
	if minPool > 0 {
		opts.SetMinPoolSize(minPool)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureSchema creates the collections with their validators, then
// reconciles the indexes the list queries rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
