// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/schoolfinder/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every app-level environment variable.
const EnvPrefix = "SCHOOLFINDER"

// MinRegionCacheTTL is the shortest accepted region_cache_ttl. The cache
// warmer runs every TTL/2.
const MinRegionCacheTTL = 2 * time.Second

// appConfigKeys defines the configuration keys for the schools finder.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_addr, etc.
//   - Environment variables: SCHOOLFINDER_MONGO_URI, SCHOOLFINDER_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "schoolfinder", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Region cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the region cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "region_cache_ttl", Default: "10m", Desc: "How long cached regions live (e.g., 10m, 1h)"},

	// Admin
	{Name: "admin_token_hash", Default: "", Desc: "bcrypt hash of the admin bearer token (see schoolfinder-admin hash-token)"},
	{Name: "admin_rate_limit", Default: 30, Desc: "Admin requests allowed per client IP per minute (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for paginated list queries"},
	{Name: "timeout_batch", Default: "60s", Desc: "Timeout for CSV imports"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SCHOOLFINDER_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr:      appValues.String("redis_addr"),
		RedisPassword:  appValues.String("redis_password"),
		RedisDB:        appValues.Int("redis_db"),
		RegionCacheTTL: appValues.Duration("region_cache_ttl", 10*time.Minute),

		AdminTokenHash: appValues.String("admin_token_hash"),
		AdminRateLimit: appValues.Int("admin_rate_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutBatch:  appValues.Duration("timeout_batch", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI and the admin token hash are checked here so that a bad
// value aborts startup before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if err := auth.ValidateHash(appCfg.AdminTokenHash); err != nil {
		return fmt.Errorf("invalid admin_token_hash: %w", err)
	}
	if appCfg.AdminRateLimit < 0 {
		return fmt.Errorf("admin_rate_limit must not be negative")
	}
	if appCfg.RedisAddr != "" && appCfg.RegionCacheTTL < MinRegionCacheTTL {
		return fmt.Errorf("region_cache_ttl must be at least %s when redis_addr is set", MinRegionCacheTTL)
	}
	return nil
}
