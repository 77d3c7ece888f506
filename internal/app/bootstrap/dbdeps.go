// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/dalemusser/schoolfinder/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Cache and Warmer are nil when no Redis address is configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Cache         *cache.Cache
	Warmer        *workers.RegionCacheWarmer
}
