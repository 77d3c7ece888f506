// internal/app/features/regions/handler.go
package regions

import (
	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves regions from Mongo through the Redis read-through cache.
// Cache may be nil, in which case every request reads Mongo.
type Handler struct {
	DB     *mongo.Database
	Cache  *cache.Cache
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a regions Handler.
func NewHandler(db *mongo.Database, c *cache.Cache, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Cache:  c,
		ErrLog: errLog,
		Log:    logger,
	}
}
