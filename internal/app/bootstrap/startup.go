// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
// The region cache warmer started here is stopped in Shutdown.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Batch:  appCfg.TimeoutBatch,
	})
	cur := timeouts.Current()
	logger.Info("handler timeouts",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("batch", cur.Batch))

	if appCfg.AdminTokenHash == "" {
		logger.Warn("admin_token_hash not set; admin import routes will answer 403")
	}
	if !deps.Cache.Enabled() {
		logger.Info("redis_addr not set; region cache disabled")
	}

	// Start background workers
	deps.Warmer.Start()
	return nil
}
