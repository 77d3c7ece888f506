// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	healthfeature "github.com/dalemusser/schoolfinder/internal/app/features/health"
	regionsfeature "github.com/dalemusser/schoolfinder/internal/app/features/regions"
	schoolsfeature "github.com/dalemusser/schoolfinder/internal/app/features/schools"
	uploadfeature "github.com/dalemusser/schoolfinder/internal/app/features/uploadcsv"
	"github.com/dalemusser/schoolfinder/internal/app/system/auth"
	"github.com/dalemusser/schoolfinder/internal/app/system/imports"
	"github.com/dalemusser/schoolfinder/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It mounts the public read API, the
// admin import routes behind the bearer-token guard, and the operational
// endpoints (/health, /metrics).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	// No RealIP: the admin rate limiter keys on the TCP peer, and forwarding
	// headers are client-controlled.
	r.Use(middleware.RequestID)
	r.Use(errLog.Recoverer)
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Cache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus exposition
	r.Handle("/metrics", promhttp.Handler())

	// Public read API
	schoolsHandler := schoolsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/schools", schoolsfeature.Routes(schoolsHandler))

	regionsHandler := regionsfeature.NewHandler(deps.MongoDatabase, deps.Cache, errLog, logger)
	r.Mount("/regions", regionsfeature.Routes(regionsHandler))

	// Admin imports
	guard := auth.NewGuard(appCfg.AdminTokenHash, logger)
	importer := imports.New(deps.MongoDatabase, deps.Cache, logger)
	uploadHandler := uploadfeature.NewHandler(importer, errLog, logger)
	limiter := ratelimit.New(appCfg.AdminRateLimit, time.Minute)
	r.Mount("/admin/import", uploadfeature.Routes(uploadHandler, guard, limiter))

	return r, nil
}
