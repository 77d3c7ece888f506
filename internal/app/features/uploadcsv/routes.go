// internal/app/features/uploadcsv/routes.go
package uploadcsv

import (
	"github.com/dalemusser/schoolfinder/internal/app/system/auth"
	"github.com/dalemusser/schoolfinder/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin import routes (typically under "/admin/import").
// Requests are rate limited per client before the admin bearer token is
// checked, so guessing tokens is throttled too.
func Routes(h *Handler, guard *auth.Guard, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(limiter.Middleware(h.Log))
		pr.Use(guard.RequireAdmin)
		pr.Post("/regions", h.HandleRegions)
		pr.Post("/schools", h.HandleSchools)
	})
	return r
}
