// internal/app/features/regions/routes.go
package regions

import "github.com/go-chi/chi/v5"

// Routes mounts the public region routes (typically under "/regions").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{code}", h.ServeView)
	return r
}
