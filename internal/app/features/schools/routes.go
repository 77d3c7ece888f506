// internal/app/features/schools/routes.go
package schools

import "github.com/go-chi/chi/v5"

// Routes mounts the public school routes (typically under "/schools").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	return r
}
