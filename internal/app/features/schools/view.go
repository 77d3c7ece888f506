// internal/app/features/schools/view.go
package schools

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	schoolstore "github.com/dalemusser/schoolfinder/internal/app/store/schools"
	"github.com/dalemusser/schoolfinder/internal/app/system/normalize"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeView handles GET /schools/{id}, where id is the URN.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	urn := normalize.Code(chi.URLParam(r, "id"))
	if urn == "" {
		errorsfeature.WriteError(w, http.StatusBadRequest, "missing school id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	school, err := schoolstore.New(h.DB).GetByID(ctx, urn)
	if errors.Is(err, schoolstore.ErrNotFound) {
		errorsfeature.WriteError(w, http.StatusNotFound, "school not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load school failed", err, "A database error occurred.")
		return
	}

	errorsfeature.WriteJSON(w, http.StatusOK, school)
}
