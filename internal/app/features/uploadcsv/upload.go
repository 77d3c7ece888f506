// internal/app/features/uploadcsv/upload.go
package uploadcsv

import (
	"encoding/csv"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	"github.com/dalemusser/schoolfinder/internal/app/system/csvutil"
	"github.com/dalemusser/schoolfinder/internal/app/system/imports"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const tooLargeMsg = "CSV file is too large. Maximum size is 20 MB."

// HandleRegions handles POST /admin/import/regions.
func (h *Handler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, imports.KindRegions)
}

// HandleSchools handles POST /admin/import/schools.
func (h *Handler) HandleSchools(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, imports.KindSchools)
}

// handle accepts the sheet either as the raw request body (text/csv) or as
// the multipart field "file". With ?dry_run=true the sheet is parsed and
// transformed but nothing is written.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request, kind string) {
	// Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)

	body, err := csvBody(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorsfeature.WriteError(w, http.StatusRequestEntityTooLarge, tooLargeMsg)
			return
		}
		errorsfeature.WriteError(w, http.StatusBadRequest, `CSV file is required in form field "file".`)
		return
	}
	defer body.Close()

	dryRun, _ := strconv.ParseBool(query.Get(r, "dry_run"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, kind+" import")
	defer cancel()

	var sum imports.Summary
	switch {
	case dryRun && kind == imports.KindRegions:
		sum, _, err = h.Importer.PrepareRegions(body)
	case dryRun:
		sum, _, err = h.Importer.PrepareSchools(body)
	case kind == imports.KindRegions:
		sum, err = h.Importer.ImportRegions(ctx, body)
	default:
		sum, err = h.Importer.ImportSchools(ctx, body)
	}
	sum.DryRun = dryRun

	var parseErr *csv.ParseError
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		errorsfeature.WriteJSON(w, http.StatusOK, sum)
	case errors.Is(err, imports.ErrRejected):
		h.Log.Info("import rejected",
			zap.String("kind", kind),
			zap.Int("rows", sum.Rows),
			zap.Int("errors", len(sum.Errors)))
		errorsfeature.WriteJSON(w, http.StatusUnprocessableEntity, sum)
	case errors.As(err, &tooLarge):
		errorsfeature.WriteError(w, http.StatusRequestEntityTooLarge, tooLargeMsg)
	case errors.Is(err, csvutil.ErrMissingColumns),
		errors.Is(err, csvutil.ErrTooManyRows),
		errors.As(err, &parseErr):
		errorsfeature.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, kind+" import failed", err, "The import could not be saved.")
	}
}

// csvBody returns the uploaded sheet from a multipart form or the raw body.
func csvBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}
