// internal/app/features/schools/list.go
package schools

import (
	"context"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	schoolstore "github.com/dalemusser/schoolfinder/internal/app/store/schools"
	"github.com/dalemusser/schoolfinder/internal/app/system/metrics"
	"github.com/dalemusser/schoolfinder/internal/app/system/paging"
	"github.com/dalemusser/schoolfinder/internal/app/system/schoolquery"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList handles GET /schools.
//
//	?page=2&sort=type&order=descend&name[like]=st&type[in]=Academy,Free schools
//
// Responds with one page of schools plus the total match count.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	params := schoolquery.ParseParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	start := time.Now()
	page, err := schoolquery.Run(ctx, schoolstore.New(h.DB), params)
	metrics.SchoolQueryDuration.WithLabelValues(metrics.SortLabel(schoolquery.SortKey(params.Sort))).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SchoolQueries.WithLabelValues(metrics.OutcomeError).Inc()
		h.ErrLog.LogServerError(w, r, "list schools failed", err, "A database error occurred.")
		return
	}
	metrics.SchoolQueries.WithLabelValues(metrics.OutcomeOK).Inc()

	h.Log.Debug("schools listed",
		zap.Int("page", params.Page),
		zap.Int("filters", len(params.Filters)),
		zap.Int64("total", page.Total))

	errorsfeature.WriteJSON(w, http.StatusOK, listResponse{
		Items:      page.Items,
		Total:      page.Total,
		PageSize:   page.PageSize,
		Page:       params.Page,
		TotalPages: paging.TotalPages(page.Total, page.PageSize),
	})
}
