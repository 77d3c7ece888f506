// internal/app/features/regions/regions.go
package regions

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	regionstore "github.com/dalemusser/schoolfinder/internal/app/store/regions"
	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/dalemusser/schoolfinder/internal/app/system/metrics"
	"github.com/dalemusser/schoolfinder/internal/app/system/normalize"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// cacheHeader reports whether a response came from the cache.
const cacheHeader = "X-Cache"

// ServeList handles GET /regions: every region ordered by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var list []models.Region
	if h.cached(ctx, cache.RegionListKey, &list) {
		w.Header().Set(cacheHeader, "HIT")
		errorsfeature.WriteJSON(w, http.StatusOK, list)
		return
	}

	list, err := regionstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list regions failed", err, "A database error occurred.")
		return
	}
	h.store(ctx, cache.RegionListKey, list)

	w.Header().Set(cacheHeader, "MISS")
	errorsfeature.WriteJSON(w, http.StatusOK, list)
}

// ServeView handles GET /regions/{code}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	code := normalize.Code(chi.URLParam(r, "code"))
	if code == "" {
		errorsfeature.WriteError(w, http.StatusBadRequest, "missing region code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var region models.Region
	if h.cached(ctx, cache.RegionKey(code), &region) {
		w.Header().Set(cacheHeader, "HIT")
		errorsfeature.WriteJSON(w, http.StatusOK, region)
		return
	}

	region, err := regionstore.New(h.DB).GetByCode(ctx, code)
	if errors.Is(err, regionstore.ErrNotFound) {
		errorsfeature.WriteError(w, http.StatusNotFound, "region not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load region failed", err, "A database error occurred.")
		return
	}
	h.store(ctx, cache.RegionKey(code), region)

	w.Header().Set(cacheHeader, "MISS")
	errorsfeature.WriteJSON(w, http.StatusOK, region)
}

// cached looks key up in the cache. Cache failures count as misses.
func (h *Handler) cached(ctx context.Context, key string, dst any) bool {
	if !h.Cache.Enabled() {
		return false
	}
	hit, err := h.Cache.GetJSON(ctx, key, dst)
	if err != nil {
		h.Log.Warn("region cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	} else {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	}
	return hit
}

func (h *Handler) store(ctx context.Context, key string, v any) {
	if err := h.Cache.SetJSON(ctx, key, v); err != nil {
		h.Log.Warn("region cache write failed", zap.String("key", key), zap.Error(err))
	}
}
