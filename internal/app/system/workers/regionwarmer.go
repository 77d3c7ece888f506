// internal/app/system/workers/regionwarmer.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/schoolfinder/internal/app/system/cache"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"go.uber.org/zap"
)

// RegionLister loads every region in display order.
type RegionLister interface {
	List(ctx context.Context) ([]models.Region, error)
}

// JSONSetter stores a value in the cache.
type JSONSetter interface {
	SetJSON(ctx context.Context, key string, v any) error
}

// RegionCacheWarmer is a background worker that reloads the region cache
// so that entries are refreshed before their TTL runs out.
type RegionCacheWarmer struct {
	regions  RegionLister
	cache    JSONSetter
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// MinInterval is the shortest refresh interval a warmer will use.
const MinInterval = time.Second

// NewRegionCacheWarmer creates a new warmer. interval is normally half the
// cache TTL; anything shorter than MinInterval is raised to it.
func NewRegionCacheWarmer(regions RegionLister, c JSONSetter, logger *zap.Logger, interval time.Duration) *RegionCacheWarmer {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &RegionCacheWarmer{
		regions:  regions,
		cache:    c,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start warms the cache once and then begins the background refresh loop.
// A nil warmer does nothing.
func (w *RegionCacheWarmer) Start() {
	if w == nil {
		return
	}
	w.wg.Add(1)
	go w.run()
	w.log.Info("region cache warmer started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *RegionCacheWarmer) Stop() {
	if w == nil {
		return
	}
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("region cache warmer stopped")
}

func (w *RegionCacheWarmer) run() {
	defer w.wg.Done()

	w.Warm()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Warm()
		}
	}
}

// Warm loads all regions and writes the list entry and one entry per region.
// It returns the number of regions cached.
func (w *RegionCacheWarmer) Warm() int {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	list, err := w.regions.List(ctx)
	if err != nil {
		w.log.Error("region cache warm: list failed", zap.Error(err))
		return 0
	}
	if err := w.cache.SetJSON(ctx, cache.RegionListKey, list); err != nil {
		w.log.Warn("region cache warm: set list failed", zap.Error(err))
		return 0
	}
	for _, r := range list {
		if err := w.cache.SetJSON(ctx, cache.RegionKey(r.Code), r); err != nil {
			w.log.Warn("region cache warm: set region failed",
				zap.String("code", r.Code), zap.Error(err))
			return 0
		}
	}
	w.log.Debug("region cache warmed", zap.Int("regions", len(list)))
	return len(list)
}
