// internal/app/system/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchoolQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolfinder_school_queries_total",
			Help: "Total number of school list queries by outcome",
		},
		[]string{"outcome"},
	)

	SchoolQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schoolfinder_school_query_duration_seconds",
			Help:    "Duration of school list queries (count plus page fetch) in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sort"}, // bounded by SortLabel
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolfinder_cache_lookups_total",
			Help: "Total number of region cache lookups by result",
		},
		[]string{"result"},
	)

	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolfinder_import_rows_total",
			Help: "Total number of CSV rows seen by import kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schoolfinder_import_duration_seconds",
			Help:    "Duration of import runs in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	CacheHit        = "hit"
	CacheMiss       = "miss"
)

// Sort labels. Unknown sort fields reach the store unchanged but share one
// label so request input cannot grow the series set.
const (
	SortLabelName  = "name_ci"
	SortLabelType  = "type_ci"
	SortLabelOther = "other"
)

// SortLabel maps a stored sort column to its metric label.
func SortLabel(key string) string {
	switch key {
	case SortLabelName, SortLabelType:
		return key
	default:
		return SortLabelOther
	}
}
