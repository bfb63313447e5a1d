package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agenda"

var (
	once sync.Once

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Count of dashboard fetches by stream and outcome.",
		},
		[]string{"stream", "outcome"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of dashboard fetches.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"stream"},
	)

	staleResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Count of fetch results discarded because a newer selection superseded them.",
		},
		[]string{"stream"},
	)

	rejectedSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_selections_total",
			Help:      "Count of calendar selections rejected by reason.",
		},
		[]string{"reason"},
	)

	droppedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_records_total",
			Help:      "Count of malformed records dropped from API responses.",
		},
		[]string{"kind"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_cache_lookups_total",
			Help:      "Count of API cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(fetchTotal, fetchDuration, staleResults, rejectedSelections, droppedRecords, cacheLookups)
	})
}

func IncFetch(stream, outcome string) {
	fetchTotal.WithLabelValues(stream, outcome).Inc()
}

func ObserveFetchDuration(stream string, seconds float64) {
	fetchDuration.WithLabelValues(stream).Observe(seconds)
}

func IncStale(stream string) {
	staleResults.WithLabelValues(stream).Inc()
}

func IncRejected(reason string) {
	rejectedSelections.WithLabelValues(reason).Inc()
}

func AddDropped(kind string, n int) {
	if n > 0 {
		droppedRecords.WithLabelValues(kind).Add(float64(n))
	}
}

func IncCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
