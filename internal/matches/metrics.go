package matches

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	findRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_find_requests_total",
			Help: "Total find-matches requests served",
		},
	)

	findDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matches_find_duration_seconds",
			Help:    "End-to-end find-matches latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	resultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matches_results_returned",
			Help:    "Results returned per find-matches request",
			Buckets: prometheus.LinearBuckets(0, 5, 21),
		},
	)

	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_events_total",
			Help: "Match events recorded, by type",
		},
		[]string{"type"},
	)
)

func recordFindMatches(results int, elapsed time.Duration) {
	findRequestsTotal.Inc()
	findDuration.Observe(elapsed.Seconds())
	resultsReturned.Observe(float64(results))
}

func recordEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}
