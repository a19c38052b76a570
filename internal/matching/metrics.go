package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_scores",
			Help:    "Distribution of final match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	matchesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_matches_returned",
			Help:    "Matches returned per pipeline run",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidates_filtered_total",
			Help: "Candidates removed per pipeline stage",
		},
		[]string{"stage"},
	)
)

// RecordPipelineMetrics publishes per-run pipeline counters. Called by the
// matches service after each FindMatches run.
func RecordPipelineMetrics(result MatchResult) {
	matchesReturned.Observe(float64(len(result.Matches)))
	for _, m := range result.Matches {
		matchScores.Observe(m.MatchScore)
	}
	candidatesFiltered.WithLabelValues("query").Add(float64(result.FilteredByQuery))
	candidatesFiltered.WithLabelValues("demographics").Add(float64(result.FilteredByPrefs))
	candidatesFiltered.WithLabelValues("distance").Add(float64(result.FilteredByDistance))
	candidatesFiltered.WithLabelValues("cutoff").Add(float64(result.FilteredByCutoff))
}
