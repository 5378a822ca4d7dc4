// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grade_calculations_total",
			Help: "Total number of grade calculation batches",
		},
		[]string{"policy", "status"},
	)

	NormalizedScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "normalized_score",
			Help:    "Distribution of normalized scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"policy"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "PDF render duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"template", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
