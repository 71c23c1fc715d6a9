package summarize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts generation requests.
	// Labels: section, result (success, error, empty)
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "summarize",
			Name:      "generations_total",
			Help:      "Total number of generation requests by section and result",
		},
		[]string{"section", "result"},
	)

	// GenerationDuration tracks generation latency per section.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reposcribe",
			Subsystem: "summarize",
			Name:      "generation_duration_seconds",
			Help:      "Duration of generation requests in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"section"},
	)

	// RedactionsTotal counts credentials removed from input before generation.
	// Labels: rule
	RedactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "summarize",
			Name:      "redactions_total",
			Help:      "Total number of secrets redacted from generation input by rule",
		},
		[]string{"rule"},
	)
)
