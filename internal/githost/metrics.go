package githost

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts content fetches.
	// Labels: outcome (content, skipped_empty, skipped_submodule, error)
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "githost",
			Name:      "fetches_total",
			Help:      "Total number of file content fetches by outcome",
		},
		[]string{"outcome"},
	)

	// ListingsTotal counts directory listing calls.
	// Labels: result (success, error)
	ListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "githost",
			Name:      "listings_total",
			Help:      "Total number of directory listing calls",
		},
		[]string{"result"},
	)
)
