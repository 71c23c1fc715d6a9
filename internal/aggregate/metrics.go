package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts aggregation runs.
	// Labels: result (success, error, no_files)
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "aggregate",
			Name:      "runs_total",
			Help:      "Total number of aggregation runs by result",
		},
		[]string{"result"},
	)

	// RunDuration tracks the fetch phase of an aggregation.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reposcribe",
			Subsystem: "aggregate",
			Name:      "run_duration_seconds",
			Help:      "Duration of aggregation fetch fan-outs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// SkippedTotal counts files left out of a blob.
	// Labels: reason (skipped_empty, skipped_submodule)
	SkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reposcribe",
			Subsystem: "aggregate",
			Name:      "skipped_files_total",
			Help:      "Total number of files skipped during aggregation",
		},
		[]string{"reason"},
	)
)
