package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clustersnap_run_duration_seconds",
			Help:    "Time taken by a complete collection run",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustersnap_runs_total",
			Help: "Total collection run attempts",
		},
		[]string{"status"}, // completed, canceled, fatal
	)

	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clustersnap_task_duration_seconds",
			Help:    "Time taken by individual collection tasks",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"task"},
	)

	artifactOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustersnap_artifacts_total",
			Help: "Collected artifacts by task and outcome",
		},
		[]string{"task", "outcome"},
	)
)
