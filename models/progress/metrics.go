package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_progress_transitions_total",
		Help: "Total progress transitions by operation",
	}, []string{"operation"})

	tripsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_progress_trips_completed_total",
		Help: "Total trips driven to completion",
	})

	snapshotFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_progress_snapshot_failures_total",
		Help: "Total snapshot writes that failed",
	})
)
