package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_progress_sync_delivered_total",
		Help: "Sync intents acknowledged by the remote trip API",
	}, []string{"kind"})

	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_progress_sync_dropped_total",
		Help: "Sync intents dropped before acknowledgement",
	}, []string{"reason"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_progress_sync_retries_total",
		Help: "Sync delivery attempts that failed and were retried",
	})
)
