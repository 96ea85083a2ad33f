package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	telemetryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineflix_telemetry_failures_total",
		Help: "Counter and analytics writes that failed and were dropped.",
	}, []string{"operation"})

	retentionPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cineflix_retention_purged_events_total",
		Help: "Analytics events removed by the retention worker.",
	})
)
