package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dcda_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	WizardEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dcda_wizard_events_total",
			Help: "Anonymous wizard events accepted for analytics",
		},
		[]string{"type", "label"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dcda_exports_total",
			Help: "Plan exports produced by the server",
		},
		[]string{"format"},
	)

	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dcda_snapshot_reloads_total",
			Help: "Catalog snapshot reload attempts by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotOfferedCourses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dcda_snapshot_offered_courses",
			Help: "Offered course codes in the live snapshot",
		},
	)

	AnalyticsBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dcda_analytics_batch_size",
			Help:    "Events flushed per analytics worker batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	AnalyticsDeadLettered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dcda_analytics_dead_lettered_total",
			Help: "Analytics events moved to the dead letter list after repeated write failures",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dcda_websocket_clients",
			Help: "Connected offerings stream clients",
		},
	)
)
