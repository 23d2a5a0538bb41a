// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriggersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_triggers_fired_total",
			Help: "Total number of trigger firings that passed their guard",
		},
		[]string{"trigger"},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Total number of delivery attempts by integration and status",
		},
		[]string{"integration", "status"},
	)

	DeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "notification_delivery_duration_seconds",
			Help: "Duration of integration send calls in seconds",
		},
		[]string{"integration"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_queue_depth",
			Help: "Number of items pending in the background queue",
		},
	)

	QueueItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_queue_items_processed_total",
			Help: "Total number of background queue items processed by kind",
		},
		[]string{"kind"},
	)
)
