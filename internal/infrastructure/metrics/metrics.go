// Package metrics adapts the application layer's Metrics ports onto
// Prometheus collectors, so internal/application/{delivery,outbox} never
// import a transport package directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "integrations_hub",
			Name:      "webhook_deliveries_total",
			Help:      "Total number of webhook delivery attempts by outcome",
		},
		[]string{"status"}, // delivered, pending (failed, retry scheduled), dead_lettered
	)

	webhookDeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "integrations_hub",
			Name:      "webhook_delivery_duration_seconds",
			Help:      "Webhook delivery HTTP call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	eventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "integrations_hub",
			Name:      "events_published_total",
			Help:      "Total number of events published to the outbox",
		},
		[]string{"event_type"},
	)
)

// Prometheus implements delivery.Metrics and outbox.Metrics against the
// package's own collectors, which stay process-global so repeated
// construction (e.g. in tests) never panics on duplicate registration.
type Prometheus struct{}

func New() Prometheus { return Prometheus{} }

func (Prometheus) IncDelivery(status string) {
	webhookDeliveriesTotal.WithLabelValues(status).Inc()
}

func (Prometheus) ObserveDuration(seconds float64) {
	webhookDeliveryDuration.Observe(seconds)
}

func (Prometheus) IncPublished(eventType string) {
	eventsPublishedTotal.WithLabelValues(eventType).Inc()
}
