package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay metrics. Backlog gauges are refreshed on every sweep; the exhausted
// gauge is the operator signal for events past the retry ceiling.
var (
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "givepay_outbox_events_published_total",
		Help: "Outbox events successfully published.",
	})
	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "givepay_outbox_events_failed_total",
		Help: "Outbox publish attempts that failed.",
	})
	EventsRequeued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "givepay_outbox_events_requeued_total",
		Help: "Stale Processing claims requeued to Pending.",
	})
	PendingBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "givepay_outbox_pending_events",
		Help: "Events waiting for delivery.",
	})
	FailedBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "givepay_outbox_failed_events",
		Help: "Events in Failed below the retry ceiling.",
	})
	ExhaustedBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "givepay_outbox_exhausted_events",
		Help: "Events permanently Failed at the retry ceiling; operator action required.",
	})
)
