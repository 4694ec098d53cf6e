// Package metrics exposes the Prometheus instruments of the delivery core.
// Instruments register themselves on the default registry; the HTTP adapter
// serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusTransitions counts committed checkpoint transitions by slug.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_status_transitions_total",
		Help: "Committed order checkpoint transitions.",
	}, []string{"status"})

	// RejectedTransitions counts rejected transitions by failure class.
	RejectedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_rejected_transitions_total",
		Help: "Rejected order checkpoint transitions.",
	}, []string{"reason"})

	// DistributionPasses counts distribution passes by outcome.
	DistributionPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_distribution_passes_total",
		Help: "Courier distribution passes.",
	}, []string{"result"})

	// OracleErrors counts routing oracle failures.
	OracleErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lastmile_routing_oracle_errors_total",
		Help: "Routing oracle call failures.",
	})

	// CallbacksEnqueued counts partner callback tasks pushed to the queue.
	CallbacksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lastmile_partner_callbacks_enqueued_total",
		Help: "Partner callback tasks enqueued.",
	})

	// EventsPublished counts domain events pushed to the broker by type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_events_published_total",
		Help: "Domain events published to the broker.",
	}, []string{"type"})
)
