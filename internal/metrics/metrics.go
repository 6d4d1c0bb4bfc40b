package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TransportRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_transport_requests_total",
			Help: "Outbound API requests by method and response code",
		},
		[]string{"method", "code"}, // code: http status, or "error" for technical failures
	)

	TransportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omni_transport_request_duration_seconds",
			Help:    "Outbound API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_webhook_events_total",
			Help: "Inbound webhook events by type and outcome",
		},
		[]string{"type", "outcome"}, // handled|ignored|duplicate|failed|rejected
	)

	ReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_subscription_reconcile_total",
			Help: "Subscription reconciliation results by event type and final state",
		},
		[]string{"event_type", "state"},
	)

	WorkerMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omni_worker_messages_total",
			Help: "Outbound worker lifecycle counter by stage and channel",
		},
		[]string{"stage", "channel"}, // received|sent|failed|poison
	)
)

// Register adds every collector to r. Collectors already present are left alone
// so commands sharing a process can call it more than once.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		TransportRequests,
		TransportDuration,
		WebhookEvents,
		ReconcileTotal,
		WorkerMessages,
	} {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func MustRegister(r prometheus.Registerer) {
	if err := Register(r); err != nil {
		panic(err)
	}
}
