package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle activity.
type OrderMetrics struct {
	transitions        *prometheus.CounterVec
	transitionFailures *prometheus.CounterVec
	transitionSeconds  *prometheus.HistogramVec
	ledgerApplications prometheus.Counter
}

// NewOrderMetrics registers the order lifecycle metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Committed order status transitions.",
	}, []string{"from", "to"})
	transitionFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_failures_total",
		Help: "Rejected or failed order status transitions.",
	}, []string{"reason"})
	transitionSeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_transition_duration_seconds",
		Help:    "Duration of order transition transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"to"})
	ledgerApplications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_ledger_applications_total",
		Help: "Delivery ledger mutations applied.",
	})
	reg.MustRegister(transitions, transitionFailures, transitionSeconds, ledgerApplications)
	return &OrderMetrics{
		transitions:        transitions,
		transitionFailures: transitionFailures,
		transitionSeconds:  transitionSeconds,
		ledgerApplications: ledgerApplications,
	}
}

// IncTransition increments the committed transition counter.
func (o *OrderMetrics) IncTransition(from, to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncTransitionFailure increments the failure counter for the given reason.
func (o *OrderMetrics) IncTransitionFailure(reason string) {
	if o == nil || o.transitionFailures == nil {
		return
	}
	o.transitionFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTransition records how long a transition transaction took.
func (o *OrderMetrics) ObserveTransition(to string, duration time.Duration) {
	if o == nil || o.transitionSeconds == nil {
		return
	}
	o.transitionSeconds.WithLabelValues(normalizeLabel(to)).Observe(duration.Seconds())
}

// IncLedgerApplication counts an applied delivery ledger mutation.
func (o *OrderMetrics) IncLedgerApplication() {
	if o == nil || o.ledgerApplications == nil {
		return
	}
	o.ledgerApplications.Inc()
}
