package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOrderMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)

	metrics.IncTransition("IN_TRANSIT", "DELIVERED")
	metrics.IncTransitionFailure("invalid_transition")
	metrics.ObserveTransition("DELIVERED", 30*time.Millisecond)
	metrics.IncLedgerApplication()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "order_transitions_total", "to", "DELIVERED"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transitions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_transition_failures_total", "reason", "invalid_transition"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "order_transition_duration_seconds", "to", "DELIVERED"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if mf := findMetricFamily(mfs, "order_ledger_applications_total"); mf == nil {
		t.Fatal("expected ledger applications metric")
	} else if mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatal("expected ledger applications=1")
	}
}

func TestOrderMetricsNilSafe(t *testing.T) {
	var metrics *OrderMetrics
	metrics.IncTransition("a", "b")
	metrics.IncTransitionFailure("x")
	metrics.ObserveTransition("b", time.Second)
	metrics.IncLedgerApplication()
}
