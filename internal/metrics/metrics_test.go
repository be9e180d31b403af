package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDispatch("gpt-4o", false, 200*time.Millisecond)
	m.ObserveDispatch("gpt-4o", false, 300*time.Millisecond)
	m.ObserveDispatch("gpt-4o", true, time.Second)

	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("gpt-4o", OutcomeSuccess)); got != 2 {
		t.Errorf("Expected 2 successful dispatches, got %f", got)
	}
	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("gpt-4o", OutcomeFailure)); got != 1 {
		t.Errorf("Expected 1 failed dispatch, got %f", got)
	}
	if got := testutil.CollectAndCount(m.dispatchDuration); got != 1 {
		t.Errorf("Expected 1 duration series, got %d", got)
	}
}

func TestMetrics_ObserveReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveReport(OutcomeSuccess)
	m.ObserveReport(OutcomeRejected)
	m.ObserveReport(OutcomeSuccess)

	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("Expected 2 successful reports, got %f", got)
	}
	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues(OutcomeRejected)); got != 1 {
		t.Errorf("Expected 1 rejected report, got %f", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDispatch("gpt-4o", false, time.Second)
	m.ObserveReport(OutcomeSuccess)
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("Expected duplicate registration to panic")
		}
	}()
	New(reg)
}
