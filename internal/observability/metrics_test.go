package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

func TestSyncMetrics_CountsRunsAndSources(t *testing.T) {
	t.Parallel()

	m := NewSyncMetrics()
	m.ObserveRun("dynamic", "success", 2*time.Second)
	m.ObserveRun("dynamic", "success", time.Second)
	m.ObserveRun("dynamic", "failed", time.Second)
	m.ObserveSource("matches", "feed")
	m.ObserveDropped("matches", 3)
	m.ObserveDropped("matches", 0)

	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("dynamic", "success")); got != 2 {
		t.Fatalf("expected 2 successful runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.sourceTotal.WithLabelValues("matches", "feed")); got != 1 {
		t.Fatalf("expected 1 feed source hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.droppedTotal.WithLabelValues("matches")); got != 3 {
		t.Fatalf("expected 3 dropped records, got %v", got)
	}
}

func TestSyncMetrics_BreakerState(t *testing.T) {
	t.Parallel()

	m := NewSyncMetrics()
	m.ObserveBreaker("euroleague", resilience.CircuitStateOpen)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("euroleague")); got != 2 {
		t.Fatalf("expected open gauge value 2, got %v", got)
	}

	m.ObserveBreaker("euroleague", resilience.CircuitStateClosed)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("euroleague")); got != 0 {
		t.Fatalf("expected closed gauge value 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.breakerTrips.WithLabelValues("euroleague")); got != 1 {
		t.Fatalf("expected one trip, got %v", got)
	}
}
