package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

// breakerStateValue maps breaker states onto gauge values.
var breakerStateValue = map[resilience.CircuitState]float64{
	resilience.CircuitStateClosed:   0,
	resilience.CircuitStateHalfOpen: 1,
	resilience.CircuitStateOpen:     2,
}

// SyncMetrics exports sync telemetry to Prometheus.
type SyncMetrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	sourceTotal  *prometheus.CounterVec
	droppedTotal *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
	breakerTrips *prometheus.CounterVec
}

func NewSyncMetrics() *SyncMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &SyncMetrics{
		registry: registry,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "euroleague_sync_runs_total",
			Help: "Sync runs by kind and outcome",
		}, []string{"kind", "outcome"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "euroleague_sync_run_duration_seconds",
			Help:    "Sync run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"kind"}),
		sourceTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "euroleague_sync_source_used_total",
			Help: "Fallback chain results by data kind and serving source",
		}, []string{"kind", "source"}),
		droppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "euroleague_sync_dropped_records_total",
			Help: "Records dropped during enrichment or validation",
		}, []string{"kind"}),
		breakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "euroleague_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half open, 2 open)",
		}, []string{"upstream"}),
		breakerTrips: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "euroleague_circuit_breaker_opened_total",
			Help: "Transitions of a circuit breaker into the open state",
		}, []string{"upstream"}),
	}
}

func (m *SyncMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *SyncMetrics) ObserveRun(kind, outcome string, elapsed time.Duration) {
	m.runsTotal.WithLabelValues(kind, outcome).Inc()
	m.runDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *SyncMetrics) ObserveSource(kind, source string) {
	m.sourceTotal.WithLabelValues(kind, source).Inc()
}

func (m *SyncMetrics) ObserveDropped(kind string, n int) {
	if n <= 0 {
		return
	}
	m.droppedTotal.WithLabelValues(kind).Add(float64(n))
}

// ObserveBreaker publishes the current state of a breaker. Use it as the
// OnStateChange hook.
func (m *SyncMetrics) ObserveBreaker(upstream string, to resilience.CircuitState) {
	m.breakerState.WithLabelValues(upstream).Set(breakerStateValue[to])
	if to == resilience.CircuitStateOpen {
		m.breakerTrips.WithLabelValues(upstream).Inc()
	}
}
