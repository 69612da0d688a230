package usecase

import "time"

// SyncMetrics receives sync telemetry. Implementations must be safe for
// concurrent use.
type SyncMetrics interface {
	ObserveRun(kind, outcome string, elapsed time.Duration)
	ObserveSource(kind, source string)
	ObserveDropped(kind string, n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(string, string, time.Duration) {}
func (noopMetrics) ObserveSource(string, string)            {}
func (noopMetrics) ObserveDropped(string, int)              {}

func metricsOrNoop(m SyncMetrics) SyncMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
