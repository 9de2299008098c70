package processor

import (
	"sync/atomic"
	"time"
)

// ServiceMetrics are in-process counters logged by the processor.
type ServiceMetrics struct {
	recorded        atomic.Int64
	skipped         atomic.Int64
	failed          atomic.Int64
	totalDurationNs atomic.Int64
	startedAt       time.Time
}

type MetricsSnapshot struct {
	Recorded      int64
	Skipped       int64
	Failed        int64
	RatePerSecond float64
	AvgDuration   time.Duration
	Uptime        time.Duration
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{startedAt: time.Now()}
}

func (m *ServiceMetrics) RecordSuccess(duration time.Duration) {
	m.recorded.Add(1)
	m.totalDurationNs.Add(int64(duration))
}

// RecordSkip counts events acknowledged without writing a transaction.
func (m *ServiceMetrics) RecordSkip() {
	m.skipped.Add(1)
}

func (m *ServiceMetrics) RecordFailure() {
	m.failed.Add(1)
}

func (m *ServiceMetrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Recorded: m.recorded.Load(),
		Skipped:  m.skipped.Load(),
		Failed:   m.failed.Load(),
		Uptime:   time.Since(m.startedAt),
	}
	if secs := s.Uptime.Seconds(); secs > 0 {
		s.RatePerSecond = float64(s.Recorded+s.Skipped) / secs
	}
	if s.Recorded > 0 {
		s.AvgDuration = time.Duration(m.totalDurationNs.Load() / s.Recorded)
	}
	return s
}
