package flightlog

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement it to integrate with an external monitoring sink.
type MetricsCollector interface {
	// RecordSample is called after each sample append attempt.
	RecordSample(duration time.Duration, err error)

	// RecordBarrier is called after each durability barrier.
	RecordBarrier(duration time.Duration, err error)

	// RecordDroppedTick is called when a sampling deadline elapses while
	// the session is closed and the tick's data is discarded.
	RecordDroppedTick()

	// RecordShutdown is called once, with the time from flag observation
	// to completed terminate.
	RecordShutdown(latency time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSample(time.Duration, error)  {}
func (NoopMetricsCollector) RecordBarrier(time.Duration, error) {}
func (NoopMetricsCollector) RecordDroppedTick()                 {}
func (NoopMetricsCollector) RecordShutdown(time.Duration)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging without external dependencies.
type BasicMetricsCollector struct {
	SampleCount       atomic.Int64
	SampleErrors      atomic.Int64
	SampleTotalNanos  atomic.Int64
	BarrierCount      atomic.Int64
	BarrierErrors     atomic.Int64
	BarrierTotalNanos atomic.Int64
	DroppedTicks      atomic.Int64
	ShutdownNanos     atomic.Int64
}

// RecordSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSample(duration time.Duration, err error) {
	b.SampleCount.Add(1)
	b.SampleTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SampleErrors.Add(1)
	}
}

// RecordBarrier implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBarrier(duration time.Duration, err error) {
	b.BarrierCount.Add(1)
	b.BarrierTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BarrierErrors.Add(1)
	}
}

// RecordDroppedTick implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDroppedTick() {
	b.DroppedTicks.Add(1)
}

// RecordShutdown implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShutdown(latency time.Duration) {
	b.ShutdownNanos.Store(latency.Nanoseconds())
}
