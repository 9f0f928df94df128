package flightlog

import (
	"log/slog"
	"time"
)

// BarrierFailurePolicy selects what the recorder does when the reopen
// step of a durability barrier fails.
type BarrierFailurePolicy int

const (
	// HaltOnBarrierFailure stops the recorder: the session is
	// terminated and Run returns the barrier error. The default.
	HaltOnBarrierFailure BarrierFailurePolicy = iota

	// SuspendOnBarrierFailure keeps the loop running with the session
	// failed: sampling deadlines still elapse but their data becomes
	// dropped ticks, warned at a throttled rate. No retry is attempted.
	SuspendOnBarrierFailure
)

type options struct {
	samplingHz    float64
	barrierEvery  time.Duration
	clock         Clock
	logger        *Logger
	metrics       MetricsCollector
	sensor        Sensor
	line          SenseLine
	barrierPolicy BarrierFailurePolicy
}

// Option configures Recorder construction.
type Option func(*options)

// WithSamplingFrequency sets the sampling rate in Hz. The derived
// interval is one second divided by the rate. Non-positive values fall
// back to the 20 Hz default.
func WithSamplingFrequency(hz float64) Option {
	return func(o *options) {
		if hz > 0 {
			o.samplingHz = hz
		}
	}
}

// WithBarrierInterval sets how often the durability barrier runs.
// The barrier's close+reopen is the costliest storage operation in the
// loop; the interval bounds both its overhead and the worst-case data
// loss window. Non-positive values fall back to the 1 s default.
func WithBarrierInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.barrierEvery = d
		}
	}
}

// WithClock overrides the scheduler's clock. Tests use a virtual clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger configures the diagnostic stream. Pass nil to disable.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to
// disable collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithSensor sets the data-acquisition collaborator. The default is a
// seeded SimSensor.
func WithSensor(s Sensor) Option {
	return func(o *options) {
		if s != nil {
			o.sensor = s
		}
	}
}

// WithPowerSense binds the power-rail sense line. Without one, shutdown
// can still be requested via Recorder.Shutdown or context cancellation.
func WithPowerSense(line SenseLine) Option {
	return func(o *options) {
		o.line = line
	}
}

// WithBarrierFailurePolicy selects halt or suspend behavior on a failed
// barrier reopen.
func WithBarrierFailurePolicy(p BarrierFailurePolicy) Option {
	return func(o *options) {
		o.barrierPolicy = p
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		samplingHz:    20.0,
		barrierEvery:  time.Second,
		clock:         SystemClock,
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
		barrierPolicy: HaltOnBarrierFailure,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.sensor == nil {
		o.sensor = NewSimSensor(time.Now().UnixNano())
	}
	return o
}
