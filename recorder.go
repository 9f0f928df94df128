package flightlog

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/flightlog/volume"
)

// State is the lifecycle state of a Recorder.
type State int32

const (
	// StateIdle: created, Run not yet entered.
	StateIdle State = iota
	// StateRunning: session open, loop sampling and flushing.
	StateRunning
	// StateShuttingDown: power flag observed, orderly close in progress.
	StateShuttingDown
	// StateHalted: terminal. The device needs a power cycle; in Go
	// terms, build a new Recorder.
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// dozeSlice bounds one sleep of the cooperative loop. The power flag is
// re-checked every iteration, so this is also the worst-case addition
// to shutdown latency.
const dozeSlice = time.Millisecond

// Recorder drives the whole lifecycle: allocate a log identity at
// construction, open the session on Run, then run the cooperative loop
// until power loss or a fatal storage failure.
type Recorder struct {
	vol  volume.Volume
	opts options

	name        string
	sampleEvery time.Duration

	sentinel Sentinel
	state    atomic.Int32

	// Throttles dropped-tick warnings while the session is failed, so a
	// dead card cannot flood the diagnostic stream at the sampling rate.
	warnLimit *rate.Limiter
}

// New allocates a log identity on vol and prepares a recorder. The
// session itself is not opened until Run. Sequence exhaustion is a
// warning, not an error: the fallback identity is used.
func New(vol volume.Volume, optFns ...Option) (*Recorder, error) {
	if vol == nil {
		return nil, ErrVolumeUnavailable
	}
	o := applyOptions(optFns)

	name, exhausted := nextLogName(vol)
	o.logger.LogAllocate(name, exhausted)

	return &Recorder{
		vol:         vol,
		opts:        o,
		name:        name,
		sampleEvery: time.Duration(float64(time.Second) / o.samplingHz),
		warnLimit:   rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// FileName returns the allocated log filename. Fixed after New.
func (r *Recorder) FileName() string { return r.name }

// State returns the current lifecycle state.
func (r *Recorder) State() State { return State(r.state.Load()) }

// Shutdown requests an orderly stop exactly the way a power-loss edge
// does: it sets the sentinel and nothing else. Safe from any goroutine.
func (r *Recorder) Shutdown() { r.sentinel.SignalShutdown() }

// Run opens the log session and drives the loop until the power flag is
// observed, ctx is canceled, or a fatal storage failure occurs. The
// session is closed on every exit path. Run returns nil after an
// orderly power-loss close, ctx.Err() after cancellation, and the fatal
// error otherwise. A Recorder runs at most once.
func (r *Recorder) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}

	if r.opts.line == nil {
		return r.loop(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watchPower(gctx, r.opts.line, &r.sentinel)
	})
	g.Go(func() error {
		// Detach on every exit path: it unblocks the watcher and masks
		// a bouncing rail once the loop is past the point of caring.
		defer r.opts.line.Detach()
		return r.loop(gctx)
	})
	return g.Wait()
}

func (r *Recorder) loop(ctx context.Context) error {
	o := &r.opts

	session, err := openSession(r.vol, r.name, o.sensor.Fields())
	if err != nil {
		r.state.Store(int32(StateHalted))
		o.logger.Error("cannot start log session", "file", r.name, "error", err)
		return err
	}
	o.logger.WithFile(r.name).Info("recording started",
		"sampling_hz", o.samplingHz,
		"barrier_interval", o.barrierEvery,
	)

	start := o.clock.Now()
	lastSample := start
	lastBarrier := start

	for {
		if r.sentinel.ShutdownSignaled() || ctx.Err() != nil {
			return r.shutdown(ctx, session)
		}

		now := o.clock.Now()

		if now.Sub(lastSample) >= r.sampleEvery {
			// Advance from the scheduled time, not from now, so
			// per-iteration jitter never accumulates into drift.
			lastSample = lastSample.Add(r.sampleEvery)
			r.sampleTick(session, now.Sub(start))
		}

		if now.Sub(lastBarrier) >= o.barrierEvery {
			lastBarrier = lastBarrier.Add(o.barrierEvery)
			if session.IsOpen() {
				if err := r.barrierTick(session); err != nil && o.barrierPolicy == HaltOnBarrierFailure {
					session.Terminate()
					r.state.Store(int32(StateHalted))
					return err
				}
			}
		}

		r.doze(lastSample, lastBarrier)
	}
}

// sampleTick reads one record and appends it. A closed session makes
// the tick a dropped no-op; data for it is lost, never retried.
func (r *Recorder) sampleTick(session *Session, elapsed time.Duration) {
	o := &r.opts
	if !session.IsOpen() {
		o.metrics.RecordDroppedTick()
		if r.warnLimit.Allow() {
			o.logger.Warn("sample dropped, session closed", "file", r.name)
		}
		return
	}
	rec := Record{
		TimestampMS: elapsed.Milliseconds(),
		Values:      o.sensor.Sample(),
	}
	t0 := o.clock.Now()
	err := session.Append(rec)
	o.metrics.RecordSample(o.clock.Now().Sub(t0), err)
	if err != nil && r.warnLimit.Allow() {
		o.logger.Warn("append failed, sample lost", "file", r.name, "error", err)
	}
}

func (r *Recorder) barrierTick(session *Session) error {
	o := &r.opts
	t0 := o.clock.Now()
	err := session.Barrier()
	d := o.clock.Now().Sub(t0)
	o.metrics.RecordBarrier(d, err)
	o.logger.LogBarrier(r.name, d, err)
	return err
}

// shutdown performs the orderly close: disable the observer, terminate
// the session exactly once, halt.
func (r *Recorder) shutdown(ctx context.Context, session *Session) error {
	o := &r.opts
	r.state.Store(int32(StateShuttingDown))
	if o.line != nil {
		o.line.Detach()
	}
	t0 := o.clock.Now()
	session.Terminate()
	latency := o.clock.Now().Sub(t0)
	o.metrics.RecordShutdown(latency)
	o.logger.LogShutdown(r.name, latency)
	r.state.Store(int32(StateHalted))
	return ctx.Err()
}

// doze sleeps until the nearest deadline, capped at dozeSlice so an
// asynchronously raised flag is observed promptly.
func (r *Recorder) doze(lastSample, lastBarrier time.Time) {
	o := &r.opts
	next := lastSample.Add(r.sampleEvery)
	if b := lastBarrier.Add(o.barrierEvery); b.Before(next) {
		next = b
	}
	d := next.Sub(o.clock.Now())
	if d > dozeSlice {
		d = dozeSlice
	}
	if d > 0 {
		o.clock.Sleep(d)
	}
}
