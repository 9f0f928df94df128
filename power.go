package flightlog

import (
	"context"
	"sync"
	"sync/atomic"
)

// Sentinel is the power-loss flag shared between the sense-line edge
// handler and the recorder loop. It is the only state crossing that
// asynchronous boundary: one writer, one reader, a single false-to-true
// transition, never reset.
type Sentinel struct {
	flag atomic.Bool
}

// SignalShutdown marks power loss as imminent. It is the entire body of
// the edge handler's work: no I/O, no locking, no allocation.
func (s *Sentinel) SignalShutdown() { s.flag.Store(true) }

// ShutdownSignaled reports whether shutdown has been requested.
func (s *Sentinel) ShutdownSignaled() bool { return s.flag.Load() }

// SenseLine delivers falling-edge events from the power-rail monitor.
// On the target device an implementation maps to a GPIO edge interrupt
// configured for the rail's collapse direction.
type SenseLine interface {
	// Edges returns the channel edges are delivered on. The channel is
	// closed by Detach.
	Edges() <-chan struct{}

	// Detach permanently disables delivery. Edges raised afterwards are
	// dropped, like a masked interrupt on a bouncing rail.
	Detach()
}

// watchPower is the edge observer: it waits for the first falling edge,
// sets the sentinel and returns. Nothing else happens here; the close
// itself is deferred to the loop goroutine, which owns the session.
func watchPower(ctx context.Context, line SenseLine, s *Sentinel) error {
	select {
	case <-ctx.Done():
	case _, ok := <-line.Edges():
		if ok {
			s.SignalShutdown()
		}
	}
	return nil
}

// SimLine is a SenseLine for tests and host-side simulation.
type SimLine struct {
	mu       sync.Mutex
	ch       chan struct{}
	detached bool
}

// NewSimLine returns an attached simulated power-sense line.
func NewSimLine() *SimLine {
	return &SimLine{ch: make(chan struct{}, 1)}
}

// Trigger simulates one falling edge on the rail.
func (l *SimLine) Trigger() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return
	}
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

// Edges implements SenseLine.
func (l *SimLine) Edges() <-chan struct{} { return l.ch }

// Detach implements SenseLine. Idempotent.
func (l *SimLine) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.detached {
		l.detached = true
		close(l.ch)
	}
}

// Detached reports whether the line has been permanently disabled.
func (l *SimLine) Detached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.detached
}
