package flightlog

import (
	"errors"
	"fmt"
)

var (
	// ErrVolumeUnavailable is returned by New when no mounted volume is
	// supplied. Fatal; no session ever exists.
	ErrVolumeUnavailable = errors.New("storage volume unavailable")

	// ErrSessionClosed is returned by Append and Barrier after the
	// session has been terminated or marked failed.
	ErrSessionClosed = errors.New("log session is closed")

	// ErrAlreadyStarted is returned by Run on reuse. A halted recorder
	// models a device that needs a power cycle; build a new one.
	ErrAlreadyStarted = errors.New("recorder already started")
)

// OpenError indicates the log file could not be opened or its header
// could not be made durable at session start. There is no recovery
// path; the recorder halts.
//
// The underlying error can be accessed via errors.Unwrap.
type OpenError struct {
	Name  string
	cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open log %s: %v", e.Name, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }

// BarrierError indicates the reopen step of a durability barrier
// failed. The session is left closed; records committed by earlier
// barriers are unaffected.
//
// The underlying error can be accessed via errors.Unwrap.
type BarrierError struct {
	Name  string
	cause error
}

func (e *BarrierError) Error() string {
	return fmt.Sprintf("durability barrier on %s: reopen failed: %v", e.Name, e.cause)
}

func (e *BarrierError) Unwrap() error { return e.cause }
