package flightlog

import "time"

// Clock abstracts time for the scheduler so deadline accumulation can be
// verified against a virtual clock. Early wakeup is not part of the
// Sleep contract; the loop bounds its own sleep slices instead.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the default wall clock.
var SystemClock Clock = systemClock{}
