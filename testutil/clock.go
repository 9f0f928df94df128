package testutil

import (
	"sync"
	"time"
)

type alarm struct {
	at time.Time
	fn func()
}

// ManualClock is a virtual clock. Sleep advances virtual time instead
// of blocking, so a loop written against a Clock interface free-runs
// deterministically. Alarms registered with AfterFunc fire on the
// goroutine that advances the clock, in timestamp order, with the
// virtual time set to the alarm's deadline.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	alarms []alarm
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances virtual time by d.
func (c *ManualClock) Sleep(d time.Duration) { c.Advance(d) }

// AfterFunc schedules fn to run when virtual time reaches now+d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alarms = append(c.alarms, alarm{at: c.now.Add(d), fn: fn})
}

// Advance moves virtual time forward by d, firing due alarms in order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		idx := -1
		for i, a := range c.alarms {
			if a.at.After(target) {
				continue
			}
			if idx < 0 || a.at.Before(c.alarms[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		a := c.alarms[idx]
		c.alarms = append(c.alarms[:idx], c.alarms[idx+1:]...)
		if a.at.After(c.now) {
			c.now = a.at
		}
		c.mu.Unlock()
		a.fn()
		c.mu.Lock()
	}
	if target.After(c.now) {
		c.now = target
	}
	c.mu.Unlock()
}
