package streamledger

import "time"

// Clock supplies the current time in unix seconds. Every operation samples
// it exactly once, so all arithmetic within one operation observes a single
// timestamp. Inject a ManualClock in tests to drive accrual deterministically.
type Clock interface {
	Now() int64
}

type wallClock struct{}

func (wallClock) Now() int64 { return time.Now().Unix() }

// ManualClock is a Clock whose time only moves when told to.
type ManualClock struct {
	now int64
}

// NewManualClock creates a manual clock starting at the given unix second.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() int64 { return c.now }

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d int64) { c.now += d }

// Set jumps the clock to the given unix second.
func (c *ManualClock) Set(t int64) { c.now = t }
