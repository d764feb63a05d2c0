package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Services take their clock as an
// injected func() time.Time, so tests can pin schedule timestamps to exact
// instants instead of sleeping.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock builds a clock frozen at start. A zero start falls back to the
// shared ReferenceTime so fixtures agree on a baseline.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now reports the instant the clock is currently frozen at.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts the clock to the func() time.Time shape the service
// constructors accept. A nil receiver degrades to the real time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set jumps the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// Current is a read-only alias for Now, for call sites that want to make
// explicit that no time passes.
func (c *Clock) Current() time.Time {
	return c.Now()
}
