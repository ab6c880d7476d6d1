// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import (
	"sync"
	"time"
)

// BaseTime is the fixed epoch all deterministic tests and scenarios start
// from. The specific date carries no meaning; it only has to be stable.
var BaseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is a settable wall clock for tests. Unlike the system clock
// it only moves when told to, so temporal rules (lock age, voting windows,
// etas) can be exercised exactly at their boundaries.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock pinned to BaseTime.
func NewManualClock() *ManualClock {
	return &ManualClock{now: BaseTime}
}

// NewManualClockAt creates a clock pinned to t.
func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now implements the Clock interfaces of the gov and timelock packages.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set pins the clock to t. Moving backwards is allowed; tests own their
// timeline.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
