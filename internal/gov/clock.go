package gov

import "time"

// Clock supplies the engine's notion of current time.
//
// Every temporal rule in the engine (lock age, voting windows, unlock
// watermarks) reads through this interface, so tests and journal replay can
// pin time exactly. Production uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }
