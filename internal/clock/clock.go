// Package clock abstracts the wall clock so stage timings can be asserted
// in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// Step is a Clock that advances by a fixed interval on every reading.
// The first reading returns start plus one interval.
type Step struct {
	mu       sync.Mutex
	now      time.Time
	interval time.Duration
}

// NewStep creates a Step clock.
func NewStep(start time.Time, interval time.Duration) *Step {
	return &Step{now: start, interval: interval}
}

// Now advances the clock and returns the new time.
func (s *Step) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(s.interval)
	return s.now
}

var (
	_ Clock = RealClock{}
	_ Clock = (*Step)(nil)
)
