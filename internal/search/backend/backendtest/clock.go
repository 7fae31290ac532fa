// Package backendtest provides test doubles for the search backend.
package backendtest

import (
	"sync"
	"time"
)

// ManualClock fires timers only when Fire is called, letting tests observe
// the engine while a simulated fetch is in flight.
type ManualClock struct {
	mu      sync.Mutex
	waiters []chan time.Time
	pending chan struct{}
}

// NewManualClock creates a clock with no pending timers.
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(chan struct{}, 64)}
}

// After registers a timer that fires on the next Fire call.
func (c *ManualClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	c.pending <- struct{}{}
	return ch
}

// WaitForTimer blocks until some caller is waiting on After, or the timeout passes.
func (c *ManualClock) WaitForTimer(timeout time.Duration) bool {
	select {
	case <-c.pending:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Fire releases every pending timer and returns how many were released.
func (c *ManualClock) Fire() int {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	now := time.Now()
	for _, ch := range waiters {
		ch <- now
	}
	return len(waiters)
}
