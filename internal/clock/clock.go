package clock

import (
	"sync"
	"time"
)

// #region interface

// Clock abstracts time so the reveal sequencer and narration fallback
// timers can run on virtual time in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// #endregion interface

// #region real

// Real delegates to the time package.
type Real struct{}

// Now returns the current wall-clock time.
func (Real) Now() time.Time { return time.Now() }

// After fires once d has elapsed in real time.
func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

// #endregion real

// #region virtual

// Virtual is a manually advanced clock. Advance moves time forward and
// fires every timer whose deadline has passed. Safe for concurrent use.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	at time.Time
	ch chan time.Time
}

// NewVirtual creates a virtual clock starting at the given time.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// After returns a channel that fires when the virtual clock reaches
// now+d. A non-positive d fires immediately.
func (v *Virtual) After(d time.Duration) <-chan time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- v.now
		return ch
	}
	v.waiters = append(v.waiters, waiter{at: v.now.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward by d and fires every due timer.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	v.now = v.now.Add(d)
	now := v.now

	var remaining []waiter
	var due []waiter
	for _, w := range v.waiters {
		if !w.at.After(now) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	v.waiters = remaining
	v.mu.Unlock()

	for _, w := range due {
		w.ch <- now
	}
}

// Pending returns the number of unfired timers, for test assertions.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.waiters)
}

// #endregion virtual
