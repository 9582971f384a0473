package mock

import (
	"sync"
	"time"
)

// Time is a controllable clock. Once pinned it keeps advancing from the
// pinned instant at wall-clock speed.
type Time struct {
	mu               sync.RWMutex
	currentStartTime time.Time
	updatedAt        time.Time
}

// NewTime returns a clock that starts at the current wall-clock time.
func NewTime() *Time {
	now := time.Now()
	return &Time{
		currentStartTime: now,
		updatedAt:        now,
	}
}

// SetCurrentTime pins the clock to currentTime.
func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = currentTime
	t.updatedAt = time.Now()
}

// Reset moves the clock back to the wall-clock time.
func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

// Now implements the application clock.
func (t *Time) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentStartTime.Add(time.Since(t.updatedAt))
}
