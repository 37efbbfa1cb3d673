package recorder

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic timer tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestTimerElapsed(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)

	timer.Start()
	clock.Advance(5 * time.Second)

	if got := timer.Elapsed(); got != 5*time.Second {
		t.Errorf("Expected elapsed 5s, got %v", got)
	}
}

func TestTimerExcludesPausedTime(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)

	timer.Start()
	clock.Advance(2 * time.Second)

	timer.Pause()
	clock.Advance(30 * time.Second)

	if got := timer.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected elapsed to freeze at 2s during pause, got %v", got)
	}

	timer.Resume()
	clock.Advance(3 * time.Second)

	if got := timer.Elapsed(); got != 5*time.Second {
		t.Errorf("Expected elapsed 5s after resume, got %v", got)
	}
}

func TestTimerStopReturnsFinalElapsed(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)

	timer.Start()
	clock.Advance(7 * time.Second)

	if got := timer.Stop(); got != 7*time.Second {
		t.Errorf("Expected stop to return 7s, got %v", got)
	}

	// The value stays frozen after stop.
	clock.Advance(time.Minute)
	if got := timer.Elapsed(); got != 7*time.Second {
		t.Errorf("Expected elapsed frozen at 7s after stop, got %v", got)
	}
}

func TestTimerDoublePauseAndResume(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)

	timer.Start()
	clock.Advance(time.Second)

	timer.Pause()
	timer.Pause()
	clock.Advance(time.Second)

	timer.Resume()
	timer.Resume()
	clock.Advance(time.Second)

	if got := timer.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected elapsed 2s, got %v", got)
	}
}

func TestTimerRestartResetsAccumulated(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)

	timer.Start()
	clock.Advance(10 * time.Second)
	timer.Stop()

	timer.Start()
	clock.Advance(time.Second)

	if got := timer.Elapsed(); got != time.Second {
		t.Errorf("Expected elapsed 1s after restart, got %v", got)
	}
}

func TestTimerDefaultsToWallClock(t *testing.T) {
	timer := NewTimer(nil)
	timer.Start()

	if got := timer.Elapsed(); got < 0 {
		t.Errorf("Expected non-negative elapsed, got %v", got)
	}
}
