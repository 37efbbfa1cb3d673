package recorder

import "time"

// Timer tracks elapsed recording time across pauses. Time does not
// accumulate while paused, and resuming continues from the exact prior
// elapsed value.
type Timer struct {
	now func() time.Time

	accumulated  time.Duration
	runningSince time.Time
	running      bool
}

// NewTimer creates a stopped timer. The now function defaults to time.Now
// and is injectable for tests.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start begins accumulating from zero.
func (t *Timer) Start() {
	t.accumulated = 0
	t.runningSince = t.now()
	t.running = true
}

// Pause freezes the elapsed value.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.accumulated += t.now().Sub(t.runningSince)
	t.running = false
}

// Resume continues accumulating from the frozen value.
func (t *Timer) Resume() {
	if t.running {
		return
	}
	t.runningSince = t.now()
	t.running = true
}

// Elapsed returns the accumulated recording time, excluding paused spans.
func (t *Timer) Elapsed() time.Duration {
	if !t.running {
		return t.accumulated
	}
	return t.accumulated + t.now().Sub(t.runningSince)
}

// Stop freezes the timer and returns the final elapsed value.
func (t *Timer) Stop() time.Duration {
	t.Pause()
	return t.accumulated
}
