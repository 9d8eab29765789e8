package timer

import (
	"sync"
	"time"
)

// Timer measures a work session on the wall clock. It can be paused and
// resumed; paused time is not counted.
type Timer struct {
	mu        sync.RWMutex
	now       func() time.Time
	startedAt time.Time
	resumedAt time.Time
	elapsed   time.Duration // accumulated before resumedAt
	running   bool
}

// New returns a stopped timer. A nil clock means time.Now.
func New(clock func() time.Time) *Timer {
	if clock == nil {
		clock = time.Now
	}
	return &Timer{now: clock}
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	now := t.now()
	if t.startedAt.IsZero() {
		t.startedAt = now
	}
	t.resumedAt = now
	t.running = true
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.elapsed += t.now().Sub(t.resumedAt)
	t.running = false
}

// Toggle starts a stopped timer and stops a running one.
func (t *Timer) Toggle() {
	if t.Running() {
		t.Stop()
	} else {
		t.Start()
	}
}

func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.elapsed = 0
	t.startedAt = time.Time{}
	t.resumedAt = time.Time{}
}

func (t *Timer) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.running {
		return t.elapsed + t.now().Sub(t.resumedAt)
	}
	return t.elapsed
}

// Minutes is the elapsed time rounded to the nearest minute.
func (t *Timer) Minutes() int64 {
	return int64(t.Elapsed().Round(time.Minute) / time.Minute)
}

// StartedAt is when the timer was first started, zero if never.
func (t *Timer) StartedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.startedAt
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}
