package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimerCountsOnlyRunningTime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	tm := New(clock.now)
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())

	tm.Start()
	clock.advance(20 * time.Minute)
	assert.Equal(t, 20*time.Minute, tm.Elapsed())

	tm.Stop()
	clock.advance(time.Hour)
	assert.Equal(t, 20*time.Minute, tm.Elapsed())

	tm.Toggle()
	assert.True(t, tm.Running())
	clock.advance(10*time.Minute + 40*time.Second)
	assert.Equal(t, int64(31), tm.Minutes())
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), tm.StartedAt())

	tm.Start() // no-op while running
	assert.Equal(t, 30*time.Minute+40*time.Second, tm.Elapsed())

	tm.Reset()
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())
	assert.True(t, tm.StartedAt().IsZero())
}

func TestMinutesRounds(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tm := New(clock.now)
	tm.Start()
	clock.advance(29 * time.Second)
	assert.Equal(t, int64(0), tm.Minutes())
	clock.advance(time.Second)
	assert.Equal(t, int64(1), tm.Minutes())
}
