package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresAtDeadline(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(100*time.Millisecond, func() { fired++ })

	c.Advance(99 * time.Millisecond)
	assert.Equal(t, 0, fired)

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, epoch.Add(100*time.Millisecond), c.Now())
	assert.Equal(t, 0, c.PendingCount())
}

func TestFakeAdvanceRunsChainedCallbacks(t *testing.T) {
	c := Fake(epoch)
	var times []time.Duration

	var tick func()
	tick = func() {
		times = append(times, c.Now().Sub(epoch))
		if len(times) < 5 {
			c.AfterFunc(100*time.Millisecond, tick)
		}
	}
	c.AfterFunc(100*time.Millisecond, tick)

	c.Advance(time.Second)
	require.Len(t, times, 5)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		400 * time.Millisecond,
		500 * time.Millisecond,
	}, times)
	assert.Equal(t, epoch.Add(time.Second), c.Now())
}

func TestFakeZeroDelayWaitsForAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(0, func() { fired = true })

	assert.False(t, fired, "zero delay must not fire synchronously")
	c.Advance(0)
	assert.True(t, fired)
}

func TestFakeStop(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, c.PendingCount())
}

func TestFakeSameDeadlineKeepsRegistrationOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(time.Second, func() { order = append(order, "b") })
	c.AfterFunc(500*time.Millisecond, func() { order = append(order, "early") })

	c.Advance(time.Second)
	assert.Equal(t, []string{"early", "a", "b"}, order)
}

func TestFakeTicker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	c.Advance(50 * time.Millisecond)
	select {
	case at := <-ticker.C:
		assert.Equal(t, epoch.Add(50*time.Millisecond), at)
	default:
		t.Fatal("expected a tick")
	}

	// Ticks beyond the buffer are dropped.
	c.Advance(200 * time.Millisecond)
	assert.Len(t, ticker.C, 1)

	ticker.Stop()
	assert.Equal(t, 0, c.PendingCount())
}

func TestFakeTickerRejectsNonPositive(t *testing.T) {
	c := Fake(epoch)
	assert.Panics(t, func() { c.NewTicker(0) })
}
