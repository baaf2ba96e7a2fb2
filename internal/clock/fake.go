package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance is called.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock. Advance walks time forward one
// deadline at a time, so a callback that schedules another callback
// inside the advanced window sees it fire during the same Advance, at
// its own deadline. That is what makes "after k ticks" exact.
//
// AfterFunc callbacks run synchronously in the goroutine calling
// Advance. Do not call Advance from inside a callback.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	seq     uint64
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	seq      uint64
	callback func()
	channel  chan time.Time
	interval time.Duration
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run when the clock reaches now+d. A
// non-positive d fires on the next Advance, including Advance(0).
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	waiter := c.addLocked(d, 0)
	waiter.callback = f
	return &Timer{stop: func() bool { return c.stopWaiter(waiter) }}
}

// NewTicker returns a ticker driven by Advance.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	waiter := c.addLocked(d, d)
	waiter.channel = channel
	return &Ticker{C: channel, stop: func() { c.stopWaiter(waiter) }}
}

func (c *FakeClock) addLocked(d, interval time.Duration) *fakeWaiter {
	c.seq++
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		seq:      c.seq,
		interval: interval,
	}
	c.waiters = append(c.waiters, waiter)
	return waiter
}

func (c *FakeClock) stopWaiter(waiter *fakeWaiter) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == waiter {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, firing every timer and ticker
// whose deadline falls inside the window in deadline order. Timers
// sharing a deadline fire in registration order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		waiter, at := c.popNext(target)
		if waiter == nil {
			break
		}
		if waiter.callback != nil {
			waiter.callback()
			continue
		}
		select {
		case waiter.channel <- at:
		default:
		}
	}

	c.mu.Lock()
	if target.After(c.current) {
		c.current = target
	}
	c.mu.Unlock()
}

// popNext removes the earliest due waiter, moves the clock to its
// deadline and reschedules it if it is a ticker.
func (c *FakeClock) popNext(target time.Time) (*fakeWaiter, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := -1
	for i, w := range c.waiters {
		if w.deadline.After(target) {
			continue
		}
		if index < 0 || w.deadline.Before(c.waiters[index].deadline) ||
			(w.deadline.Equal(c.waiters[index].deadline) && w.seq < c.waiters[index].seq) {
			index = i
		}
	}
	if index < 0 {
		return nil, time.Time{}
	}

	waiter := c.waiters[index]
	at := waiter.deadline
	if at.After(c.current) {
		c.current = at
	}
	if waiter.interval > 0 {
		c.seq++
		waiter.seq = c.seq
		waiter.deadline = at.Add(waiter.interval)
	} else {
		c.waiters = append(c.waiters[:index], c.waiters[index+1:]...)
	}
	return waiter, at
}

// PendingCount returns how many timers and tickers are registered and
// not yet fired or stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
