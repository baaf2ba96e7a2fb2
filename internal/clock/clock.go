// Package clock is the time source for everything that animates.
//
// Production code uses Real(). Tests use Fake(), which never moves on
// its own: frames and typewriter ticks fire only when the test calls
// Advance, so an intro sequence can be replayed to the millisecond.
package clock

import "time"

// Clock is the subset of the time package the page needs: wall time,
// one-shot callbacks for ticks and frames, and tickers for stream pacing.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f once d has elapsed. The returned Timer can
	// cancel the call. A non-positive d fires on the next opportunity,
	// never synchronously inside AfterFunc.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker delivers ticks on C every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stop func() bool
}

// Stop cancels the call. It reports whether the timer was still pending.
func (t *Timer) Stop() bool { return t.stop() }

// Ticker delivers periodic ticks. C has capacity 1; ticks are dropped
// when the reader falls behind.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns the ticker off. C is not closed.
func (t *Ticker) Stop() { t.stop() }
