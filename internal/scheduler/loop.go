// Package scheduler runs the page's animation callbacks one at a time.
//
// A Loop plays the part of a browser's event loop: typewriter ticks,
// reveal pauses, particle frames and user input (hover, resize) all run
// under the same lock, so the components they touch never see two
// callbacks at once and need no locking of their own.
//
// After, Frame and Cancel are loop-confined: call them only from a
// callback or from inside Do. Close may be called from anywhere.
package scheduler

import (
	"sync"
	"time"

	"github.com/doneil/portfolio/internal/clock"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// Loop is a cooperative single-threaded executor on top of a clock.
type Loop struct {
	mu      sync.Mutex
	clock   clock.Clock
	frame   time.Duration
	pending map[*Handle]struct{}
	closed  bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithFrameInterval sets the delay between animation frames.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frame = d
		}
	}
}

// New creates a loop driven by c.
func New(c clock.Clock, opts ...Option) *Loop {
	l := &Loop{
		clock:   c,
		frame:   DefaultFrameInterval,
		pending: make(map[*Handle]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handle identifies a scheduled callback.
type Handle struct {
	timer *clock.Timer
	done  bool
}

// Active reports whether the callback is still waiting to run.
func (h *Handle) Active() bool { return h != nil && !h.done }

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// FrameInterval returns the delay used by Frame.
func (l *Loop) FrameInterval() time.Duration { return l.frame }

// After schedules fn to run on the loop once d has elapsed. On a closed
// loop it returns an inactive handle and fn never runs.
func (l *Loop) After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	if l.closed {
		h.done = true
		return h
	}
	l.pending[h] = struct{}{}
	h.timer = l.clock.AfterFunc(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed || h.done {
			return
		}
		h.done = true
		delete(l.pending, h)
		fn()
	})
	return h
}

// Frame schedules fn for the next display refresh.
func (l *Loop) Frame(fn func()) *Handle {
	return l.After(l.frame, fn)
}

// Cancel releases a scheduled callback. Nil and finished handles are
// ignored.
func (l *Loop) Cancel(h *Handle) {
	if h == nil || h.done {
		return
	}
	h.done = true
	delete(l.pending, h)
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Do runs fn on the loop. It reports false, without running fn, once
// the loop is closed.
func (l *Loop) Do(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	fn()
	return true
}

// Pending returns the number of callbacks waiting to run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Close cancels every pending callback. Nothing scheduled on the loop
// runs after Close returns.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for h := range l.pending {
		h.done = true
		if h.timer != nil {
			h.timer.Stop()
		}
	}
	clear(l.pending)
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
