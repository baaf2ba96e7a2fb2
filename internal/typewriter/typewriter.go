// Package typewriter reveals a string one rune per tick.
package typewriter

import (
	"time"

	"github.com/doneil/portfolio/internal/scheduler"
)

// DefaultInterval is the delay between two revealed runes.
const DefaultInterval = 100 * time.Millisecond

// Writer grows a visible prefix of its target text on a scheduler loop.
// All methods are loop-confined.
type Writer struct {
	loop     *scheduler.Loop
	interval time.Duration
	onDone   func()
	onChange func()

	text    []rune
	shown   int
	running bool
	done    bool
	pending *scheduler.Handle
}

// Option configures a Writer.
type Option func(*Writer)

// WithInterval sets the tick between runes.
func WithInterval(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithOnDone registers the completion callback. It runs exactly once per
// reveal, right after the last rune is shown.
func WithOnDone(fn func()) Option {
	return func(w *Writer) { w.onDone = fn }
}

// WithOnChange registers a callback invoked whenever the visible prefix
// changes.
func WithOnChange(fn func()) Option {
	return func(w *Writer) { w.onChange = fn }
}

// New creates a stopped writer for text.
func New(loop *scheduler.Loop, text string, opts ...Option) *Writer {
	w := &Writer{
		loop:     loop,
		interval: DefaultInterval,
		text:     []rune(text),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the reveal. Starting a running or finished writer does
// nothing.
func (w *Writer) Start() {
	if w.running || w.done {
		return
	}
	w.running = true
	if len(w.text) == 0 {
		w.pending = w.loop.After(0, w.finish)
		return
	}
	w.pending = w.loop.After(w.interval, w.tick)
}

func (w *Writer) tick() {
	w.shown++
	if w.onChange != nil {
		w.onChange()
	}
	if w.shown >= len(w.text) {
		w.finish()
		return
	}
	w.pending = w.loop.After(w.interval, w.tick)
}

func (w *Writer) finish() {
	w.pending = nil
	w.running = false
	w.done = true
	if w.onDone != nil {
		w.onDone()
	}
}

// Stop cancels the pending tick. The visible prefix is kept and the
// completion callback will not fire.
func (w *Writer) Stop() {
	w.loop.Cancel(w.pending)
	w.pending = nil
	w.running = false
}

// Reset swaps in a new target. A different text clears the prefix and,
// if the writer was running, restarts the reveal from scratch; the old
// text's completion never fires. Resetting to the text already being
// revealed is ignored.
func (w *Writer) Reset(text string) {
	if w.running && string(w.text) == text {
		return
	}
	wasRunning := w.running
	w.Stop()
	w.text = []rune(text)
	w.shown = 0
	w.done = false
	if w.onChange != nil {
		w.onChange()
	}
	if wasRunning {
		w.Start()
	}
}

// Text returns the currently visible prefix.
func (w *Writer) Text() string { return string(w.text[:w.shown]) }

// Target returns the full text being revealed.
func (w *Writer) Target() string { return string(w.text) }

// Done reports whether the whole text is visible and completion fired.
func (w *Writer) Done() bool { return w.done }

// Running reports whether a reveal is in progress.
func (w *Writer) Running() bool { return w.running }
