// Package reveal plays a scripted intro: a fixed list of stages, each
// allowed to start only after the previous one has completed.
//
// The chain is driven by a single current-stage index. A text stage
// types its text out with a typewriter and completes when the last rune
// is shown; a block stage (empty Text) only unlocks a section of the
// page and completes after its Hold. Every stage may wait Delay before
// starting. There are no timeouts: a stage that never completes leaves
// the rest of the chain unstarted.
package reveal

import (
	"time"

	"github.com/doneil/portfolio/internal/scheduler"
	"github.com/doneil/portfolio/internal/typewriter"
)

// Stage is one step of the intro.
type Stage struct {
	Name  string
	Text  string
	Delay time.Duration
	Hold  time.Duration
}

// State is the runtime view of a stage.
type State struct {
	Name     string `json:"name"`
	Text     string `json:"-"`
	Shown    string `json:"shown"`
	Started  bool   `json:"started"`
	Complete bool   `json:"complete"`
}

// Sequencer runs stages in order on a scheduler loop. Methods are
// loop-confined.
type Sequencer struct {
	loop     *scheduler.Loop
	interval time.Duration
	onChange func()
	onFinish func()

	stages  []Stage
	states  []State
	current int
	started bool

	writer  *typewriter.Writer
	pending *scheduler.Handle
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTypeInterval sets the typewriter tick for text stages.
func WithTypeInterval(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOnChange registers a callback for any visible change: a stage
// starting, a rune appearing, a stage completing.
func WithOnChange(fn func()) Option {
	return func(s *Sequencer) { s.onChange = fn }
}

// WithOnFinish registers a callback run once the last stage completes.
func WithOnFinish(fn func()) Option {
	return func(s *Sequencer) { s.onFinish = fn }
}

// New creates an idle sequencer over stages.
func New(loop *scheduler.Loop, stages []Stage, opts ...Option) *Sequencer {
	s := &Sequencer{
		loop:     loop,
		interval: typewriter.DefaultInterval,
		stages:   append([]Stage(nil), stages...),
		states:   make([]State, len(stages)),
	}
	for i, stage := range stages {
		s.states[i] = State{Name: stage.Name, Text: stage.Text}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the first stage. Calling it again does nothing.
func (s *Sequencer) Start() {
	if s.started {
		return
	}
	s.started = true
	s.schedule()
}

func (s *Sequencer) schedule() {
	if s.Finished() {
		if s.onFinish != nil {
			s.onFinish()
		}
		return
	}
	i := s.current
	s.pending = s.loop.After(s.stages[i].Delay, func() { s.begin(i) })
}

func (s *Sequencer) begin(i int) {
	s.pending = nil
	s.states[i].Started = true
	s.changed()

	stage := s.stages[i]
	if stage.Text == "" {
		s.pending = s.loop.After(stage.Hold, func() { s.complete(i) })
		return
	}

	var writer *typewriter.Writer
	writer = typewriter.New(s.loop, stage.Text,
		typewriter.WithInterval(s.interval),
		typewriter.WithOnChange(func() {
			s.states[i].Shown = writer.Text()
			s.changed()
		}),
		typewriter.WithOnDone(func() { s.complete(i) }),
	)
	s.writer = writer
	writer.Start()
}

func (s *Sequencer) complete(i int) {
	if i != s.current {
		return
	}
	s.pending = nil
	s.writer = nil
	s.states[i].Shown = s.states[i].Text
	s.states[i].Complete = true
	s.current++
	s.changed()
	s.schedule()
}

func (s *Sequencer) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Stop cancels whatever is pending. Stages not yet started never start.
func (s *Sequencer) Stop() {
	s.loop.Cancel(s.pending)
	s.pending = nil
	if s.writer != nil {
		s.writer.Stop()
		s.writer = nil
	}
}

// Current returns the index of the stage in progress or next to start.
// It equals the number of stages once the intro has finished.
func (s *Sequencer) Current() int { return s.current }

// Finished reports whether every stage has completed.
func (s *Sequencer) Finished() bool { return s.current >= len(s.stages) }

// States returns a snapshot of every stage.
func (s *Sequencer) States() []State {
	return append([]State(nil), s.states...)
}

// State looks up a stage by name.
func (s *Sequencer) State(name string) (State, bool) {
	for _, state := range s.states {
		if state.Name == name {
			return state, true
		}
	}
	return State{}, false
}

// Visible reports whether the named stage has started.
func (s *Sequencer) Visible(name string) bool {
	state, ok := s.State(name)
	return ok && state.Started
}
