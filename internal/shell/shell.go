// Package shell composes the page: content, particle background and
// intro sequence on one scheduler loop, plus the skill badge highlight.
//
// A Shell is single-use. Mount starts the particle loop and the intro;
// Unmount cancels every frame and timer they scheduled. Renderers read
// the page through View and learn about changes through OnRender.
package shell

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/reveal"
	"github.com/doneil/portfolio/internal/scheduler"
)

// Shell is the presentation shell. It is safe for concurrent use: every
// method runs on the shell's loop.
type Shell struct {
	loop    *scheduler.Loop
	catalog *content.Catalog
	surface particles.Surface
	field   *particles.Field
	seq     *reveal.Sequencer
	logger  *slog.Logger

	hovered  string
	mounted  bool
	onRender []func()
}

type options struct {
	clock     clock.Clock
	rng       *rand.Rand
	timing    Timing
	particles particles.Config
	stages    []reveal.Stage
	logger    *slog.Logger
}

// Option configures a Shell.
type Option func(*options)

// WithClock sets the time source. Defaults to clock.Real().
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRand sets the random source used to seed particles.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithTiming overrides the pacing constants.
func WithTiming(t Timing) Option {
	return func(o *options) { o.timing = t }
}

// WithParticles overrides the particle configuration.
func WithParticles(cfg particles.Config) Option {
	return func(o *options) { o.particles = cfg }
}

// WithStages replaces the intro script built by IntroStages.
func WithStages(stages []reveal.Stage) Option {
	return func(o *options) { o.stages = stages }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds an unmounted shell rendering catalog onto surface.
func New(catalog *content.Catalog, surface particles.Surface, opts ...Option) *Shell {
	o := options{
		clock:     clock.Real(),
		timing:    DefaultTiming(),
		particles: particles.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.stages == nil {
		o.stages = IntroStages(catalog.Profile(), o.timing)
	}

	s := &Shell{
		loop:    scheduler.New(o.clock, scheduler.WithFrameInterval(o.timing.FrameInterval)),
		catalog: catalog,
		surface: surface,
		field:   particles.NewField(o.particles, o.rng),
		logger:  o.logger,
	}
	s.seq = reveal.New(s.loop, o.stages,
		reveal.WithTypeInterval(o.timing.TypeInterval),
		reveal.WithOnChange(s.render),
		reveal.WithOnFinish(func() { s.logger.Debug("intro finished") }),
	)
	return s
}

// OnRender registers fn to be called, on the loop, after anything
// visible changes. fn must not call back into the Shell; hand the
// signal to another goroutine instead.
func (s *Shell) OnRender(fn func()) {
	s.loop.Do(func() { s.onRender = append(s.onRender, fn) })
}

func (s *Shell) render() {
	for _, fn := range s.onRender {
		fn()
	}
}

// Mount starts the particle background and the intro. It reports false
// if the shell was already mounted or has been unmounted.
func (s *Shell) Mount() bool {
	mounted := false
	s.loop.Do(func() {
		if s.mounted {
			return
		}
		s.mounted = true
		mounted = true
		s.field.OnFrame(s.render)
		if !s.field.Start(s.loop, s.surface) {
			s.logger.Warn("no drawing surface, particle background disabled")
		}
		s.seq.Start()
	})
	if mounted {
		s.logger.Debug("shell mounted", "particles", s.ParticleCount())
	}
	return mounted
}

// Unmount stops the particle loop and the intro and releases every
// pending callback. It is safe to call more than once.
func (s *Shell) Unmount() {
	s.loop.Do(func() {
		s.field.Stop()
		s.seq.Stop()
		s.hovered = ""
	})
	s.loop.Close()
	s.logger.Debug("shell unmounted")
}

// Pending returns the number of frames and timers still scheduled.
func (s *Shell) Pending() int { return s.loop.Pending() }

// Hover highlights the badge id, replacing any other highlight. Unknown
// ids are ignored and reported as false.
func (s *Shell) Hover(id string) bool {
	if _, ok := s.catalog.Skill(id); !ok {
		return false
	}
	return s.loop.Do(func() {
		if s.hovered == id {
			return
		}
		s.hovered = id
		s.render()
	})
}

// Leave clears the highlight if id is the highlighted badge.
func (s *Shell) Leave(id string) {
	s.loop.Do(func() {
		if s.hovered == "" || s.hovered != id {
			return
		}
		s.hovered = ""
		s.render()
	})
}

// Hovered returns the highlighted badge id, or "".
func (s *Shell) Hovered() string {
	var id string
	s.loop.Do(func() { id = s.hovered })
	return id
}

// Resize updates the drawing surface. Particles are kept as they are.
// Negative and non-finite sizes are ignored.
func (s *Shell) Resize(width, height float64) {
	if !validExtent(width) || !validExtent(height) {
		return
	}
	s.loop.Do(func() {
		if s.surface == nil {
			return
		}
		s.field.Resize(width, height)
		s.render()
	})
}

func validExtent(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// ParticleCount returns the number of live particles.
func (s *Shell) ParticleCount() int {
	var n int
	s.loop.Do(func() { n = s.field.Len() })
	return n
}

// Catalog returns the content being shown.
func (s *Shell) Catalog() *content.Catalog { return s.catalog }
