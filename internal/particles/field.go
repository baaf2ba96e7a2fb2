// Package particles animates the drifting dots behind the page.
//
// A Field owns its particles and a frame loop on a scheduler.Loop. Every
// frame it clears the surface, draws each particle, moves it by its
// velocity and bounces it off the surface edges by flipping the sign of
// the velocity component that crossed.
package particles

import (
	"math/rand"
	"time"

	"github.com/doneil/portfolio/internal/scheduler"
)

// Particle is a single dot. Velocity is in surface units per frame.
type Particle struct {
	X, Y   float64
	Radius float64
	VX, VY float64
}

// Config bounds the randomized initial state.
type Config struct {
	Count     int
	MinRadius float64
	MaxRadius float64
	MaxSpeed  float64
}

// DefaultConfig matches the browser canvas: 50 dots, 1-3px radius,
// drifting at most half a pixel per frame on each axis.
func DefaultConfig() Config {
	return Config{
		Count:     50,
		MinRadius: 1,
		MaxRadius: 3,
		MaxSpeed:  0.5,
	}
}

// Field is the particle background. Methods are loop-confined.
type Field struct {
	cfg Config
	rng *rand.Rand

	loop      *scheduler.Loop
	surface   Surface
	particles []Particle
	frame     *scheduler.Handle
	frames    uint64
	onFrame   func()
}

// NewField creates an idle field. A nil rng gets a time-seeded source.
func NewField(cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MaxRadius < cfg.MinRadius {
		cfg.MaxRadius = cfg.MinRadius
	}
	return &Field{cfg: cfg, rng: rng}
}

// Start allocates the particles across the surface and schedules the
// first frame. Without a surface it does nothing and returns false.
func (f *Field) Start(loop *scheduler.Loop, surface Surface) bool {
	if surface == nil || loop == nil {
		return false
	}
	if f.Running() {
		return true
	}
	f.loop = loop
	f.surface = surface
	f.seed()
	f.frame = loop.Frame(f.nextFrame)
	return true
}

func (f *Field) seed() {
	width, height := f.surface.Size()
	f.particles = make([]Particle, f.cfg.Count)
	for i := range f.particles {
		f.particles[i] = Particle{
			X:      f.rng.Float64() * width,
			Y:      f.rng.Float64() * height,
			Radius: f.cfg.MinRadius + f.rng.Float64()*(f.cfg.MaxRadius-f.cfg.MinRadius),
			VX:     (f.rng.Float64()*2 - 1) * f.cfg.MaxSpeed,
			VY:     (f.rng.Float64()*2 - 1) * f.cfg.MaxSpeed,
		}
	}
}

// OnFrame registers fn to run after every rendered frame.
func (f *Field) OnFrame(fn func()) { f.onFrame = fn }

func (f *Field) nextFrame() {
	f.Step()
	f.frame = f.loop.Frame(f.nextFrame)
	if f.onFrame != nil {
		f.onFrame()
	}
}

// Step renders one frame and advances every particle.
func (f *Field) Step() {
	if f.surface == nil {
		return
	}
	width, height := f.surface.Size()
	f.surface.Clear()
	for i := range f.particles {
		p := &f.particles[i]
		f.surface.FillCircle(p.X, p.Y, p.Radius)
		p.X, p.VX = advance(p.X, p.VX, width)
		p.Y, p.VY = advance(p.Y, p.VY, height)
	}
	f.frames++
}

// advance moves pos by vel along an axis of the given extent. Reaching
// or passing an edge while heading outward flips vel and pins pos to
// the edge. A particle left outside by a shrinking resize is pinned on
// its next outward step.
func advance(pos, vel, extent float64) (float64, float64) {
	pos += vel
	switch {
	case pos <= 0 && vel < 0:
		return 0, -vel
	case pos >= extent && vel > 0:
		return extent, -vel
	}
	return pos, vel
}

// Resize changes the surface dimensions. Particles keep their state.
func (f *Field) Resize(width, height float64) {
	if f.surface != nil {
		f.surface.Resize(width, height)
	}
}

// Stop cancels the frame loop and releases the particles.
func (f *Field) Stop() {
	if f.loop != nil {
		f.loop.Cancel(f.frame)
	}
	f.frame = nil
	f.particles = nil
}

// Running reports whether frames are being scheduled.
func (f *Field) Running() bool { return f.frame.Active() }

// Len returns the number of live particles.
func (f *Field) Len() int { return len(f.particles) }

// Frames returns how many frames have been rendered.
func (f *Field) Frames() uint64 { return f.frames }

// Particles returns a copy of the current particle state.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}
