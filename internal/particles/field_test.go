package particles

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/scheduler"
)

func setup() (*scheduler.Loop, *clock.FakeClock) {
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return scheduler.New(c, scheduler.WithFrameInterval(16*time.Millisecond)), c
}

func TestStartAllocatesWithinBands(t *testing.T) {
	loop, _ := setup()
	cfg := DefaultConfig()
	field := NewField(cfg, rand.New(rand.NewSource(7)))
	surface := NewRecorder(800, 600)

	var started bool
	loop.Do(func() { started = field.Start(loop, surface) })
	require.True(t, started)
	assert.True(t, field.Running())
	assert.Equal(t, cfg.Count, field.Len())

	for _, p := range field.Particles() {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 800.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 600.0)
		assert.GreaterOrEqual(t, p.Radius, cfg.MinRadius)
		assert.LessOrEqual(t, p.Radius, cfg.MaxRadius)
		assert.LessOrEqual(t, p.VX, cfg.MaxSpeed)
		assert.GreaterOrEqual(t, p.VX, -cfg.MaxSpeed)
		assert.LessOrEqual(t, p.VY, cfg.MaxSpeed)
		assert.GreaterOrEqual(t, p.VY, -cfg.MaxSpeed)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() []Particle {
		loop, c := setup()
		field := NewField(DefaultConfig(), rand.New(rand.NewSource(42)))
		loop.Do(func() { field.Start(loop, NewRecorder(640, 480)) })
		c.Advance(time.Second)
		return field.Particles()
	}
	assert.Equal(t, run(), run())
}

func TestStartWithoutSurfaceDoesNotRun(t *testing.T) {
	loop, c := setup()
	field := NewField(DefaultConfig(), rand.New(rand.NewSource(1)))

	var started bool
	loop.Do(func() { started = field.Start(loop, nil) })
	assert.False(t, started)
	assert.False(t, field.Running())
	assert.Equal(t, 0, c.PendingCount())
}

func TestFrameDrawsEveryParticle(t *testing.T) {
	loop, c := setup()
	field := NewField(Config{Count: 12, MinRadius: 2, MaxRadius: 2, MaxSpeed: 1}, rand.New(rand.NewSource(3)))
	surface := NewRecorder(100, 100)
	loop.Do(func() { field.Start(loop, surface) })

	before := field.Particles()
	c.Advance(16 * time.Millisecond)

	circles := surface.Circles()
	require.Len(t, circles, 12)
	for i, circle := range circles {
		assert.Equal(t, before[i].X, circle.X)
		assert.Equal(t, before[i].Y, circle.Y)
		assert.Equal(t, 2.0, circle.R)
	}
	assert.Equal(t, uint64(1), field.Frames())

	// The next frame clears before drawing.
	c.Advance(16 * time.Millisecond)
	assert.Len(t, surface.Circles(), 12)
}

func TestParticlesStayInBoundsAndBounce(t *testing.T) {
	loop, _ := setup()
	const width, height = 50.0, 30.0
	field := NewField(Config{Count: 80, MinRadius: 1, MaxRadius: 3, MaxSpeed: 4}, rand.New(rand.NewSource(99)))
	loop.Do(func() { field.Start(loop, NewRecorder(width, height)) })

	bounces := 0
	prev := field.Particles()
	for frame := 0; frame < 5000; frame++ {
		loop.Do(field.Step)
		next := field.Particles()
		for i, p := range next {
			require.GreaterOrEqual(t, p.X, 0.0)
			require.LessOrEqual(t, p.X, width)
			require.GreaterOrEqual(t, p.Y, 0.0)
			require.LessOrEqual(t, p.Y, height)

			if (p.X == 0 && prev[i].VX < 0) || (p.X == width && prev[i].VX > 0) {
				require.Equal(t, -prev[i].VX, p.VX, "x bounce must flip vx")
				bounces++
			}
			if (p.Y == 0 && prev[i].VY < 0) || (p.Y == height && prev[i].VY > 0) {
				require.Equal(t, -prev[i].VY, p.VY, "y bounce must flip vy")
				bounces++
			}
			// Speed is never damped.
			require.InDelta(t, abs(prev[i].VX), abs(p.VX), 1e-12)
			require.InDelta(t, abs(prev[i].VY), abs(p.VY), 1e-12)
		}
		prev = next
	}
	assert.Positive(t, bounces)
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name             string
		pos, vel, extent float64
		wantPos, wantVel float64
	}{
		{"interior", 5, 1, 10, 6, 1},
		{"cross right", 9.5, 1, 10, 10, -1},
		{"land on right edge", 9, 1, 10, 10, -1},
		{"cross left", 0.5, -1, 10, 0, 1},
		{"outside moving inward", 15, -1, 10, 14, -1},
		{"outside moving outward", 15, 1, 10, 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := advance(tt.pos, tt.vel, tt.extent)
			assert.Equal(t, tt.wantPos, pos)
			assert.Equal(t, tt.wantVel, vel)
		})
	}
}

func TestResizeKeepsParticles(t *testing.T) {
	loop, c := setup()
	field := NewField(DefaultConfig(), rand.New(rand.NewSource(5)))
	surface := NewRecorder(1024, 768)
	loop.Do(func() { field.Start(loop, surface) })
	c.Advance(100 * time.Millisecond)

	before := field.Particles()
	loop.Do(func() { field.Resize(320, 200) })

	w, h := surface.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, before, field.Particles())
	assert.Equal(t, DefaultConfig().Count, field.Len())

	c.Advance(time.Second)
	assert.Equal(t, DefaultConfig().Count, field.Len())
}

func TestStopCancelsFrames(t *testing.T) {
	loop, c := setup()
	field := NewField(DefaultConfig(), rand.New(rand.NewSource(5)))
	loop.Do(func() { field.Start(loop, NewRecorder(100, 100)) })
	c.Advance(160 * time.Millisecond)
	frames := field.Frames()

	loop.Do(field.Stop)
	c.Advance(time.Second)

	assert.Equal(t, frames, field.Frames())
	assert.False(t, field.Running())
	assert.Equal(t, 0, field.Len())
	assert.Equal(t, 0, c.PendingCount())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
