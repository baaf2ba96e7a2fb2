package shell

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
)

func newShell(t *testing.T, surface particles.Surface) (*Shell, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := New(content.Default(), surface,
		WithClock(c),
		WithRand(rand.New(rand.NewSource(1))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	t.Cleanup(s.Unmount)
	return s, c
}

func TestMountEndToEndTiming(t *testing.T) {
	s, c := newShell(t, particles.NewRecorder(1280, 800))
	require.True(t, s.Mount())
	assert.False(t, s.Mount())

	c.Advance(0)
	name := s.Catalog().Profile().Name
	require.Len(t, []rune(name), 12)

	c.Advance(1100 * time.Millisecond)
	assert.Equal(t, "David O'Nei", s.View().Shown(StageName))

	c.Advance(100 * time.Millisecond)
	view := s.View()
	assert.Equal(t, name, view.Shown(StageName))
	assert.True(t, view.Stage(StageName).Complete)

	// The title's first rune waits for the stage delay plus one tick.
	delay := DefaultTiming().StageDelay
	c.Advance(delay + DefaultTiming().TypeInterval - time.Millisecond)
	assert.Equal(t, "", s.View().Shown(StageTitle))
	c.Advance(time.Millisecond)
	assert.Equal(t, "S", s.View().Shown(StageTitle))
}

func TestIntroRunsToCompletionInOrder(t *testing.T) {
	s, c := newShell(t, particles.NewRecorder(640, 480))
	s.Mount()

	for i := 0; i < 300; i++ {
		c.Advance(50 * time.Millisecond)
		view := s.View()
		for j := 1; j < len(view.Stages); j++ {
			if view.Stages[j].Started {
				require.True(t, view.Stages[j-1].Complete, "%s before %s", view.Stages[j].Name, view.Stages[j-1].Name)
			}
		}
	}

	view := s.View()
	assert.True(t, view.Finished)
	assert.Equal(t, "Projects", view.Shown(StageProjectsHeading))
	assert.True(t, view.Visible(StageProjects))
}

func TestHoverIsSingleValued(t *testing.T) {
	s, _ := newShell(t, particles.NewRecorder(640, 480))
	s.Mount()

	assert.True(t, s.Hover("frontend/react"))
	assert.Equal(t, "frontend/react", s.Hovered())

	assert.True(t, s.Hover("backend/node"))
	assert.Equal(t, "backend/node", s.Hovered())

	// Leaving the badge that lost the highlight changes nothing.
	s.Leave("frontend/react")
	assert.Equal(t, "backend/node", s.Hovered())

	s.Leave("backend/node")
	assert.Equal(t, "", s.Hovered())

	assert.False(t, s.Hover("backend/cobol"))
	assert.Equal(t, "", s.Hovered())
}

func TestResizeKeepsParticleCount(t *testing.T) {
	surface := particles.NewRecorder(1280, 800)
	s, c := newShell(t, surface)
	s.Mount()
	c.Advance(100 * time.Millisecond)

	count := s.ParticleCount()
	require.Equal(t, particles.DefaultConfig().Count, count)

	s.Resize(375, 667)
	view := s.View()
	assert.Equal(t, 375.0, view.Width)
	assert.Equal(t, 667.0, view.Height)
	assert.Equal(t, count, s.ParticleCount())

	c.Advance(time.Second)
	assert.Equal(t, count, s.ParticleCount())
	assert.Len(t, s.View().Particles, count)
}

func TestResizeIgnoresInvalidSizes(t *testing.T) {
	s, c := newShell(t, particles.NewRecorder(640, 480))
	s.Mount()

	for _, size := range [][2]float64{
		{math.NaN(), 480},
		{640, math.Inf(1)},
		{math.Inf(-1), 480},
		{-1, 480},
	} {
		s.Resize(size[0], size[1])
		view := s.View()
		assert.Equal(t, 640.0, view.Width)
		assert.Equal(t, 480.0, view.Height)
	}

	c.Advance(time.Second)
	for _, p := range s.View().Particles {
		require.False(t, math.IsNaN(p.X))
		require.GreaterOrEqual(t, p.X, 0.0)
		require.LessOrEqual(t, p.X, 640.0)
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	s, c := newShell(t, particles.NewRecorder(640, 480))
	s.Mount()
	c.Advance(700 * time.Millisecond)
	require.Positive(t, c.PendingCount())

	s.Unmount()
	s.Unmount()
	assert.Equal(t, 0, c.PendingCount())
	assert.Equal(t, 0, s.Pending())

	c.Advance(time.Minute)
	assert.Equal(t, 0, c.PendingCount())
	assert.False(t, s.Mount())
}

func TestMountWithoutSurfaceStillPlaysIntro(t *testing.T) {
	s, c := newShell(t, nil)
	s.Mount()
	c.Advance(1200 * time.Millisecond)

	view := s.View()
	assert.Equal(t, "David O'Neil", view.Shown(StageName))
	assert.Empty(t, view.Particles)
	assert.Equal(t, 0, s.ParticleCount())
}

func TestOnRenderSignalsChanges(t *testing.T) {
	s, c := newShell(t, particles.NewRecorder(100, 100))
	renders := 0
	s.OnRender(func() { renders++ })
	s.Mount()

	c.Advance(DefaultTiming().FrameInterval)
	assert.Positive(t, renders)

	before := renders
	s.Hover("devops/stripe")
	assert.Equal(t, before+1, renders)
	s.Hover("devops/stripe")
	assert.Equal(t, before+1, renders)
}

func TestIntroStagesFollowProfile(t *testing.T) {
	profile := content.Profile{Name: "Ada", Title: "Engineer"}
	stages := IntroStages(profile, DefaultTiming())
	require.Len(t, stages, 10)
	assert.Equal(t, "Ada", stages[0].Text)
	assert.Zero(t, stages[0].Delay)
	assert.Equal(t, "Engineer", stages[1].Text)
	assert.Equal(t, StageTagline, stages[2].Name)
	assert.Empty(t, stages[2].Text)
	assert.Equal(t, "About", stages[4].Text)
	assert.Equal(t, time.Second, stages[4].Delay)
}
