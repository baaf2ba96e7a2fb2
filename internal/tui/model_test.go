package tui

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/shell"
)

func testModel(t *testing.T) (Model, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	m := New(content.Default(), Options{
		Clock:  c,
		Rand:   rand.New(rand.NewSource(1)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(m.Close)
	require.NotNil(t, m.Init())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return updated.(Model), c
}

// step advances the clock and delivers the render signal the way the
// program would.
func step(t *testing.T, m Model, c *clock.FakeClock, d time.Duration) Model {
	t.Helper()
	c.Advance(d)
	updated, cmd := m.Update(renderMsg{})
	require.NotNil(t, cmd)
	return updated.(Model)
}

func TestWindowSizeResizesBand(t *testing.T) {
	m, _ := testModel(t)
	assert.Equal(t, 100.0, m.view.Width)
	assert.Equal(t, float64(bandRows), m.view.Height)
	assert.Equal(t, DefaultParticles().Count, m.Shell().ParticleCount())
}

func TestHeaderIsTypedOut(t *testing.T) {
	m, c := testModel(t)
	assert.NotContains(t, m.View(), "David")

	m = step(t, m, c, 500*time.Millisecond)
	screen := m.View()
	assert.Contains(t, screen, "David")
	assert.NotContains(t, screen, "David O'Neil")
	assert.Contains(t, screen, typingCursor)

	m = step(t, m, c, 700*time.Millisecond)
	assert.Contains(t, m.View(), "David O'Neil")
	assert.NotContains(t, m.View(), "Software Developer")

	m = step(t, m, c, 3*time.Second)
	assert.Contains(t, m.View(), "Software Developer")
	assert.NotContains(t, m.View(), "Skills")
}

func TestSectionsAppearAfterIntro(t *testing.T) {
	m, c := testModel(t)
	m = step(t, m, c, 30*time.Second)
	require.True(t, m.view.Finished)

	screen := m.View()
	for _, want := range []string{"About", "MERN", "Skills", "Frontend", "Tailwind", "Projects", "Siam Care", "https://basedbases.com", "quit"} {
		assert.Contains(t, screen, want)
	}
	assert.NotContains(t, screen, typingCursor)
}

func TestMouseHoverHighlightsBadge(t *testing.T) {
	m, c := testModel(t)
	m = step(t, m, c, 30*time.Second)

	_, hits := m.layout()
	require.Len(t, hits, len(content.Default().BadgeIDs()))

	var node badgeHit
	for _, hit := range hits {
		if hit.id == "backend/node" {
			node = hit
		}
	}
	require.Equal(t, "backend/node", node.id)

	updated, _ := m.Update(tea.MouseMsg{X: node.x0 + 1, Y: node.row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	m = updated.(Model)
	assert.Equal(t, "backend/node", m.Shell().Hovered())
	assert.Equal(t, "backend/node", m.view.Hovered)

	updated, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	m = updated.(Model)
	assert.Equal(t, "", m.Shell().Hovered())
}

func TestTabCyclesBadges(t *testing.T) {
	m, c := testModel(t)
	ids := content.Default().BadgeIDs()

	// Badges are not reachable before the skills section is shown.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "", m.Shell().Hovered())

	m = step(t, m, c, 30*time.Second)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, ids[0], m.Shell().Hovered())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, ids[1], m.Shell().Hovered())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, ids[len(ids)-1], m.Shell().Hovered())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, "", m.Shell().Hovered())
}

func TestQuitUnmounts(t *testing.T) {
	m, c := testModel(t)
	m = step(t, m, c, time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, 0, m.Shell().Pending())
	assert.Equal(t, 0, c.PendingCount())
}

func TestRenderWaitReturnsAfterQuit(t *testing.T) {
	m, _ := testModel(t)
	wait := waitForRender(m.dirty, m.done)

	result := make(chan tea.Msg, 1)
	go func() { result <- wait() }()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	select {
	case msg := <-result:
		// A render queued before the quit may still be delivered.
		if msg != nil {
			assert.IsType(t, renderMsg{}, msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("render wait still blocked after quit")
	}

	// Nothing is left to wake a new wait once the model has quit.
	assert.Nil(t, waitForRender(m.dirty, m.done)())
}

func TestRenderSignal(t *testing.T) {
	m, c := testModel(t)
	c.Advance(shell.DefaultTiming().FrameInterval)

	msg := waitForRender(m.dirty, m.done)()
	assert.IsType(t, renderMsg{}, msg)
}

func TestRasterize(t *testing.T) {
	rows := rasterize([]particles.Circle{
		{X: 2.4, Y: 1.7, R: 3},
		{X: 0, Y: 0, R: 1},
		{X: 9.9, Y: 2.2, R: 2},
		{X: 50, Y: 50, R: 2},
		{X: -1, Y: 0, R: 3},
	}, 10, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, "·         ", rows[0])
	assert.Equal(t, "  ●       ", rows[1])
	assert.Equal(t, "         •", rows[2])

	assert.Nil(t, rasterize(nil, 0, 3))
}

func TestRenderParagraphs(t *testing.T) {
	plain := newStyles(DefaultTheme).text
	bold := newStyles(DefaultTheme).bold
	paragraphs := renderParagraphs("Knows the\n**MERN** stack.\n\nSecond one.", plain, bold)
	require.Len(t, paragraphs, 2)
	assert.Contains(t, paragraphs[0], "MERN")
	assert.NotContains(t, paragraphs[0], "**")
	assert.NotContains(t, paragraphs[0], "\n")
	assert.Contains(t, paragraphs[1], "Second one.")
}
