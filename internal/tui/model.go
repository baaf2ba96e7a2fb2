// Package tui renders the portfolio in a terminal with bubbletea.
//
// The model drives the same shell.Shell the web front end uses. A band
// of particles drifts above the header, the header lines are typed out,
// and each section appears once the intro unlocks it. Moving the mouse
// over a skill badge highlights it; tab and shift+tab walk the badges
// from the keyboard.
package tui

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/shell"
)

const (
	defaultWidth  = 80
	categoryWidth = 10
	typingCursor  = "▌"
)

// Options configures a Model. Zero values fall back to defaults.
type Options struct {
	Timing    shell.Timing
	Particles particles.Config
	Clock     clock.Clock
	Rand      *rand.Rand
	Logger    *slog.Logger
	Theme     *Theme
	Keys      *KeyMap
}

// renderMsg tells the model that the shell has something new to show.
type renderMsg struct{}

// badgeHit is the screen span of one skill badge.
type badgeHit struct {
	id     string
	row    int
	x0, x1 int
}

// Model is the bubbletea model of the terminal portfolio.
type Model struct {
	shell  *shell.Shell
	dirty  chan struct{}
	done   chan struct{}
	stop   func()
	styles styles
	keys   KeyMap
	logger *slog.Logger

	badges []string
	focus  int
	width  int
	height int
	view   shell.View
}

// New builds a model for catalog. The shell is mounted by Init.
func New(catalog *content.Catalog, opts Options) Model {
	if opts.Timing == (shell.Timing{}) {
		opts.Timing = shell.DefaultTiming()
	}
	if opts.Particles == (particles.Config{}) {
		opts.Particles = DefaultParticles()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	sh := shell.New(catalog, particles.NewRecorder(defaultWidth, bandRows),
		shell.WithClock(opts.Clock),
		shell.WithRand(opts.Rand),
		shell.WithTiming(opts.Timing),
		shell.WithParticles(opts.Particles),
		shell.WithLogger(opts.Logger),
	)
	dirty := make(chan struct{}, 1)
	sh.OnRender(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	return Model{
		shell:  sh,
		dirty:  dirty,
		done:   done,
		stop:   sync.OnceFunc(func() { close(done) }),
		styles: newStyles(theme),
		keys:   keys,
		logger: opts.Logger,
		badges: catalog.BadgeIDs(),
		focus:  -1,
		width:  defaultWidth,
	}
}

// Shell returns the shell behind the model.
func (m Model) Shell() *shell.Shell { return m.shell }

// Close unmounts the shell and releases the pending render wait. It is
// safe to call more than once.
func (m Model) Close() {
	m.shell.Unmount()
	m.stop()
}

// Init mounts the shell and starts listening for render signals.
func (m Model) Init() tea.Cmd {
	m.shell.Mount()
	return waitForRender(m.dirty, m.done)
}

// waitForRender blocks until the shell signals a change. Once done is
// closed it returns nil, which bubbletea ignores.
func waitForRender(dirty, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-done:
			return nil
		default:
		}
		select {
		case <-dirty:
			return renderMsg{}
		case <-done:
			return nil
		}
	}
}

// Update handles a bubbletea message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderMsg:
		m.view = m.shell.View()
		return m, waitForRender(m.dirty, m.done)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.shell.Resize(float64(msg.Width), bandRows)
		m.view = m.shell.View()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextBadge):
			m.moveFocus(1)
		case key.Matches(msg, m.keys.PreviousBadge):
			m.moveFocus(-1)
		case key.Matches(msg, m.keys.ClearBadge):
			m.clearHover()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			m.pointAt(msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *Model) moveFocus(step int) {
	if len(m.badges) == 0 || !m.view.Visible(shell.StageSkills) {
		return
	}
	n := len(m.badges)
	if m.focus < 0 {
		if step > 0 {
			m.focus = 0
		} else {
			m.focus = n - 1
		}
	} else {
		m.focus = ((m.focus+step)%n + n) % n
	}
	m.shell.Hover(m.badges[m.focus])
	m.view = m.shell.View()
}

func (m *Model) clearHover() {
	if m.view.Hovered != "" {
		m.shell.Leave(m.view.Hovered)
	}
	m.focus = -1
	m.view = m.shell.View()
}

// pointAt highlights the badge under the pointer, or clears the
// highlight when the pointer left it.
func (m *Model) pointAt(x, y int) {
	_, hits := m.layout()
	for _, hit := range hits {
		if y == hit.row && x >= hit.x0 && x < hit.x1 {
			if hit.id != m.view.Hovered {
				m.shell.Hover(hit.id)
				m.focus = m.badgeIndex(hit.id)
				m.view = m.shell.View()
			}
			return
		}
	}
	if m.view.Hovered != "" {
		m.clearHover()
	}
}

func (m Model) badgeIndex(id string) int {
	for i, badge := range m.badges {
		if badge == id {
			return i
		}
	}
	return -1
}

// View renders the screen.
func (m Model) View() string {
	lines, _ := m.layout()
	return strings.Join(lines, "\n")
}

// layout renders the current view line by line and records where each
// visible skill badge landed.
func (m Model) layout() ([]string, []badgeHit) {
	v := m.view
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	catalog := m.shell.Catalog()
	st := m.styles

	var lines []string
	var hits []badgeHit

	for _, row := range rasterize(v.Particles, width, bandRows) {
		lines = append(lines, st.particle.Render(row))
	}

	typed := func(name string, style lipgloss.Style) {
		state := v.Stage(name)
		if !state.Started || (state.Complete && state.Shown == "") {
			return
		}
		line := style.Render(state.Shown)
		if !state.Complete {
			line += st.faint.Render(typingCursor)
		}
		lines = append(lines, "  "+line)
	}
	block := func(name string) (lipgloss.Style, bool) {
		state := v.Stage(name)
		if !state.Started {
			return st.text, false
		}
		if !state.Complete {
			return st.faint, true
		}
		return st.text, true
	}
	wrap := lipgloss.NewStyle().Width(max(width-4, 20))

	typed(shell.StageName, st.name)
	typed(shell.StageTitle, st.title)
	typed(shell.StageTagline, st.tagline)
	if _, ok := block(shell.StageLinks); ok {
		var links []string
		for _, link := range catalog.Profile().Links {
			links = append(links, st.link.Render(link.Label)+" "+st.faint.Render(link.URL))
		}
		lines = append(lines, "  "+strings.Join(links, "   "))
	}

	if v.Visible(shell.StageAboutHeading) {
		lines = append(lines, "")
		typed(shell.StageAboutHeading, st.heading)
	}
	if style, ok := block(shell.StageAbout); ok {
		for _, paragraph := range renderParagraphs(catalog.About(), style, st.bold) {
			for _, line := range strings.Split(wrap.Render(paragraph), "\n") {
				lines = append(lines, "  "+line)
			}
		}
	}

	if v.Visible(shell.StageSkillsHeading) {
		lines = append(lines, "")
		typed(shell.StageSkillsHeading, st.heading)
	}
	if _, ok := block(shell.StageSkills); ok {
		for _, category := range catalog.Skills() {
			line := "  " + st.category.Render(category.Name)
			for _, skill := range category.Skills {
				style := st.badge
				if skill.ID == v.Hovered {
					style = st.hovered
				}
				line += " "
				x0 := lipgloss.Width(line)
				line += style.Render(skill.Name)
				hits = append(hits, badgeHit{id: skill.ID, row: len(lines), x0: x0, x1: lipgloss.Width(line)})
			}
			lines = append(lines, line)
		}
	}

	if v.Visible(shell.StageProjectsHeading) {
		lines = append(lines, "")
		typed(shell.StageProjectsHeading, st.heading)
	}
	if style, ok := block(shell.StageProjects); ok {
		for _, project := range catalog.Projects() {
			lines = append(lines, "  "+st.project.Render(project.Title)+"  "+st.link.Render(project.Link))
			for _, line := range strings.Split(wrap.Render(style.Render(project.Description)), "\n") {
				lines = append(lines, "  "+line)
			}
		}
	}

	if v.Finished {
		var help []string
		for _, binding := range m.keys.help() {
			h := binding.Help()
			help = append(help, h.Key+" "+h.Desc)
		}
		lines = append(lines, "", "  "+st.help.Render(strings.Join(help, " · ")))
	}

	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return lines, hits
}
