package shell

import (
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/reveal"
)

// View is a point-in-time snapshot of everything a renderer draws.
type View struct {
	Stages    []reveal.State     `json:"stages"`
	Finished  bool               `json:"finished"`
	Hovered   string             `json:"hovered"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Frame     uint64             `json:"frame"`
	Particles []particles.Circle `json:"particles"`
}

// Stage returns the named stage state.
func (v View) Stage(name string) reveal.State {
	for _, state := range v.Stages {
		if state.Name == name {
			return state
		}
	}
	return reveal.State{Name: name}
}

// Visible reports whether the named stage has started.
func (v View) Visible(name string) bool { return v.Stage(name).Started }

// Shown returns the visible text of a stage.
func (v View) Shown(name string) string { return v.Stage(name).Shown }

type recorded interface {
	Circles() []particles.Circle
}

// View snapshots the page. Particles come from the surface's last
// recorded frame when the surface keeps one, and from the live particle
// state otherwise.
func (s *Shell) View() View {
	var v View
	s.loop.Do(func() {
		v = View{
			Stages:   s.seq.States(),
			Finished: s.seq.Finished(),
			Hovered:  s.hovered,
			Frame:    s.field.Frames(),
		}
		if s.surface != nil {
			v.Width, v.Height = s.surface.Size()
		}
		if rec, ok := s.surface.(recorded); ok {
			v.Particles = rec.Circles()
			return
		}
		for _, p := range s.field.Particles() {
			v.Particles = append(v.Particles, particles.Circle{X: p.X, Y: p.Y, R: p.Radius})
		}
	})
	return v
}
