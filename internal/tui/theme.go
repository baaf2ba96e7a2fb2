package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the terminal color palette. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Particle   lipgloss.Color
	Link       lipgloss.Color

	BadgeForeground   lipgloss.Color
	BadgeBackground   lipgloss.Color
	HoverForeground   lipgloss.Color
	HoverBackground   lipgloss.Color
	HeadingForeground lipgloss.Color
}

// DefaultTheme suits a dark terminal.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Accent:     lipgloss.Color("75"),
	Particle:   lipgloss.Color("110"),
	Link:       lipgloss.Color("81"),

	BadgeForeground:   lipgloss.Color("252"),
	BadgeBackground:   lipgloss.Color("237"),
	HoverForeground:   lipgloss.Color("16"),
	HoverBackground:   lipgloss.Color("75"),
	HeadingForeground: lipgloss.Color("255"),
}

type styles struct {
	name     lipgloss.Style
	title    lipgloss.Style
	tagline  lipgloss.Style
	heading  lipgloss.Style
	text     lipgloss.Style
	faint    lipgloss.Style
	bold     lipgloss.Style
	link     lipgloss.Style
	particle lipgloss.Style
	badge    lipgloss.Style
	hovered  lipgloss.Style
	category lipgloss.Style
	project  lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme Theme) styles {
	badge := lipgloss.NewStyle().
		Foreground(theme.BadgeForeground).
		Background(theme.BadgeBackground).
		Padding(0, 1)
	return styles{
		name:     lipgloss.NewStyle().Bold(true).Foreground(theme.HeadingForeground),
		title:    lipgloss.NewStyle().Foreground(theme.Accent),
		tagline:  lipgloss.NewStyle().Italic(true).Foreground(theme.FaintText),
		heading:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.HeadingForeground),
		text:     lipgloss.NewStyle().Foreground(theme.NormalText),
		faint:    lipgloss.NewStyle().Foreground(theme.FaintText),
		bold:     lipgloss.NewStyle().Bold(true).Foreground(theme.HeadingForeground),
		link:     lipgloss.NewStyle().Underline(true).Foreground(theme.Link),
		particle: lipgloss.NewStyle().Foreground(theme.Particle),
		badge:    badge,
		hovered:  badge.Foreground(theme.HoverForeground).Background(theme.HoverBackground).Bold(true),
		category: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Width(categoryWidth),
		project:  lipgloss.NewStyle().Bold(true).Foreground(theme.HeadingForeground),
		help:     lipgloss.NewStyle().Foreground(theme.FaintText),
	}
}
