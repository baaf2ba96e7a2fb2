package tui

import (
	"strings"

	"github.com/doneil/portfolio/internal/particles"
)

// bandRows is the height, in cells, of the particle band above the
// header.
const bandRows = 5

// DefaultParticles scales the particle field to terminal cells.
func DefaultParticles() particles.Config {
	return particles.Config{
		Count:     40,
		MinRadius: 1,
		MaxRadius: 3,
		MaxSpeed:  0.08,
	}
}

// rasterize draws circles into a width by height grid of cells, one
// glyph per particle. Larger radii get heavier glyphs; a later circle
// in the same cell wins.
func rasterize(circles []particles.Circle, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	grid := make([][]rune, height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", width))
	}
	for _, c := range circles {
		col, row := int(c.X), int(c.Y)
		if col < 0 || row < 0 {
			continue
		}
		if col >= width {
			col = width - 1
		}
		if row >= height {
			row = height - 1
		}
		grid[row][col] = glyph(c.R)
	}
	rows := make([]string, height)
	for i, line := range grid {
		rows[i] = string(line)
	}
	return rows
}

func glyph(radius float64) rune {
	switch {
	case radius < 1.7:
		return '·'
	case radius < 2.4:
		return '•'
	default:
		return '●'
	}
}
