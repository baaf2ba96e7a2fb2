package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// renderParagraphs turns markdown into styled terminal paragraphs. Soft
// line breaks become spaces so the text reflows at any width; strong
// emphasis is drawn with bold.
func renderParagraphs(source string, plain, bold lipgloss.Style) []string {
	if source == "" {
		return nil
	}
	src := []byte(source)
	document := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		paragraphs []string
		inline     strings.Builder
		strong     int
	)
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if entering {
				inline.Reset()
			} else if s := strings.TrimSpace(inline.String()); s != "" {
				paragraphs = append(paragraphs, s)
			}
		case *ast.Emphasis:
			if n.Level >= 2 {
				if entering {
					strong++
				} else {
					strong--
				}
			}
		case *ast.Text:
			if !entering {
				break
			}
			value := string(n.Segment.Value(src))
			if strong > 0 {
				inline.WriteString(bold.Render(value))
			} else {
				inline.WriteString(plain.Render(value))
			}
			if n.SoftLineBreak() {
				inline.WriteString(" ")
			}
			if n.HardLineBreak() {
				inline.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return paragraphs
}
