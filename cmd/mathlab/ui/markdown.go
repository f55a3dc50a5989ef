package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown for the terminal with the theme's glamour style.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown builds a renderer that wraps at width columns. A failed
// renderer leaves Render returning its input unchanged.
func NewMarkdown(theme Theme, width int) *Markdown {
	if width < 20 {
		width = 80
	}
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Markdown{}
	}
	return &Markdown{renderer: r}
}

// Render returns md rendered, or md itself when rendering fails.
func (m *Markdown) Render(md string) string {
	if m == nil || m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
