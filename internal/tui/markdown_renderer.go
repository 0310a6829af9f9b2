package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders the policy panel and caches the last output per wrap width.
type markdownRenderer struct {
	width    int
	source   string
	rendered string
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled text wrapped to width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(width, 24)
	if r.renderer != nil && r.width == wrapWidth && r.source == markdown {
		return r.rendered
	}
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	r.source = markdown
	r.rendered = strings.TrimRight(out, "\n")
	return r.rendered
}
