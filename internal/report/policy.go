package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/evanschultz/rota/internal/domain"
)

// PolicyMarkdown describes the special-duty rotation rules.
func PolicyMarkdown(specialTasks []string) string {
	var b strings.Builder
	b.WriteString("# Rotation policy\n\n")
	if len(specialTasks) == 0 {
		b.WriteString("No special duties are configured.\n")
		return b.String()
	}
	names := make([]string, 0, len(specialTasks))
	for _, task := range specialTasks {
		names = append(names, "**"+task+"**")
	}
	fmt.Fprintf(&b, "%s rotate as special duties. Each one:\n\n", strings.Join(names, " and "))
	b.WriteString("1. is assigned every day a worker is available\n")
	b.WriteString("2. rotates across the team during the week\n")
	b.WriteString("3. never lands on a worker who already holds another duty that day\n")
	b.WriteString("4. avoids repeating a worker in the same week while someone else can take it\n\n")
	fmt.Fprintf(&b, "A special duty counts as **%d** intensity points, whatever its catalog weight.\n", domain.SpecialDutyIntensity)
	b.WriteString("\nRegular items go to the least-loaded worker; weighted mode hands out the heaviest items first.\n")
	return b.String()
}

// RenderPolicy renders the policy markdown for a terminal of width columns.
func RenderPolicy(specialTasks []string, width int) string {
	return renderMarkdown(PolicyMarkdown(specialTasks), width)
}

// renderMarkdown converts markdown to ANSI text, falling back to the raw input.
func renderMarkdown(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	if width < 24 {
		width = 24
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
