package preview

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6B7280")

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	footerStyle = lipgloss.NewStyle().
			Foreground(muted)
)

// Frame draws a border around the canvas with a title above and an optional
// footer below.
func Frame(c *Canvas, title, footer string) string {
	parts := []string{}
	if title != "" {
		parts = append(parts, titleStyle.Render(title))
	}
	parts = append(parts, frameStyle.Render(c.String()))
	if footer != "" {
		parts = append(parts, footerStyle.Render(footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Markdown renders markdown for the terminal, wrapped at width columns.
func Markdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
