package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// headerBlock is the logo and query line above the active filter summary.
func headerBlock(query, filters string, width int) string {
	lines := []string{HeaderStyle.Render(clip(CompactLogo+" "+query, width-2))}
	if filters != "" {
		lines = append(lines, muted(clip(filters, width-2)))
	}
	return strings.Join(lines, "\n")
}

// queryBox frames the query input and lights the border while it has focus.
func queryBox(in textinput.Model) string {
	border := MutedColor
	if in.Focused() {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(in.Width + 4).
		Render(in.View())
}

func centered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func muted(s string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(s)
}

// clip cuts s down to limit runes and marks the cut with an ellipsis.
func clip(s string, limit int) string {
	r := []rune(s)
	switch {
	case limit <= 0:
		return ""
	case len(r) <= limit:
		return s
	case limit == 1:
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// clipMiddle is clip for links: the cut goes in the middle so the host and
// the volume id both stay readable.
func clipMiddle(s string, limit int) string {
	r := []rune(s)
	if limit <= 1 || len(r) <= limit {
		return clip(s, limit)
	}
	tail := (limit - 1) - (limit-1)/2
	return string(r[:(limit-1)/2]) + "…" + string(r[len(r)-tail:])
}
