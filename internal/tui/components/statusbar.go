package components

import (
	"strings"

	"github.com/theirongolddev/zenith/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is the content of the bottom bar.
type Status struct {
	Hints   string // key hints on the left
	Message string // last action result
	IsError bool
	Right   string // date and sync state
}

// RenderStatusBar renders the bottom status bar at full width.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgColor := t.Green
	if s.IsError {
		msgColor = t.Red
	}
	msgStyle := lipgloss.NewStyle().Foreground(msgColor).Background(t.Surface)
	rightStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := base.Render(" " + s.Hints)
	if s.Message != "" {
		left += base.Render("  ") + msgStyle.Render(s.Message)
	}
	right := rightStyle.Render(s.Right + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
