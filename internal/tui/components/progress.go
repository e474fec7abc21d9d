package components

import (
	"fmt"

	"github.com/theirongolddev/zenith/internal/tui/theme"
	"github.com/theirongolddev/zenith/internal/workout"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct maps how much of a limit is used to green, yellow, orange
// or red.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct > 1:
		return t.Red
	case pct >= 0.9:
		return t.Orange
	case pct >= 0.7:
		return t.Yellow
	default:
		return t.Green
	}
}

// colorForGoal is ColorForPct reversed: filling a goal is good.
func colorForGoal(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.GreenBright
	case pct >= 0.6:
		return t.Green
	case pct >= 0.3:
		return t.Yellow
	default:
		return t.Orange
	}
}

// GoalBar renders "label [bar] pct" for current against goal. With
// overIsBad the bar reddens as it fills, as for spending against a limit.
func GoalBar(label string, current, goal float64, labelW, barWidth int, overIsBad bool) string {
	t := theme.Active

	pct := 0.0
	if goal > 0 {
		pct = current / goal
	}
	color := colorForGoal(pct)
	if overIsBad {
		color = ColorForPct(pct)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(min(max(pct, 0), 1)) +
		space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// FormatCountdown renders a goal countdown as "12d 4h 30m".
func FormatCountdown(c workout.Countdown) string {
	switch {
	case c.Days > 0:
		return fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)
	case c.Hours > 0:
		return fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
	case c.Minutes > 0:
		return fmt.Sprintf("%dm", c.Minutes)
	default:
		return "reached"
	}
}
