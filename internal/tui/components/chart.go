package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/zenith/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values scaled between their min and max. A flat
// series renders as mid-height blocks.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var buf strings.Builder
	for _, v := range values {
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders vertical bars with a y-axis and one label per bar.
// A reference line is drawn at limit when it is positive; bars above it
// use the theme's red.
func BarChart(values []float64, labels []string, limit float64, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := limit
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}
	step := chartTickStep(peak)
	ceiling := math.Ceil(peak/step) * step

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	chartW := max(width-yLabelW-1, 5)

	n := len(values)
	barW := max((chartW-(n-1))/n, 1)
	barW = min(barW, 5)

	surface := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	normal := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	limitStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	limitRow := -1
	if limit > 0 {
		limitRow = int(math.Round(limit / ceiling * float64(height)))
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = formatChartLabel(ceiling)
		} else if row == limitRow {
			label = formatChartLabel(limit)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axis.Render("│"))

		for i, v := range values {
			if i > 0 {
				b.WriteString(surface.Render(" "))
			}
			style := normal
			if limit > 0 && v > limit {
				style = over
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)-1))
				b.WriteString(style.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			case row == limitRow:
				b.WriteString(limitStyle.Render(strings.Repeat("╌", barW)))
			default:
				b.WriteString(surface.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n - 1)
	b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axis.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		var lb strings.Builder
		for i, l := range labels {
			if i > 0 {
				lb.WriteString(" ")
			}
			r := []rune(l)
			if len(r) > barW {
				r = r[len(r)-barW:]
			}
			lb.WriteString(fmt.Sprintf("%-*s", barW, string(r)))
		}
		b.WriteString("\n")
		b.WriteString(surface.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(strings.TrimRight(lb.String(), " ")))
	}
	return b.String()
}

// chartTickStep picks a round interval giving about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e5:
		return fmt.Sprintf("%.0fk", v/1e3)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
