package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/zenith/internal/tui/theme"
	"github.com/theirongolddev/zenith/internal/workout"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Fatalf("padding line %d has no ANSI styling: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	joined := CardRow([]string{
		ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20),
		ContentCard("Short", "A", 30),
	})
	lines := strings.Split(joined, "\n")
	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if got := lipgloss.Width(line); got != want {
			t.Fatalf("line %d width = %d, want %d", i, got, want)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {10, 1}} {
		widths := LayoutRow(tc.total, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if len(widths) != tc.n || sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) = %v, want %d widths summing to %d", tc.total, tc.n, widths, tc.n, tc.total)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Limit", Value: "₹226"},
		{Label: "Spent", Value: "₹120", Delta: "today"},
		{Label: "Balance", Value: "₹6,787"},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		for i, tab := range Tabs {
			got := lipgloss.Width(renderTab(tab, i == active))
			if want := TabVisualWidth(tab, i == active); got != want {
				t.Fatalf("tab %q active=%v width = %d, want %d", tab.Name, i == active, got, want)
			}
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('n'); got != 2 {
		t.Fatalf("TabIdxByKey('n') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	if got := Sparkline([]float64{3, 3, 3}, theme.Active.Blue); got != "▅▅▅" {
		t.Fatalf("Sparkline(flat) = %q, want %q", got, "▅▅▅")
	}
	if got := Sparkline([]float64{0, 10}, theme.Active.Blue); got != "▁█" {
		t.Fatalf("Sparkline(0,10) = %q, want %q", got, "▁█")
	}
}

func TestBarChartMarksLimit(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	out := BarChart([]float64{50, 400, 100}, []string{"1", "2", "3"}, 200, theme.Active.Blue, 40, 8)
	if !strings.Contains(out, "╌") {
		t.Fatalf("BarChart missing limit line:\n%s", out)
	}
	if !strings.Contains(out, "█") {
		t.Fatalf("BarChart missing bars:\n%s", out)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   workout.Countdown
		want string
	}{
		{workout.Countdown{Days: 12, Hours: 4, Minutes: 30}, "12d 4h 30m"},
		{workout.Countdown{Hours: 3, Minutes: 5}, "3h 5m"},
		{workout.Countdown{Minutes: 9}, "9m"},
		{workout.Countdown{}, "reached"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.in); got != tt.want {
			t.Fatalf("FormatCountdown(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
