// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/zenith/internal/dates"
)

// Currency is the symbol FormatMoney prefixes. Commands set it from config.
var Currency = "₹"

// FormatMoney formats an amount with separators, dropping paise on whole
// values.
// e.g., 6787 -> "₹6,787", 85.5 -> "₹85.50", -12 -> "-₹12"
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	v = math.Round(v*100) / 100
	if v == math.Trunc(v) {
		return Currency + humanize.Comma(int64(v))
	}
	return Currency + humanize.FormatFloat("#,###.##", v)
}

// FormatLimit formats a daily limit rounded down to whole units, the way
// the allowance is shown everywhere.
func FormatLimit(v float64) string {
	return Currency + humanize.Comma(int64(math.Floor(v)))
}

// FormatKg formats a weight with at most one decimal.
// e.g., 72 -> "72 kg", 62.5 -> "62.5 kg"
func FormatKg(v float64) string {
	return trimFloat(v, 1) + " kg"
}

// FormatGrams formats protein grams.
func FormatGrams(v float64) string {
	return trimFloat(v, 1) + "g"
}

// FormatKcal formats calories with separators.
func FormatKcal(v float64) string {
	return humanize.Comma(int64(math.Round(v))) + " kcal"
}

func trimFloat(v float64, prec int) string {
	s := fmt.Sprintf("%.*f", prec, v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatDays renders a day count with the right plural.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatDate renders an ISO date as "Mon 02 Jan" with a relative hint for
// nearby days.
func FormatDate(iso, today string) string {
	t, ok := dates.ParseISO(iso)
	if !ok {
		return iso
	}
	label := t.Format("Mon 02 Jan")
	switch dates.DayDiff(today, iso) {
	case 0:
		return label + " (today)"
	case -1:
		return label + " (yesterday)"
	case 1:
		return label + " (tomorrow)"
	}
	return label
}

// FormatAgo renders how long ago t was, e.g. "3 minutes ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a signed change with an explicit sign.
func FormatDelta(current, previous float64, format func(float64) string) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + format(delta)
	}
	return "-" + format(-delta)
}

// FormatSets renders sets compactly, e.g. "60x8, 62.5x6".
func FormatSets(weights []float64, reps []int) string {
	parts := make([]string, 0, len(weights))
	for i := range weights {
		if i >= len(reps) {
			break
		}
		parts = append(parts, fmt.Sprintf("%sx%d", trimFloat(weights[i], 2), reps[i]))
	}
	return strings.Join(parts, ", ")
}
