// Package schedule maps calendar days onto a cyclic workout rotation.
//
// The only stored state is an anchor pair per template: a date and the
// rotation index that date had. Every other day's slot is derived from it
// by modular offset, so the schedule rolls forward without writes.
package schedule

import (
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// mod is the floor remainder: always in [0, n) for n > 0.
func mod(a, n int) int {
	return ((a % n) + n) % n
}

// TodayIndex returns the rotation index for today given an anchor.
// It returns 0 for an empty rotation.
func TodayIndex(anchor model.Anchor, today string, n int) int {
	if n <= 0 {
		return 0
	}
	diff := dates.DayDiff(anchor.Date, today)
	return mod(anchor.Index+diff, n)
}

// Rebase returns the anchor that makes today land on desired.
func Rebase(anchor model.Anchor, today string, desired, n int) model.Anchor {
	if n <= 0 {
		return model.Anchor{Date: today}
	}
	diff := dates.DayDiff(anchor.Date, today)
	return model.Anchor{Date: today, Index: mod(desired-diff, n)}
}
