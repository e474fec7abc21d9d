// Package dates implements calendar-date arithmetic on YYYY-MM-DD strings.
//
// Every value is a local calendar day with no time-of-day component.
// Differences are computed on UTC-normalized midnights so daylight-saving
// transitions never shift a count by one.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical serialized date form.
const Layout = "2006-01-02"

// Clock returns the current instant. Production code uses time.Now;
// tests and the --today flag pin it to a fixed day.
type Clock func() time.Time

// System is the wall clock.
var System Clock = time.Now

// Fixed returns a Clock that always reports noon on the given day.
func Fixed(iso string) (Clock, bool) {
	d, ok := ParseISO(iso)
	if !ok {
		return nil, false
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	return func() time.Time { return t }, true
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// ToISO formats the calendar day of t.
func ToISO(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the ISO date of the clock's current day.
func Today(c Clock) string {
	if c == nil {
		c = System
	}
	return ToISO(c())
}

// ParseISO builds a local-midnight time from the numeric Y/M/D parts of s.
// It rejects malformed strings and out-of-range months or days.
func ParseISO(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y <= 0 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > daysIn(y, time.Month(m)) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
}

// Valid reports whether s parses as a calendar date.
func Valid(s string) bool {
	_, ok := ParseISO(s)
	return ok
}

// DayDiff returns the number of calendar days from a to b. It is negative
// when b is before a, and 0 if either date is invalid.
func DayDiff(a, b string) int {
	ta, ok := ParseISO(a)
	if !ok {
		return 0
	}
	tb, ok := ParseISO(b)
	if !ok {
		return 0
	}
	ua := time.Date(ta.Year(), ta.Month(), ta.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(tb.Year(), tb.Month(), tb.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// AddDays shifts iso by n calendar days. An invalid input is returned unchanged.
func AddDays(iso string, n int) string {
	t, ok := ParseISO(iso)
	if !ok {
		return iso
	}
	return ToISO(t.AddDate(0, 0, n))
}

// LastDayOfMonth returns the ISO date of the final day of t's month.
func LastDayOfMonth(t time.Time) string {
	return ToISO(time.Date(t.Year(), t.Month(), daysIn(t.Year(), t.Month()), 0, 0, 0, 0, time.Local))
}

// DaysRemainingInclusive counts calendar days from today through end,
// both included. The result is never below 1: an invalid or past end date
// yields 1 so it can always be used as a divisor.
func DaysRemainingInclusive(end, today string) int {
	if !Valid(end) || !Valid(today) {
		return 1
	}
	n := DayDiff(today, end) + 1
	if n < 1 {
		return 1
	}
	return n
}

// Weekday returns the day of week of iso, or time.Sunday if it is invalid.
func Weekday(iso string) time.Weekday {
	t, ok := ParseISO(iso)
	if !ok {
		return time.Sunday
	}
	return t.Weekday()
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
