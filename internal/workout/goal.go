package workout

import (
	"time"

	"github.com/theirongolddev/zenith/internal/dates"
)

// Goal is a dated body-weight target.
type Goal struct {
	Date   string
	Weight float64
}

// Countdown is the time left until a goal date.
type Countdown struct {
	Days, Hours, Minutes int
}

// Until measures from now to local midnight of the goal date, floored at zero.
func (g Goal) Until(now time.Time) Countdown {
	target, ok := dates.ParseISO(g.Date)
	if !ok {
		return Countdown{}
	}
	d := target.Sub(now)
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return Countdown{
		Days:    total / (24 * 60),
		Hours:   (total % (24 * 60)) / 60,
		Minutes: total % 60,
	}
}

// DaysLeft is the calendar-day distance to the goal, floored at zero.
func (g Goal) DaysLeft(today string) int {
	if !dates.Valid(g.Date) {
		return 0
	}
	n := dates.DayDiff(today, g.Date)
	if n < 0 {
		return 0
	}
	return n
}
