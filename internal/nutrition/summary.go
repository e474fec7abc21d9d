package nutrition

import (
	"math"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// WeekSummary covers the seven days ending today.
type WeekSummary struct {
	From, To       string
	Workouts       int
	CaloriesBurned float64
	AvgWeight      float64
	HasAvgWeight   bool
	Volume         float64
	PrevVolume     float64
	// VolumeChange is the whole-percent change against the previous seven
	// days. It is only meaningful when HasVolumeChange is set.
	VolumeChange    int
	HasVolumeChange bool
}

func within(date, from, to string) bool {
	return dates.Valid(date) && date >= from && date <= to
}

func volume(ws []model.Workout, from, to string) float64 {
	var v float64
	for _, w := range ws {
		if within(w.Date, from, to) {
			v += w.Volume()
		}
	}
	return v
}

// Summary builds the weekly summary from the log and a workout history.
func (l *Log) Summary(workouts []model.Workout) WeekSummary {
	to := l.today()
	from := dates.AddDays(to, -6)
	s := WeekSummary{From: from, To: to}

	for _, w := range workouts {
		if within(w.Date, from, to) {
			s.Workouts++
		}
	}
	for _, c := range l.state.Calories {
		if within(c.Date, from, to) {
			s.CaloriesBurned += c.Burned
		}
	}
	var sum float64
	var n int
	for _, e := range l.state.Weights {
		if within(e.Date, from, to) {
			sum += e.Weight
			n++
		}
	}
	if n > 0 {
		s.AvgWeight = math.Round(sum/float64(n)*10) / 10
		s.HasAvgWeight = true
	}

	s.Volume = volume(workouts, from, to)
	s.PrevVolume = volume(workouts, dates.AddDays(from, -7), dates.AddDays(from, -1))
	if s.PrevVolume > 0 {
		s.VolumeChange = int(math.Round((s.Volume - s.PrevVolume) / s.PrevVolume * 100))
		s.HasVolumeChange = true
	}
	return s
}
