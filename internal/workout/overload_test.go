package workout

import (
	"testing"
	"time"

	"github.com/theirongolddev/zenith/internal/model"
)

func bench(date string, sets ...model.Set) model.Workout {
	return model.Workout{
		ID:        date,
		Date:      date,
		DayType:   "push",
		Exercises: []model.Exercise{{Name: "Bench Press", Sets: sets}},
	}
}

func TestSuggestOverloadTwoSessions(t *testing.T) {
	history := []model.Workout{
		bench("2025-06-01", model.Set{Weight: 37.5, Reps: 8}, model.Set{Weight: 37.5, Reps: 9}),
		bench("2025-06-05", model.Set{Weight: 40, Reps: 8}, model.Set{Weight: 40, Reps: 8}, model.Set{Weight: 35, Reps: 6}),
	}
	got, ok := SuggestOverload("Bench Press", history)
	if !ok {
		t.Fatal("SuggestOverload returned no suggestion")
	}
	if got.CurrentWeight != 40 || got.SuggestedWeight != 42.5 {
		t.Fatalf("suggestion = %+v, want 40 -> 42.5", got)
	}
}

func TestSuggestOverloadOneSession(t *testing.T) {
	history := []model.Workout{
		bench("2025-06-05", model.Set{Weight: 40, Reps: 10}, model.Set{Weight: 40, Reps: 10}),
	}
	if _, ok := SuggestOverload("Bench Press", history); ok {
		t.Fatal("one session should give no suggestion")
	}
}

func TestSuggestOverloadMissedTarget(t *testing.T) {
	history := []model.Workout{
		bench("2025-06-01", model.Set{Weight: 40, Reps: 8}, model.Set{Weight: 40, Reps: 7}),
		bench("2025-06-05", model.Set{Weight: 40, Reps: 8}, model.Set{Weight: 40, Reps: 8}),
	}
	if _, ok := SuggestOverload("Bench Press", history); ok {
		t.Fatal("older session with one qualifying set should block the suggestion")
	}
}

func TestSuggestOverloadUsesTwoMostRecent(t *testing.T) {
	history := []model.Workout{
		// An old weak session is ignored once two newer ones exist.
		bench("2025-05-01", model.Set{Weight: 20, Reps: 5}),
		bench("2025-06-08", model.Set{Weight: 45, Reps: 8}, model.Set{Weight: 42.5, Reps: 10}),
		bench("2025-06-04", model.Set{Weight: 42.5, Reps: 8}, model.Set{Weight: 42.5, Reps: 8}),
		{ID: "x", Date: "2025-06-09", DayType: "pull", Exercises: []model.Exercise{{Name: "Lat Pulldowns", Sets: []model.Set{{Weight: 30, Reps: 12}}}}},
	}
	got, ok := SuggestOverload("bench press", history)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if got.CurrentWeight != 45 || got.SuggestedWeight != 47.5 {
		t.Fatalf("suggestion = %+v, want 45 -> 47.5", got)
	}
}

func TestLastPerformance(t *testing.T) {
	history := []model.Workout{
		bench("2025-06-01", model.Set{Weight: 30, Reps: 10}),
		bench("2025-06-05", model.Set{Weight: 35, Reps: 9}, model.Set{Weight: 35, Reps: 8}),
	}
	p, ok := LastPerformance("Bench Press", history)
	if !ok {
		t.Fatal("LastPerformance returned !ok")
	}
	if p.Date != "2025-06-05" || p.Best.Weight != 35 || len(p.Sets) != 2 {
		t.Fatalf("performance = %+v", p)
	}
	if _, ok := LastPerformance("Deadlift", history); ok {
		t.Fatal("unknown exercise should return !ok")
	}
}

func TestGoalCountdown(t *testing.T) {
	g := Goal{Date: "2026-05-23", Weight: 72}
	now := time.Date(2026, time.May, 21, 22, 30, 0, 0, time.Local)
	c := g.Until(now)
	if c.Days != 1 || c.Hours != 1 || c.Minutes != 30 {
		t.Fatalf("countdown = %+v, want 1d 1h 30m", c)
	}
	if got := g.Until(now.AddDate(1, 0, 0)); got != (Countdown{}) {
		t.Fatalf("past goal countdown = %+v, want zero", got)
	}
	if got := g.DaysLeft("2026-05-13"); got != 10 {
		t.Fatalf("DaysLeft = %d, want 10", got)
	}
	if got := g.DaysLeft("2027-01-01"); got != 0 {
		t.Fatalf("DaysLeft past = %d, want 0", got)
	}
}
