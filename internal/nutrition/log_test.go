package nutrition

import (
	"testing"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

func newLog(t *testing.T, today string) *Log {
	t.Helper()
	clock, ok := dates.Fixed(today)
	if !ok {
		t.Fatalf("bad date %q", today)
	}
	return New(State{}, Options{Clock: clock})
}

func TestLogWeightReplacesSameDay(t *testing.T) {
	l := newLog(t, "2025-06-10")
	if !l.LogWeight("", 80.2) || !l.LogWeight("", 79.8) {
		t.Fatal("LogWeight rejected a valid reading")
	}
	l.LogWeight("2025-06-08", 81)

	ws := l.Weights()
	if len(ws) != 2 {
		t.Fatalf("weights = %d, want 2", len(ws))
	}
	if ws[0].Date != "2025-06-10" || ws[0].Weight != 79.8 {
		t.Fatalf("latest = %+v, want 2025-06-10 79.8", ws[0])
	}
}

func TestLogWeightRange(t *testing.T) {
	l := newLog(t, "2025-06-10")
	for _, kg := range []float64{19.9, 300.1, 0, -70} {
		if l.LogWeight("", kg) {
			t.Errorf("LogWeight(%v) accepted", kg)
		}
	}
	if !l.LogWeight("", 20) || !l.LogWeight("2025-06-09", 300) {
		t.Fatal("range endpoints should be accepted")
	}
}

func TestWeightTrend(t *testing.T) {
	l := newLog(t, "2025-06-20")
	l.LogWeight("2025-06-01", 83)
	l.LogWeight("2025-06-07", 82)
	l.LogWeight("2025-06-15", 81)
	l.LogWeight("2025-06-20", 80.5)

	trend := l.WeightTrend(14)
	if len(trend) != 3 {
		t.Fatalf("trend = %+v, want 3 entries", trend)
	}
	if trend[0].Date != "2025-06-07" || trend[2].Date != "2025-06-20" {
		t.Fatalf("trend order = %s..%s", trend[0].Date, trend[2].Date)
	}
	if w, ok := l.CurrentWeight(); !ok || w != 80.5 {
		t.Fatalf("CurrentWeight = %v, %v", w, ok)
	}
}

func TestProtein(t *testing.T) {
	l := newLog(t, "2025-06-10")
	if l.ProteinGoal() != DefaultProteinGoal {
		t.Fatalf("goal = %v, want %v", l.ProteinGoal(), DefaultProteinGoal)
	}
	m, ok := l.AddMeal("", "", 30)
	if !ok || m.Label != "Meal" {
		t.Fatalf("AddMeal = %+v, %v", m, ok)
	}
	l.AddMeal("", "Whey", 24.5)
	if _, ok := l.AddMeal("", "Air", 0); ok {
		t.Fatal("AddMeal(0) accepted")
	}
	if got := l.ProteinTotal("2025-06-10"); got != 54.5 {
		t.Fatalf("ProteinTotal = %v, want 54.5", got)
	}
	if !l.RemoveMeal("2025-06-10", m.ID) || l.RemoveMeal("2025-06-10", m.ID) {
		t.Fatal("RemoveMeal should succeed once")
	}
	if got := l.ProteinTotal("2025-06-10"); got != 24.5 {
		t.Fatalf("ProteinTotal after remove = %v, want 24.5", got)
	}
	if l.SetProteinGoal(-1) || !l.SetProteinGoal(120) || l.ProteinGoal() != 120 {
		t.Fatal("SetProteinGoal validation failed")
	}
}

func TestAddFood(t *testing.T) {
	l := newLog(t, "2025-06-10")
	m, f, ok := l.AddFood("", "egg_whole", 2)
	if !ok {
		t.Fatal("AddFood returned false")
	}
	if m.Grams != 12 || f.Calories != 70 {
		t.Fatalf("meal = %+v, food = %+v", m, f)
	}
	c, _ := l.Calories("2025-06-10")
	if c.Eaten != 140 {
		t.Fatalf("eaten = %v, want 140", c.Eaten)
	}
	if _, _, ok := l.AddFood("", "pizza", 1); ok {
		t.Fatal("unknown food accepted")
	}
	// Zero-protein foods still count calories.
	l.AddFood("", "mayonnaise", 1)
	c, _ = l.Calories("2025-06-10")
	if c.Eaten != 240 {
		t.Fatalf("eaten = %v, want 240", c.Eaten)
	}
}

func TestSetCalories(t *testing.T) {
	l := newLog(t, "2025-06-10")
	if l.SetCalories("", 0, 0) {
		t.Fatal("SetCalories(0, 0) accepted")
	}
	if !l.SetCalories("", 1700, 2300) || !l.SetCalories("", 1600, 2300) {
		t.Fatal("SetCalories rejected valid input")
	}
	c, ok := l.Calories("2025-06-10")
	if !ok || c.Eaten != 1600 || c.Deficit() != 700 {
		t.Fatalf("calories = %+v", c)
	}
	if got := len(l.State().Calories); got != 1 {
		t.Fatalf("calorie entries = %d, want 1", got)
	}
}

func TestFoodDatabase(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Foods() {
		if seen[f.Key] {
			t.Fatalf("duplicate food key %s", f.Key)
		}
		seen[f.Key] = true
		if f.Category == "danger" && f.Warning == "" {
			t.Errorf("danger food %s has no warning", f.Key)
		}
	}
	for _, k := range QuickAddFoods {
		if !seen[k] {
			t.Errorf("quick-add key %s missing from database", k)
		}
	}
}

func TestWeekSummary(t *testing.T) {
	l := newLog(t, "2025-06-14")
	l.LogWeight("2025-06-09", 80)
	l.LogWeight("2025-06-13", 79)
	l.LogWeight("2025-06-01", 90)
	l.SetCalories("2025-06-10", 1500, 400)
	l.SetCalories("2025-06-12", 1500, 350)
	l.SetCalories("2025-06-02", 1500, 999)

	set := func(date string, w float64, reps int) model.Workout {
		return model.Workout{ID: date, Date: date, DayType: "push", Exercises: []model.Exercise{
			{Name: "Bench Press", Sets: []model.Set{{Weight: w, Reps: reps}}},
		}}
	}
	workouts := []model.Workout{
		set("2025-06-08", 50, 10), // 500, this week
		set("2025-06-14", 40, 10), // 400, this week
		set("2025-06-03", 50, 10), // 500, last week
		set("2025-06-07", 25, 10), // 250, last week
	}

	s := l.Summary(workouts)
	if s.From != "2025-06-08" || s.To != "2025-06-14" {
		t.Fatalf("window = %s..%s", s.From, s.To)
	}
	if s.Workouts != 2 {
		t.Fatalf("Workouts = %d, want 2", s.Workouts)
	}
	if s.CaloriesBurned != 750 {
		t.Fatalf("CaloriesBurned = %v, want 750", s.CaloriesBurned)
	}
	if !s.HasAvgWeight || s.AvgWeight != 79.5 {
		t.Fatalf("AvgWeight = %v (%v), want 79.5", s.AvgWeight, s.HasAvgWeight)
	}
	if s.Volume != 900 || s.PrevVolume != 750 {
		t.Fatalf("volume = %v / %v, want 900 / 750", s.Volume, s.PrevVolume)
	}
	if !s.HasVolumeChange || s.VolumeChange != 20 {
		t.Fatalf("VolumeChange = %d (%v), want 20", s.VolumeChange, s.HasVolumeChange)
	}
}

func TestWeekSummaryNoPreviousVolume(t *testing.T) {
	l := newLog(t, "2025-06-14")
	s := l.Summary(nil)
	if s.HasVolumeChange || s.HasAvgWeight {
		t.Fatalf("empty summary = %+v", s)
	}
}
