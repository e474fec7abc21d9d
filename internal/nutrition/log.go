// Package nutrition logs body weight, protein, and calories, and builds the
// weekly fitness summary.
package nutrition

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// Accepted body-weight range in kg.
const (
	MinWeight = 20
	MaxWeight = 300
)

// DefaultProteinGoal is the daily protein target in grams.
const DefaultProteinGoal = 150

// State is what the log persists.
type State struct {
	Weights     []model.WeightEntry
	Protein     []model.ProteinDay
	ProteinGoal float64
	Calories    []model.CalorieEntry
}

// Options configures a Log.
type Options struct {
	Clock    dates.Clock
	OnChange func(State)
}

// Log owns nutrition records.
type Log struct {
	opts  Options
	state State
}

// New returns a log over state.
func New(state State, opts Options) *Log {
	if opts.Clock == nil {
		opts.Clock = dates.System
	}
	if state.ProteinGoal <= 0 {
		state.ProteinGoal = DefaultProteinGoal
	}
	return &Log{opts: opts, state: state}
}

func (l *Log) today() string { return dates.Today(l.opts.Clock) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// State returns a copy of the persisted state.
func (l *Log) State() State {
	s := State{
		Weights:     append([]model.WeightEntry(nil), l.state.Weights...),
		ProteinGoal: l.state.ProteinGoal,
		Calories:    append([]model.CalorieEntry(nil), l.state.Calories...),
	}
	for _, d := range l.state.Protein {
		d.Meals = append([]model.Meal(nil), d.Meals...)
		s.Protein = append(s.Protein, d)
	}
	return s
}

// LogWeight records kg for date, replacing any reading already on that date.
func (l *Log) LogWeight(date string, kg float64) bool {
	if date == "" {
		date = l.today()
	}
	if !dates.Valid(date) || !finite(kg) || kg < MinWeight || kg > MaxWeight {
		return false
	}
	var out []model.WeightEntry
	for _, e := range l.state.Weights {
		if e.Date != date {
			out = append(out, e)
		}
	}
	out = append(out, model.WeightEntry{Date: date, Weight: kg})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	l.state.Weights = out
	l.changed()
	return true
}

// DeleteWeight removes the reading on date.
func (l *Log) DeleteWeight(date string) bool {
	for i, e := range l.state.Weights {
		if e.Date == date {
			l.state.Weights = append(l.state.Weights[:i:i], l.state.Weights[i+1:]...)
			l.changed()
			return true
		}
	}
	return false
}

// Weights returns every reading newest first.
func (l *Log) Weights() []model.WeightEntry {
	return append([]model.WeightEntry(nil), l.state.Weights...)
}

// WeightTrend returns readings from the last days days, oldest first.
func (l *Log) WeightTrend(days int) []model.WeightEntry {
	cutoff := dates.AddDays(l.today(), -(days - 1))
	var out []model.WeightEntry
	for _, e := range l.state.Weights {
		if e.Date >= cutoff && e.Date <= l.today() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CurrentWeight is today's reading, else the latest reading in the trend window.
func (l *Log) CurrentWeight() (float64, bool) {
	trend := l.WeightTrend(14)
	if len(trend) == 0 {
		return 0, false
	}
	return trend[len(trend)-1].Weight, true
}

// AddMeal logs grams of protein under label. An empty label is "Meal".
func (l *Log) AddMeal(date, label string, grams float64) (model.Meal, bool) {
	if date == "" {
		date = l.today()
	}
	if !dates.Valid(date) || !finite(grams) || grams <= 0 {
		return model.Meal{}, false
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Meal"
	}
	m := model.Meal{ID: uuid.NewString(), Label: label, Grams: grams}
	for i := range l.state.Protein {
		if l.state.Protein[i].Date == date {
			l.state.Protein[i].Meals = append(l.state.Protein[i].Meals, m)
			l.changed()
			return m, true
		}
	}
	l.state.Protein = append(l.state.Protein, model.ProteinDay{Date: date, Meals: []model.Meal{m}})
	l.changed()
	return m, true
}

// AddFood logs qty servings of a database food, adding both its protein
// and its calories to date.
func (l *Log) AddFood(date, key string, qty float64) (model.Meal, model.Food, bool) {
	f, ok := FoodByKey(key)
	if !ok || !finite(qty) || qty <= 0 {
		return model.Meal{}, model.Food{}, false
	}
	label := f.Name
	if qty != 1 {
		label = fmt.Sprintf("%s x%g", f.Name, qty)
	}
	if date == "" {
		date = l.today()
	}
	if !dates.Valid(date) {
		return model.Meal{}, model.Food{}, false
	}
	var m model.Meal
	if f.Protein > 0 {
		m, _ = l.AddMeal(date, label, f.Protein*qty)
	}
	l.AddEaten(date, f.Calories*qty)
	return m, f, true
}

// RemoveMeal deletes a meal from date.
func (l *Log) RemoveMeal(date, id string) bool {
	for i := range l.state.Protein {
		if l.state.Protein[i].Date != date {
			continue
		}
		meals := l.state.Protein[i].Meals
		for j, m := range meals {
			if m.ID == id {
				l.state.Protein[i].Meals = append(meals[:j:j], meals[j+1:]...)
				l.changed()
				return true
			}
		}
	}
	return false
}

// Meals returns the meals logged on date.
func (l *Log) Meals(date string) []model.Meal {
	for _, d := range l.state.Protein {
		if d.Date == date {
			return append([]model.Meal(nil), d.Meals...)
		}
	}
	return nil
}

// ProteinTotal sums the grams logged on date.
func (l *Log) ProteinTotal(date string) float64 {
	var sum float64
	for _, m := range l.Meals(date) {
		sum += m.Grams
	}
	return sum
}

// ProteinGoal is the daily target.
func (l *Log) ProteinGoal() float64 { return l.state.ProteinGoal }

// SetProteinGoal changes the daily target.
func (l *Log) SetProteinGoal(g float64) bool {
	if !finite(g) || g <= 0 {
		return false
	}
	l.state.ProteinGoal = g
	l.changed()
	return true
}

// Calories returns the entry for date, zero if none.
func (l *Log) Calories(date string) (model.CalorieEntry, bool) {
	for _, c := range l.state.Calories {
		if c.Date == date {
			return c, true
		}
	}
	return model.CalorieEntry{Date: date}, false
}

// SetCalories overwrites eaten and burned for date. Both zero is rejected.
func (l *Log) SetCalories(date string, eaten, burned float64) bool {
	if date == "" {
		date = l.today()
	}
	if !dates.Valid(date) || !finite(eaten) || !finite(burned) || eaten < 0 || burned < 0 {
		return false
	}
	if eaten == 0 && burned == 0 {
		return false
	}
	l.putCalories(model.CalorieEntry{Date: date, Eaten: eaten, Burned: burned})
	return true
}

// AddEaten adds kcal to what was eaten on date.
func (l *Log) AddEaten(date string, kcal float64) bool {
	if !dates.Valid(date) || !finite(kcal) || kcal <= 0 {
		return false
	}
	c, _ := l.Calories(date)
	c.Eaten += kcal
	l.putCalories(c)
	return true
}

func (l *Log) putCalories(c model.CalorieEntry) {
	for i := range l.state.Calories {
		if l.state.Calories[i].Date == c.Date {
			l.state.Calories[i] = c
			l.changed()
			return
		}
	}
	l.state.Calories = append(l.state.Calories, c)
	l.changed()
}

func (l *Log) changed() {
	if l.opts.OnChange != nil {
		l.opts.OnChange(l.State())
	}
}
