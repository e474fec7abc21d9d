// Package workout keeps the workout history and progress photos, and
// derives progressive-overload suggestions from that history.
package workout

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
)

// CustomDayType marks workouts logged outside the rotation.
const CustomDayType = "custom"

// State is what the log persists.
type State struct {
	Workouts []model.Workout
	Photos   []model.Photo
}

// Options configures a Log.
type Options struct {
	Clock    dates.Clock
	Notifier notify.Notifier
	OnChange func(State)
}

// Log owns workouts and photos.
type Log struct {
	opts  Options
	state State
}

// New returns a log over state.
func New(state State, opts Options) *Log {
	if opts.Clock == nil {
		opts.Clock = dates.System
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	return &Log{opts: opts, state: state}
}

// State returns a copy of the persisted state.
func (l *Log) State() State {
	return State{
		Workouts: append([]model.Workout(nil), l.state.Workouts...),
		Photos:   append([]model.Photo(nil), l.state.Photos...),
	}
}

// Workouts returns the history newest first.
func (l *Log) Workouts() []model.Workout {
	out := append([]model.Workout(nil), l.state.Workouts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// On returns the workouts logged on date.
func (l *Log) On(date string) []model.Workout {
	var out []model.Workout
	for _, w := range l.state.Workouts {
		if w.Date == date {
			out = append(out, w)
		}
	}
	return out
}

// cleanExercises keeps sets with both weight and reps above zero and drops
// exercises left with no sets or no name.
func cleanExercises(in []model.Exercise) []model.Exercise {
	var out []model.Exercise
	for _, e := range in {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		var sets []model.Set
		for _, s := range e.Sets {
			if s.Weight > 0 && s.Reps > 0 {
				sets = append(sets, s)
			}
		}
		if len(sets) == 0 {
			continue
		}
		out = append(out, model.Exercise{Name: name, Sets: sets, Notes: strings.TrimSpace(e.Notes)})
	}
	return out
}

// Save records a workout. An empty date means today. It returns false and
// changes nothing when no exercise has a valid set.
func (l *Log) Save(ctx context.Context, date, dayType string, exercises []model.Exercise) (model.Workout, bool) {
	if date == "" {
		date = dates.Today(l.opts.Clock)
	}
	if !dates.Valid(date) || strings.TrimSpace(dayType) == "" {
		return model.Workout{}, false
	}
	ex := cleanExercises(exercises)
	if len(ex) == 0 {
		return model.Workout{}, false
	}
	w := model.Workout{ID: uuid.NewString(), Date: date, DayType: dayType, Exercises: ex}
	l.state.Workouts = append(l.state.Workouts, w)
	l.changed()
	notify.Send(ctx, l.opts.Notifier, notify.WorkoutComplete(len(ex)))
	return w, true
}

// SaveCustom records an off-rotation workout for one named exercise.
func (l *Log) SaveCustom(ctx context.Context, date, name string, sets []model.Set, notes string) (model.Workout, bool) {
	if strings.TrimSpace(name) == "" {
		return model.Workout{}, false
	}
	return l.Save(ctx, date, CustomDayType, []model.Exercise{{Name: name, Sets: sets, Notes: notes}})
}

// Delete removes a workout wholesale.
func (l *Log) Delete(id string) bool {
	for i, w := range l.state.Workouts {
		if w.ID == id {
			l.state.Workouts = append(l.state.Workouts[:i:i], l.state.Workouts[i+1:]...)
			l.changed()
			return true
		}
	}
	return false
}

// Replace overwrites the history wholesale.
func (l *Log) Replace(ws []model.Workout) {
	l.state.Workouts = append([]model.Workout(nil), ws...)
	l.changed()
}

// AppendHistory adds already-built workouts, skipping known ids and
// workouts without valid sets. It returns how many were added.
func (l *Log) AppendHistory(ws []model.Workout) int {
	seen := make(map[string]bool, len(l.state.Workouts))
	for _, w := range l.state.Workouts {
		seen[w.ID] = true
	}
	n := 0
	for _, w := range ws {
		if w.ID != "" && seen[w.ID] {
			continue
		}
		if !dates.Valid(w.Date) {
			continue
		}
		w.Exercises = cleanExercises(w.Exercises)
		if len(w.Exercises) == 0 {
			continue
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		seen[w.ID] = true
		l.state.Workouts = append(l.state.Workouts, w)
		n++
	}
	if n > 0 {
		l.changed()
	}
	return n
}

// Suggest runs SuggestOverload against the stored history.
func (l *Log) Suggest(name string) (Suggestion, bool) {
	return SuggestOverload(name, l.state.Workouts)
}

// Last runs LastPerformance against the stored history.
func (l *Log) Last(name string) (Performance, bool) {
	return LastPerformance(name, l.state.Workouts)
}

func (l *Log) changed() {
	if l.opts.OnChange != nil {
		l.opts.OnChange(l.State())
	}
}
