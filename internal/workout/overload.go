package workout

import (
	"sort"

	"github.com/theirongolddev/zenith/internal/model"
)

const (
	overloadReps      = 8
	overloadSets      = 2
	overloadSessions  = 2
	overloadIncrement = 2.5
)

// Suggestion is a recommended working weight for an exercise.
type Suggestion struct {
	Exercise        string  `json:"exercise"`
	CurrentWeight   float64 `json:"currentWeight"`
	SuggestedWeight float64 `json:"suggestedWeight"`
}

// sessionsWith returns the workouts containing name, newest first.
func sessionsWith(name string, history []model.Workout) []model.Workout {
	var out []model.Workout
	for _, w := range history {
		if w.HasExercise(name) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func hitsTarget(e model.Exercise) bool {
	n := 0
	for _, s := range e.Sets {
		if s.Reps >= overloadReps {
			n++
		}
	}
	return n >= overloadSets
}

// SuggestOverload recommends adding weight when the two most recent
// sessions of the exercise each had at least two sets of eight or more
// reps. It never modifies history.
func SuggestOverload(name string, history []model.Workout) (Suggestion, bool) {
	sessions := sessionsWith(name, history)
	if len(sessions) < overloadSessions {
		return Suggestion{}, false
	}
	for _, w := range sessions[:overloadSessions] {
		e, _ := w.Exercise(name)
		if !hitsTarget(e) {
			return Suggestion{}, false
		}
	}

	latest, _ := sessions[0].Exercise(name)
	var maxW float64
	for _, s := range latest.Sets {
		if s.Weight > maxW {
			maxW = s.Weight
		}
	}
	return Suggestion{
		Exercise:        latest.Name,
		CurrentWeight:   maxW,
		SuggestedWeight: maxW + overloadIncrement,
	}, true
}

// Performance is what the lifter did the last time they trained an exercise.
type Performance struct {
	Date string      `json:"date"`
	Best model.Set   `json:"best"`
	Sets []model.Set `json:"sets"`
}

// LastPerformance finds the newest session with the exercise. Best is its
// first set, which is what the log form prefills.
func LastPerformance(name string, history []model.Workout) (Performance, bool) {
	sessions := sessionsWith(name, history)
	if len(sessions) == 0 {
		return Performance{}, false
	}
	e, _ := sessions[0].Exercise(name)
	if len(e.Sets) == 0 {
		return Performance{}, false
	}
	return Performance{
		Date: sessions[0].Date,
		Best: e.Sets[0],
		Sets: append([]model.Set(nil), e.Sets...),
	}, true
}
