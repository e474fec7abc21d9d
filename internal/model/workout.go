package model

// Set is one working set.
type Set struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Exercise is a named movement and its sets in logged order.
type Exercise struct {
	Name  string `json:"name"`
	Sets  []Set  `json:"sets"`
	Notes string `json:"notes,omitempty"`
}

// Workout is a saved session. Workouts are never edited, only deleted.
type Workout struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	DayType   string     `json:"dayType"`
	Name      string     `json:"name,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// HasExercise reports whether the workout includes name.
func (w Workout) HasExercise(name string) bool {
	_, ok := w.Exercise(name)
	return ok
}

// Exercise returns the first exercise matching name.
func (w Workout) Exercise(name string) (Exercise, bool) {
	for _, e := range w.Exercises {
		if SameExercise(e.Name, name) {
			return e, true
		}
	}
	return Exercise{}, false
}

// Volume is the sum of weight*reps over every set.
func (w Workout) Volume() float64 {
	var v float64
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			v += s.Weight * float64(s.Reps)
		}
	}
	return v
}

// Anchor pins a cyclic schedule to a calendar day.
type Anchor struct {
	Date  string `json:"anchorDate"`
	Index int    `json:"anchorIndex"`
}

// Photo is a progress photo reference.
type Photo struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Caption   string `json:"caption,omitempty"`
	Path      string `json:"path"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}
