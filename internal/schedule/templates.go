package schedule

// Slot is one day-type in a rotation.
type Slot struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Focus string `json:"focus"`
}

// ExerciseInfo describes a planned movement for a slot.
type ExerciseInfo struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Reps   string `json:"reps"`
	Note   string `json:"note,omitempty"`
}

// Template is a named rotation. Slot keys are unique within a template.
type Template struct {
	Key       string                    `json:"key"`
	Name      string                    `json:"name"`
	Split     []Slot                    `json:"split"`
	Exercises map[string][]ExerciseInfo `json:"exercises"`
}

// Len is the rotation length.
func (t Template) Len() int { return len(t.Split) }

// IndexOf returns the position of slot key, or -1.
func (t Template) IndexOf(key string) int {
	for i, s := range t.Split {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// DefaultTemplate is the rotation used until the user picks another.
const DefaultTemplate = "ppl-rest"

var (
	pushDay = []ExerciseInfo{
		{Name: "Chest Press", Target: "12.5kg → 15kg", Reps: "10-12"},
		{Name: "Lateral Raises", Target: "3-5kg", Reps: "12-15"},
		{Name: "Incline Press", Target: "12.5kg", Reps: "10-12"},
	}
	pullDay = []ExerciseInfo{
		{Name: "Lat Pulldowns", Target: "Progressive", Reps: "10-12", Note: "Most important for V-taper"},
		{Name: "Seated Cable Rows", Target: "Progressive", Reps: "10-12"},
		{Name: "Bicep Curls", Target: "Light weight", Reps: "12-15"},
	}
	legsDay = []ExerciseInfo{
		{Name: "Leg Press/Squats", Target: "Deep ROM", Reps: "10-12"},
		{Name: "Planks", Target: "Bodyweight", Reps: "60s holds", Note: "Tight core for V-taper"},
		{Name: "Hanging Leg Raises", Target: "Bodyweight", Reps: "10-15"},
	}
	upperDay = []ExerciseInfo{
		{Name: "Bench Press", Target: "Progressive", Reps: "6-10"},
		{Name: "Lat Pulldowns", Target: "Progressive", Reps: "8-12"},
		{Name: "Overhead Press", Target: "Progressive", Reps: "8-10"},
		{Name: "Seated Cable Rows", Target: "Progressive", Reps: "10-12"},
	}
	lowerDay = []ExerciseInfo{
		{Name: "Squats", Target: "Progressive", Reps: "6-10"},
		{Name: "Romanian Deadlift", Target: "Progressive", Reps: "8-10"},
		{Name: "Calf Raises", Target: "Bodyweight+", Reps: "12-15"},
	}
	cardioDay = []ExerciseInfo{
		{Name: "Incline Walk", Target: "30 min", Reps: "zone 2"},
		{Name: "Cycling", Target: "20 min", Reps: "intervals"},
	}

	pushSlot = Slot{Key: "push", Title: "Push Day", Focus: "Chest + Shoulders + Triceps"}
	pullSlot = Slot{Key: "pull", Title: "Pull Day", Focus: "Lat Width (V-taper)"}
	legsSlot = Slot{Key: "legs", Title: "Legs Day", Focus: "Quads + Hamstrings + Calves"}
	restSlot = Slot{Key: "rest", Title: "Rest Day", Focus: "Walk + Mobility + Sleep"}
)

var catalog = []Template{
	{
		Key:   "ppl-rest",
		Name:  "Push / Pull / Legs / Rest",
		Split: []Slot{pushSlot, pullSlot, legsSlot, restSlot},
		Exercises: map[string][]ExerciseInfo{
			"push": pushDay, "pull": pullDay, "legs": legsDay, "rest": nil,
		},
	},
	{
		Key:   "ppl",
		Name:  "Push / Pull / Legs",
		Split: []Slot{pushSlot, pullSlot, legsSlot},
		Exercises: map[string][]ExerciseInfo{
			"push": pushDay, "pull": pullDay, "legs": legsDay,
		},
	},
	{
		Key:  "upper-lower",
		Name: "Upper / Lower / Cardio (7 day)",
		Split: []Slot{
			{Key: "upper-a", Title: "Upper A", Focus: "Chest + Back + Shoulders"},
			{Key: "lower-a", Title: "Lower A", Focus: "Squat pattern + Calves"},
			{Key: "cardio", Title: "Cardio", Focus: "Zone 2 + Intervals"},
			{Key: "rest-a", Title: "Rest Day", Focus: "Walk + Mobility + Sleep"},
			{Key: "upper-b", Title: "Upper B", Focus: "Back + Arms"},
			{Key: "lower-b", Title: "Lower B", Focus: "Hinge pattern + Core"},
			{Key: "rest-b", Title: "Rest Day", Focus: "Walk + Mobility + Sleep"},
		},
		Exercises: map[string][]ExerciseInfo{
			"upper-a": upperDay, "lower-a": lowerDay, "cardio": cardioDay,
			"upper-b": upperDay, "lower-b": lowerDay,
		},
	},
}

// Templates returns the catalog in display order.
func Templates() []Template {
	return append([]Template(nil), catalog...)
}

// Lookup finds a template by key.
func Lookup(key string) (Template, bool) {
	for _, t := range catalog {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}
