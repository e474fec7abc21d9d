package schedule

import (
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// State is what the engine persists.
type State struct {
	Template string
	Anchors  map[string]model.Anchor
}

// Options configures an Engine.
type Options struct {
	Clock    dates.Clock
	OnChange func(State)
}

// Day is the slot scheduled on a date.
type Day struct {
	Date  string
	Index int
	Slot  Slot
}

// Engine tracks the active template and its anchors.
type Engine struct {
	opts  Options
	state State
}

// New returns an engine over state. An unknown template falls back to the
// default, and a template without an anchor is pinned to index 0 today.
func New(state State, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = dates.System
	}
	if _, ok := Lookup(state.Template); !ok {
		state.Template = DefaultTemplate
	}
	anchors := make(map[string]model.Anchor, len(state.Anchors))
	for k, v := range state.Anchors {
		anchors[k] = v
	}
	state.Anchors = anchors

	e := &Engine{opts: opts, state: state}
	if e.ensureAnchor() {
		e.changed()
	}
	return e
}

func (e *Engine) ensureAnchor() bool {
	a, ok := e.state.Anchors[e.state.Template]
	if ok && dates.Valid(a.Date) {
		return false
	}
	e.state.Anchors[e.state.Template] = model.Anchor{Date: e.today(), Index: 0}
	return true
}

func (e *Engine) today() string { return dates.Today(e.opts.Clock) }

// State returns a copy of the persisted state.
func (e *Engine) State() State {
	s := State{Template: e.state.Template, Anchors: make(map[string]model.Anchor, len(e.state.Anchors))}
	for k, v := range e.state.Anchors {
		s.Anchors[k] = v
	}
	return s
}

// Template is the active template.
func (e *Engine) Template() Template {
	t, _ := Lookup(e.state.Template)
	return t
}

// Anchor is the active template's anchor.
func (e *Engine) Anchor() model.Anchor {
	return e.state.Anchors[e.state.Template]
}

// On returns the slot for date under the active template.
func (e *Engine) On(date string) Day {
	t := e.Template()
	idx := TodayIndex(e.Anchor(), date, t.Len())
	return Day{Date: date, Index: idx, Slot: t.Split[idx]}
}

// Today returns today's slot.
func (e *Engine) Today() Day {
	return e.On(e.today())
}

// Upcoming returns today and the following days-1 days.
func (e *Engine) Upcoming(days int) []Day {
	today := e.today()
	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, e.On(dates.AddDays(today, i)))
	}
	return out
}

// ApplySwap re-anchors the rotation so today is the slot with key. The
// whole future rotation shifts with it. Unknown keys are a no-op.
func (e *Engine) ApplySwap(key string) bool {
	t := e.Template()
	desired := t.IndexOf(key)
	if desired < 0 {
		return false
	}
	e.state.Anchors[t.Key] = Rebase(e.Anchor(), e.today(), desired, t.Len())
	e.changed()
	return true
}

// SetTemplate switches the active template. Each template keeps its own anchor.
func (e *Engine) SetTemplate(key string) bool {
	if _, ok := Lookup(key); !ok {
		return false
	}
	e.state.Template = key
	e.ensureAnchor()
	e.changed()
	return true
}

// Exercises lists the planned movements for a slot of the active template.
func (e *Engine) Exercises(slotKey string) []ExerciseInfo {
	return append([]ExerciseInfo(nil), e.Template().Exercises[slotKey]...)
}

func (e *Engine) changed() {
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.State())
	}
}
