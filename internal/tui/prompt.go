package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/tui/theme"
	"github.com/theirongolddev/zenith/internal/workout"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptAdd promptKind = iota
	promptCheat
	promptLog
	promptWeight
	promptProtein
	promptFood
	promptCalories
)

var promptSpecs = map[promptKind]struct{ label, placeholder string }{
	promptAdd:      {"Add", "Lunch 120 [2026-03-09]"},
	promptCheat:    {"Cheat", "350 [pizza night]"},
	promptLog:      {"Log", "Bench Press 60x8 60x8 62.5x6"},
	promptWeight:   {"Weight", "74.2 [2026-03-09]"},
	promptProtein:  {"Protein", "Shake 25"},
	promptFood:     {"Food", "eggs [2]"},
	promptCalories: {"Calories", "eaten 1650 [burned 400]"},
}

// promptState is the one-line input shown above the status bar.
type promptState struct {
	active bool
	kind   promptKind
	input  textinput.Model
}

func (a *App) openPrompt(kind promptKind) tea.Cmd {
	ti := textinput.New()
	ti.Placeholder = promptSpecs[kind].placeholder
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()
	a.prompt = promptState{active: true, kind: kind, input: ti}
	return ti.Cursor.BlinkCmd()
}

func (a App) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			a.prompt.active = false
			return a, nil
		case "enter":
			a.prompt.active = false
			text, isErr, changed := a.submitPrompt(a.prompt.kind, a.prompt.input.Value())
			a.flash(text, isErr)
			if changed {
				a.budget.clamp(len(a.core.Budget.State().Transactions))
				return a, a.afterChange()
			}
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.prompt.input, cmd = a.prompt.input.Update(msg)
	return a, cmd
}

func (a App) renderPrompt(w int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := label.Render(" "+promptSpecs[a.prompt.kind].label+" ▸ ") + a.prompt.input.View()
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(row)
}

// submitPrompt applies one line of input. It returns the status message,
// whether it is an error, and whether state changed.
func (a *App) submitPrompt(kind promptKind, text string) (string, bool, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, false
	}
	core := a.core
	today := core.Today()

	switch kind {
	case promptAdd:
		label, amount, date, err := parseEntry(text)
		if err != nil {
			return err.Error(), true, false
		}
		tx, res := core.Budget.AddTransaction(a.ctx, budget.Entry{Label: label, Amount: amount, Date: date})
		if !res.OK() {
			return "Rejected: " + res.String(), true, false
		}
		return fmt.Sprintf("Added %s %s", tx.Label, cli.FormatMoney(tx.Amount)), false, true

	case promptCheat:
		amountStr, note, _ := strings.Cut(text, " ")
		amount, err := parseAmount(amountStr)
		if err != nil {
			return err.Error(), true, false
		}
		impact, res := core.Budget.LogCheat(a.ctx, amount, strings.TrimSpace(note))
		if !res.OK() {
			return "Rejected: " + res.String(), true, false
		}
		return impact.String(), false, true

	case promptLog:
		ex, err := workout.ParseExerciseLine(text)
		if err != nil {
			return err.Error(), true, false
		}
		slot := core.Schedule.Today().Slot
		ids, earlier := sameDayWorkouts(a, slot.Key)
		w, ok := core.Training.Save(a.ctx, today, slot.Key, append(earlier, ex))
		if !ok {
			return "Nothing to save: every set needs weight and reps", true, false
		}
		for _, id := range ids {
			core.DeleteWorkout(id)
		}
		if len(w.Exercises) == len(earlier) {
			return fmt.Sprintf("%s skipped: every set needs weight and reps", ex.Name), true, true
		}
		return fmt.Sprintf("Logged %s (%d exercises today)", ex.Name, len(w.Exercises)), false, true

	case promptWeight:
		fields := strings.Fields(text)
		kg, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "kg"), 64)
		if err != nil {
			return "weight must be a number", true, false
		}
		date := today
		if len(fields) > 1 {
			date = fields[1]
		}
		if !core.Nutrition.LogWeight(date, kg) {
			return "Weight must be 20-300 kg on a valid date", true, false
		}
		return "Logged " + cli.FormatKg(kg), false, true

	case promptProtein:
		label, grams, _, err := parseEntry(text)
		if err != nil {
			return err.Error(), true, false
		}
		if _, ok := core.Nutrition.AddMeal(today, label, grams); !ok {
			return "Protein must be positive", true, false
		}
		return fmt.Sprintf("Added %s of protein", cli.FormatGrams(grams)), false, true

	case promptFood:
		fields := strings.Fields(text)
		qty := 1.0
		if len(fields) > 1 {
			q, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return "quantity must be a number", true, false
			}
			qty = q
		}
		_, food, ok := core.Nutrition.AddFood(today, fields[0], qty)
		if !ok {
			return fmt.Sprintf("Unknown food %q", fields[0]), true, false
		}
		out := "Added " + food.Name
		if food.Warning != "" {
			return out + " (" + food.Warning + ")", true, true
		}
		return out, false, true

	case promptCalories:
		eaten, burned, err := parseCalories(text)
		if err != nil {
			return err.Error(), true, false
		}
		cur, _ := core.Nutrition.Calories(today)
		if eaten < 0 {
			eaten = cur.Eaten
		}
		if burned < 0 {
			burned = cur.Burned
		}
		if !core.Nutrition.SetCalories(today, eaten, burned) {
			return "Calories must be non-negative", true, false
		}
		return fmt.Sprintf("Calories: %s eaten, %s burned", cli.FormatKcal(eaten), cli.FormatKcal(burned)), false, true
	}
	return "", false, false
}

// sameDayWorkouts collects what is already logged today for slot, so a
// new line replaces them with one workout holding every exercise.
func sameDayWorkouts(a *App, slot string) (ids []string, exercises []model.Exercise) {
	for _, w := range a.core.Training.On(a.core.Today()) {
		if w.DayType == slot {
			ids = append(ids, w.ID)
			exercises = append(exercises, w.Exercises...)
		}
	}
	return ids, exercises
}

// parseEntry reads "label amount [date]".
func parseEntry(s string) (label string, amount float64, date string, err error) {
	fields := strings.Fields(s)
	if n := len(fields); n > 0 && dates.Valid(fields[n-1]) {
		date = fields[n-1]
		fields = fields[:n-1]
	}
	if len(fields) < 2 {
		return "", 0, "", fmt.Errorf("want: label amount [YYYY-MM-DD]")
	}
	amount, err = parseAmount(fields[len(fields)-1])
	if err != nil {
		return "", 0, "", err
	}
	return strings.Join(fields[:len(fields)-1], " "), amount, date, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer(cli.Currency, "", ",", "", "g", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	return v, nil
}

// parseCalories reads "eaten N" and/or "burned N" in any order, or a bare
// "N [M]" as eaten then burned. Missing values come back as -1.
func parseCalories(s string) (eaten, burned float64, err error) {
	eaten, burned = -1, -1
	fields := strings.Fields(strings.ToLower(s))
	var bare []float64
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "eaten", "burned":
			if i+1 >= len(fields) {
				return 0, 0, fmt.Errorf("missing value after %s", fields[i])
			}
			v, perr := strconv.ParseFloat(fields[i+1], 64)
			if perr != nil {
				return 0, 0, fmt.Errorf("%q is not a number", fields[i+1])
			}
			if fields[i] == "eaten" {
				eaten = v
			} else {
				burned = v
			}
			i++
		default:
			v, perr := strconv.ParseFloat(fields[i], 64)
			if perr != nil {
				return 0, 0, fmt.Errorf("%q is not a number", fields[i])
			}
			bare = append(bare, v)
		}
	}
	if len(bare) > 0 && eaten < 0 {
		eaten = bare[0]
		bare = bare[1:]
	}
	if len(bare) > 0 && burned < 0 {
		burned = bare[0]
	}
	if eaten < 0 && burned < 0 {
		return 0, 0, fmt.Errorf("want: eaten N [burned M]")
	}
	return eaten, burned, nil
}
