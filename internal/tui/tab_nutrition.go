package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/nutrition"
	"github.com/theirongolddev/zenith/internal/tui/components"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const weightTrendDays = 14

func (a *App) nutritionKey(key string) (bool, tea.Cmd) {
	switch key {
	case "w":
		return true, a.openPrompt(promptWeight)
	case "p":
		return true, a.openPrompt(promptProtein)
	case "f":
		return true, a.openPrompt(promptFood)
	case "c":
		return true, a.openPrompt(promptCalories)
	}
	return false, nil
}

// calorieGoal prefers the configured goal over the built-in one.
func (a App) calorieGoal() float64 {
	if g := a.core.Config.Nutrition.CalorieGoal; g > 0 {
		return g
	}
	return nutrition.CalorieGoal
}

func (a App) renderNutritionTab(cw int) string {
	t := theme.Active
	core := a.core
	n := core.Nutrition
	today := core.Today()

	protein := n.ProteinTotal(today)
	cal, _ := n.Calories(today)

	weight := "-"
	weightDelta := ""
	if kg, ok := n.CurrentWeight(); ok {
		weight = cli.FormatKg(kg)
		if core.Goal.Weight > 0 {
			weightDelta = cli.FormatDelta(kg, core.Goal.Weight, cli.FormatKg) + " vs goal"
		}
	}
	deficitColor := t.Green
	if cal.Deficit() < 0 {
		deficitColor = t.Orange
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Weight", Value: weight, Delta: weightDelta, Color: t.AccentBright},
		{Label: "Protein", Value: cli.FormatGrams(protein), Delta: "of " + cli.FormatGrams(n.ProteinGoal())},
		{Label: "Eaten", Value: cli.FormatKcal(cal.Eaten), Delta: "of " + cli.FormatKcal(a.calorieGoal())},
		{Label: "Deficit", Value: cli.FormatKcal(cal.Deficit()), Delta: cli.FormatKcal(cal.Burned) + " burned", Color: deficitColor},
	}, cw))
	b.WriteString("\n")

	barW := max(components.CardInnerWidth(cw)-18, 10)
	bars := components.GoalBar("Protein", protein, n.ProteinGoal(), 8, barW, false) + "\n" +
		components.GoalBar("Calories", cal.Eaten, a.calorieGoal(), 8, barW, true)
	b.WriteString(components.ContentCard("Today", bars, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	week := components.ContentCard("This week", a.renderWeek(), halves[0])
	meals := components.ContentCard("Meals today", a.renderMeals(today), halves[1])
	b.WriteString(components.CardRow([]string{week, meals}))
	return b.String()
}

func (a App) renderWeek() string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	s := a.core.Nutrition.Summary(a.core.Training.Workouts())
	avg := "-"
	if s.HasAvgWeight {
		avg = cli.FormatKg(s.AvgWeight)
	}
	change := "-"
	if s.HasVolumeChange {
		change = fmt.Sprintf("%+d%%", s.VolumeChange)
	}

	rows := []struct{ k, v string }{
		{"Workouts", fmt.Sprintf("%d", s.Workouts)},
		{"Burned", cli.FormatKcal(s.CaloriesBurned)},
		{"Avg weight", avg},
		{"Volume", cli.FormatKg(s.Volume)},
		{"vs last week", change},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, label.Render(fmt.Sprintf("%-13s", r.k))+value.Render(r.v))
	}

	trend := a.core.Nutrition.WeightTrend(weightTrendDays)
	if len(trend) > 1 {
		vals := make([]float64, len(trend))
		for i, e := range trend {
			vals[i] = e.Weight
		}
		lines = append(lines, label.Render(fmt.Sprintf("%-13s", "Weight trend"))+components.Sparkline(vals, t.Blue))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderMeals(today string) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	meals := a.core.Nutrition.Meals(today)
	if len(meals) == 0 {
		return muted.Render("Nothing logged. p adds protein, f adds a food.")
	}
	var lines []string
	for _, m := range meals {
		lines = append(lines, row.Render(fmt.Sprintf("%-22s", truncStr(m.Label, 22)))+muted.Render(cli.FormatGrams(m.Grams)))
	}
	return strings.Join(lines, "\n")
}
