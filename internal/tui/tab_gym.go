package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/schedule"
	"github.com/theirongolddev/zenith/internal/tui/components"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) gymKey(key string) (bool, tea.Cmd) {
	sched := a.core.Schedule
	switch key {
	case "l":
		return true, a.openPrompt(promptLog)
	case "[", "]":
		tmpl := sched.Template()
		n := tmpl.Len()
		step := 1
		if key == "[" {
			step = n - 1
		}
		next := tmpl.Split[(sched.Today().Index+step)%n]
		if sched.ApplySwap(next.Key) {
			a.flash("Today is now "+next.Title, false)
			return true, a.afterChange()
		}
		return true, nil
	case "t":
		all := schedule.Templates()
		cur := sched.Template().Key
		for i, tmpl := range all {
			if tmpl.Key == cur {
				next := all[(i+1)%len(all)]
				sched.SetTemplate(next.Key)
				a.flash("Template: "+next.Name, false)
				return true, a.afterChange()
			}
		}
		return true, nil
	}
	return false, nil
}

func (a App) renderGymTab(cw int) string {
	t := theme.Active
	core := a.core
	sched := core.Schedule
	today := sched.Today()
	tmpl := sched.Template()
	workouts := core.Training.Workouts()
	summary := core.Nutrition.Summary(workouts)

	var b strings.Builder

	volDelta := ""
	if summary.HasVolumeChange {
		volDelta = fmt.Sprintf("%+d%% volume", summary.VolumeChange)
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Today", Value: today.Slot.Title, Delta: today.Slot.Focus, Color: t.AccentBright},
		{Label: "Template", Value: tmpl.Name, Delta: fmt.Sprintf("day %d of %d", today.Index+1, tmpl.Len())},
		{Label: "This week", Value: fmt.Sprintf("%d workouts", summary.Workouts), Delta: volDelta},
		{Label: "Goal " + cli.FormatKg(core.Goal.Weight), Value: components.FormatCountdown(core.Goal.Until(core.Clock())), Delta: "until " + core.Goal.Date},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	plan := components.ContentCard("Today's plan", a.renderPlan(today.Slot.Key), halves[0])
	upcoming := components.ContentCard("Next 7 days", a.renderUpcoming(sched.Upcoming(7)), halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Today's plan", a.renderPlan(today.Slot.Key), cw))
	} else {
		b.WriteString(components.CardRow([]string{plan, upcoming}))
	}
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Recent workouts", a.renderRecent(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderPlan(slotKey string) string {
	t := theme.Active
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	up := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	exercises := a.core.Schedule.Exercises(slotKey)
	if len(exercises) == 0 {
		return muted.Render("Rest day. Recover well.")
	}
	var lines []string
	for _, ex := range exercises {
		lines = append(lines, name.Render(ex.Name)+muted.Render(fmt.Sprintf("  %s · %s", ex.Target, ex.Reps)))
		detail := ""
		if perf, ok := a.core.Training.Last(ex.Name); ok {
			detail = "last " + formatSets(perf.Sets)
		}
		if s, ok := a.core.Training.Suggest(ex.Name); ok {
			if detail != "" {
				detail += "  "
			}
			lines = append(lines, "  "+muted.Render(detail)+up.Render("→ "+cli.FormatKg(s.SuggestedWeight)))
			continue
		}
		if detail != "" {
			lines = append(lines, "  "+muted.Render(detail))
		}
	}
	return strings.Join(lines, "\n")
}

func (a App) renderUpcoming(days []schedule.Day) string {
	t := theme.Active
	date := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	rest := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	for i, d := range days {
		label := d.Date
		if tm, ok := dates.ParseISO(d.Date); ok {
			label = tm.Format("Mon 02")
		}
		if i == 0 {
			label = "Today "
		}
		style := title
		if len(a.core.Schedule.Exercises(d.Slot.Key)) == 0 {
			style = rest
		}
		lines = append(lines, date.Render(label+"  ")+style.Render(d.Slot.Title))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderRecent(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	workouts := a.core.Training.Workouts()
	if len(workouts) == 0 {
		return muted.Render("No workouts logged. Press l to log an exercise.")
	}
	today := a.core.Today()
	var lines []string
	for i, wo := range workouts {
		if i == 5 {
			break
		}
		names := make([]string, len(wo.Exercises))
		for j, e := range wo.Exercises {
			names[j] = e.Name
		}
		title := wo.DayType
		if wo.Name != "" {
			title = wo.Name
		}
		line := fmt.Sprintf("%-16s %-10s %s", truncStr(cli.FormatDate(wo.Date, today), 16), truncStr(title, 10), strings.Join(names, ", "))
		lines = append(lines, row.Render(truncStr(line, w-12))+muted.Render(fmt.Sprintf(" %8s", cli.FormatKg(wo.Volume()))))
	}
	return strings.Join(lines, "\n")
}

func formatSets(sets []model.Set) string {
	weights := make([]float64, len(sets))
	reps := make([]int, len(sets))
	for i, st := range sets {
		weights[i] = st.Weight
		reps[i] = st.Reps
	}
	return cli.FormatSets(weights, reps)
}
