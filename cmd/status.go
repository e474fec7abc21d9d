package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's allowance, training slot and intake",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		fmt.Print(renderStatus(a))
		return nil
	})
}

func renderStatus(a *app.App) string {
	snap := a.Budget.Snapshot()
	today := a.Schedule.Today()
	n := a.Nutrition

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("ZENITH  " + cli.FormatDate(snap.Today, snap.Today)))
	b.WriteString("\n\n")

	remaining := cli.FormatMoney(snap.Remaining)
	switch {
	case snap.OverLimit:
		remaining = cli.Bad(cli.FormatMoney(snap.Remaining))
	case snap.Remaining < snap.DailyLimit*0.25:
		remaining = cli.Warn(remaining)
	default:
		remaining = cli.Good(remaining)
	}
	b.WriteString(cli.RenderPairs("Wallet", []cli.Pair{
		{Label: "Daily limit", Value: cli.FormatLimit(snap.DailyLimit)},
		{Label: "Spent today", Value: cli.FormatMoney(snap.Spent) + "  " + cli.RenderProgressBar(snap.Spent, snap.DailyLimit, 20, true)},
		{Label: "Remaining", Value: remaining},
		{Label: "Balance", Value: cli.FormatMoney(snap.Balance)},
		{Label: "Month end", Value: snap.MonthEnd + "  " + cli.Muted(cli.FormatDays(snap.DaysLeft)+" left")},
	}))
	b.WriteString("\n")

	gym := []cli.Pair{
		{Label: "Today", Value: today.Slot.Title + "  " + cli.Muted(today.Slot.Focus)},
		{Label: "Template", Value: a.Schedule.Template().Name},
		{Label: "Goal", Value: fmt.Sprintf("%s by %s  %s", cli.FormatKg(a.Goal.Weight), a.Goal.Date, cli.Muted(cli.FormatDays(a.Goal.DaysLeft(snap.Today))+" left"))},
	}
	if ws := a.Training.On(snap.Today); len(ws) > 0 {
		gym = append(gym, cli.Pair{Label: "Logged", Value: cli.Good(fmt.Sprintf("%d exercises", countExercises(ws)))})
	}
	b.WriteString(cli.RenderPairs("Training", gym))
	b.WriteString("\n")

	protein := n.ProteinTotal(snap.Today)
	cal, _ := n.Calories(snap.Today)
	weight := "-"
	if kg, ok := n.CurrentWeight(); ok {
		weight = cli.FormatKg(kg)
	}
	b.WriteString(cli.RenderPairs("Nutrition", []cli.Pair{
		{Label: "Weight", Value: weight},
		{Label: "Protein", Value: fmt.Sprintf("%s / %s  %s", cli.FormatGrams(protein), cli.FormatGrams(n.ProteinGoal()), cli.RenderProgressBar(protein, n.ProteinGoal(), 20, false))},
		{Label: "Calories", Value: fmt.Sprintf("%s eaten, %s burned", cli.FormatKcal(cal.Eaten), cli.FormatKcal(cal.Burned))},
	}))
	b.WriteString("\n")
	return b.String()
}
