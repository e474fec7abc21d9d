package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/schedule"

	"github.com/spf13/cobra"
)

var flagGymDays int

var gymCmd = &cobra.Command{
	Use:   "gym",
	Short: "Today's training slot and the week ahead",
	RunE:  runGymToday,
}

var gymSwapCmd = &cobra.Command{
	Use:   "swap <slot>",
	Short: "Make today a different slot; the rotation continues from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runGymSwap,
}

var gymTemplateCmd = &cobra.Command{
	Use:   "template [key]",
	Short: "List split templates or switch to one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGymTemplate,
}

var gymGoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Countdown to the goal date",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			c := a.Goal.Until(a.Clock())
			pairs := []cli.Pair{
				{Label: "Goal", Value: fmt.Sprintf("%s by %s", cli.FormatKg(a.Goal.Weight), a.Goal.Date)},
				{Label: "Left", Value: fmt.Sprintf("%dd %dh %dm", c.Days, c.Hours, c.Minutes)},
			}
			if kg, ok := a.Nutrition.CurrentWeight(); ok {
				pairs = append(pairs, cli.Pair{Label: "To go", Value: cli.FormatKg(kg - a.Goal.Weight)})
			}
			fmt.Print(cli.RenderPairs("", pairs))
			return nil
		})
	},
}

func init() {
	gymCmd.Flags().IntVarP(&flagGymDays, "days", "n", 7, "Days of the rotation to show")
	gymCmd.AddCommand(gymSwapCmd, gymTemplateCmd, gymGoalCmd)
	rootCmd.AddCommand(gymCmd)
}

func runGymToday(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		today := a.Schedule.Today()
		fmt.Println()
		fmt.Println(cli.RenderTitle(strings.ToUpper(today.Slot.Title) + "  " + today.Slot.Focus))
		fmt.Println()

		exercises := a.Schedule.Exercises(today.Slot.Key)
		if len(exercises) == 0 {
			fmt.Println("  Rest day. Recover well.")
		} else {
			rows := make([][]string, 0, len(exercises))
			for _, ex := range exercises {
				last, next := "-", "-"
				if p, ok := a.Training.Last(ex.Name); ok {
					last = formatSets(p.Sets)
				}
				if s, ok := a.Training.Suggest(ex.Name); ok {
					next = cli.Good(cli.FormatKg(s.SuggestedWeight))
				}
				rows = append(rows, []string{ex.Name, ex.Target, ex.Reps, last, next})
			}
			fmt.Print(cli.RenderTable(cli.Table{
				Headers:  []string{"Exercise", "Target", "Reps", "Last", "Next"},
				Rows:     rows,
				LeftCols: 5,
			}))
		}

		fmt.Println()
		var pairs []cli.Pair
		for i, d := range a.Schedule.Upcoming(max(flagGymDays, 1)) {
			label := cli.FormatDate(d.Date, today.Date)
			if i == 0 {
				label = "Today"
			}
			pairs = append(pairs, cli.Pair{Label: label, Value: d.Slot.Title})
		}
		fmt.Print(cli.RenderPairs("Rotation", pairs))
		return nil
	})
}

func runGymSwap(_ *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		tmpl := a.Schedule.Template()
		key := strings.ToLower(args[0])
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= tmpl.Len() {
			key = tmpl.Split[n-1].Key
		}
		if !a.Schedule.ApplySwap(key) {
			keys := make([]string, tmpl.Len())
			for i, s := range tmpl.Split {
				keys[i] = s.Key
			}
			return fmt.Errorf("%q is not in %s (%s)", args[0], tmpl.Name, strings.Join(keys, ", "))
		}
		a.AutoSync(ctx)
		fmt.Printf("  Today is now %s\n", a.Schedule.Today().Slot.Title)
		return nil
	})
}

func runGymTemplate(_ *cobra.Command, args []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		if len(args) == 0 {
			cur := a.Schedule.Template().Key
			rows := make([][]string, 0, len(schedule.Templates()))
			for _, t := range schedule.Templates() {
				mark := ""
				if t.Key == cur {
					mark = "●"
				}
				slots := make([]string, t.Len())
				for i, s := range t.Split {
					slots[i] = s.Key
				}
				rows = append(rows, []string{mark, t.Key, t.Name, strings.Join(slots, " → ")})
			}
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Headers:  []string{"", "Key", "Name", "Rotation"},
				Rows:     rows,
				LeftCols: 4,
			}))
			return nil
		}

		if !a.Schedule.SetTemplate(args[0]) {
			return fmt.Errorf("unknown template %q", args[0])
		}
		appConfig.Gym.Template = args[0]
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("  Template: %s, today is %s\n", a.Schedule.Template().Name, a.Schedule.Today().Slot.Title)
		return nil
	})
}

func formatSets(sets []model.Set) string {
	weights := make([]float64, len(sets))
	reps := make([]int, len(sets))
	for i, s := range sets {
		weights[i] = s.Weight
		reps[i] = s.Reps
	}
	return cli.FormatSets(weights, reps)
}

func countExercises(ws []model.Workout) int {
	n := 0
	for _, w := range ws {
		n += len(w.Exercises)
	}
	return n
}
