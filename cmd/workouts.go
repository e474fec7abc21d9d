package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/workout"

	"github.com/spf13/cobra"
)

var (
	flagLogDate  string
	flagLogSlot  string
	flagLogNotes string
	flagHistN    int
	flagHistName string
)

var gymLogCmd = &cobra.Command{
	Use:   "log <exercise sets...>...",
	Short: "Log exercises for today's slot",
	Long: `Log one or more exercises. Each argument is an exercise name followed by
its sets as weight x reps. A bare "x12" is a bodyweight set.

Exercises logged for the same date and slot extend that day's workout.`,
	Example: `  zenith gym log "Chest Press 15x10 15x10 17.5x8" "Lateral Raises 5x12 5x12"
  zenith gym log "Pull-ups x8 x8" --slot pull --date 2026-03-09`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGymLog,
}

var gymCustomCmd = &cobra.Command{
	Use:   "custom <name> <sets...>",
	Short: "Log an exercise outside the rotation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		sets, err := workout.ParseSets(args[1:])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			w, ok := a.Training.SaveCustom(ctx, flagLogDate, args[0], sets, flagLogNotes)
			if !ok {
				return errors.New("nothing to save: every set needs weight and reps")
			}
			a.AutoSync(ctx)
			fmt.Printf("  Logged %s on %s (%s)\n", args[0], w.Date, formatSets(w.Exercises[0].Sets))
			return nil
		})
	},
}

var gymOverloadCmd = &cobra.Command{
	Use:   "overload <exercise...>",
	Short: "Suggest the next working weight for an exercise",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withApp(func(_ context.Context, a *app.App) error {
			perf, hasLast := a.Training.Last(name)
			if !hasLast {
				fmt.Printf("  No history for %s yet.\n", name)
				return nil
			}
			fmt.Printf("  Last %s on %s: %s\n", name, perf.Date, formatSets(perf.Sets))
			if s, ok := a.Training.Suggest(name); ok {
				fmt.Printf("  %s %s -> %s\n", cli.Good("Ready to progress:"), cli.FormatKg(s.CurrentWeight), cli.FormatKg(s.SuggestedWeight))
			} else {
				fmt.Println(cli.Muted("  Hold the weight: two sessions of 2+ sets at 8+ reps unlock the next step."))
			}
			return nil
		})
	},
}

var gymHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Recent workouts, newest first",
	RunE:  runGymHistory,
}

var gymDeleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Delete a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			var match string
			for _, w := range a.Training.Workouts() {
				if strings.HasPrefix(w.ID, args[0]) {
					if match != "" {
						return fmt.Errorf("id %q is ambiguous", args[0])
					}
					match = w.ID
				}
			}
			if match == "" || !a.DeleteWorkout(match) {
				return fmt.Errorf("no workout with id %q", args[0])
			}
			a.AutoSync(ctx)
			fmt.Printf("  Deleted workout %s\n", shortID(match))
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{gymLogCmd, gymCustomCmd} {
		c.Flags().StringVar(&flagLogDate, "date", "", "Workout date (default today)")
	}
	gymLogCmd.Flags().StringVar(&flagLogSlot, "slot", "", "Slot key (default today's slot)")
	gymCustomCmd.Flags().StringVar(&flagLogNotes, "notes", "", "Notes for the exercise")
	gymHistoryCmd.Flags().IntVarP(&flagHistN, "limit", "n", 10, "Workouts to show")
	gymHistoryCmd.Flags().StringVar(&flagHistName, "exercise", "", "Only workouts containing this exercise")

	gymCmd.AddCommand(gymLogCmd, gymCustomCmd, gymOverloadCmd, gymHistoryCmd, gymDeleteCmd)
}

func runGymLog(_ *cobra.Command, args []string) error {
	exercises := make([]model.Exercise, 0, len(args))
	for _, line := range args {
		ex, err := workout.ParseExerciseLine(line)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", line, err)
		}
		exercises = append(exercises, ex)
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		date := flagLogDate
		if date == "" {
			date = a.Today()
		}
		slot := flagLogSlot
		if slot == "" {
			slot = a.Schedule.On(date).Slot.Key
		}

		var ids []string
		var merged []model.Exercise
		for _, w := range a.Training.On(date) {
			if w.DayType == slot {
				ids = append(ids, w.ID)
				merged = append(merged, w.Exercises...)
			}
		}
		w, ok := a.Training.Save(ctx, date, slot, append(merged, exercises...))
		if !ok {
			return errors.New("nothing to save: every set needs weight and reps")
		}
		for _, id := range ids {
			a.DeleteWorkout(id)
		}
		a.AutoSync(ctx)

		fmt.Printf("  Saved %s workout for %s: %d exercises, %s volume\n", slot, w.Date, len(w.Exercises), cli.FormatKg(w.Volume()))
		for _, ex := range exercises {
			if s, ok := a.Training.Suggest(ex.Name); ok {
				fmt.Printf("  %s %s next time\n", cli.Good("↑ "+ex.Name), cli.FormatKg(s.SuggestedWeight))
			}
		}
		return nil
	})
}

func runGymHistory(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		today := a.Today()
		var rows [][]string
		for _, w := range a.Training.Workouts() {
			if flagHistName != "" && !w.HasExercise(flagHistName) {
				continue
			}
			if len(rows) == flagHistN {
				break
			}
			title := w.DayType
			if w.Name != "" {
				title = w.Name
			}
			names := make([]string, len(w.Exercises))
			for i, e := range w.Exercises {
				names[i] = e.Name
			}
			rows = append(rows, []string{
				shortID(w.ID),
				cli.FormatDate(w.Date, today),
				title,
				strings.Join(names, ", "),
				cli.FormatKg(w.Volume()),
			})
		}
		if len(rows) == 0 {
			fmt.Println("\n  No workouts logged.")
			return nil
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Workouts",
			Headers:  []string{"ID", "Date", "Day", "Exercises", "Volume"},
			Rows:     rows,
			LeftCols: 4,
		}))
		return nil
	})
}
