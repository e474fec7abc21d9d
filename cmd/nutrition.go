package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/nutrition"

	"github.com/spf13/cobra"
)

var (
	flagNutDate   string
	flagTrendDays int
	flagEaten     float64
	flagBurned    float64
	flagFoodCat   string
)

var weightCmd = &cobra.Command{
	Use:   "weight [kg]",
	Short: "Log body weight, or show the recent trend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWeight,
}

var proteinCmd = &cobra.Command{
	Use:   "protein [label...] [grams]",
	Short: "Log protein, or list today's meals",
	RunE:  runProtein,
}

var proteinRemoveCmd = &cobra.Command{
	Use:   "remove <id-prefix>",
	Short: "Remove a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			date := nutDate(a)
			for _, m := range a.Nutrition.Meals(date) {
				if strings.HasPrefix(m.ID, args[0]) && a.Nutrition.RemoveMeal(date, m.ID) {
					fmt.Printf("  Removed %s (%s)\n", m.Label, cli.FormatGrams(m.Grams))
					return nil
				}
			}
			return fmt.Errorf("no meal %q on %s", args[0], date)
		})
	},
}

var proteinGoalCmd = &cobra.Command{
	Use:   "goal <grams>",
	Short: "Set the daily protein goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		g, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "g"), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", args[0])
		}
		return withApp(func(_ context.Context, a *app.App) error {
			if !a.Nutrition.SetProteinGoal(g) {
				return errors.New("goal must be positive")
			}
			fmt.Printf("  Protein goal: %s\n", cli.FormatGrams(g))
			return nil
		})
	},
}

var foodCmd = &cobra.Command{
	Use:   "food [key] [qty]",
	Short: "Log a food from the database, or list the database",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runFood,
}

var caloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "Set calories eaten and burned, or show today's balance",
	RunE:  runCalories,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Seven-day training and nutrition summary",
	RunE:  runWeek,
}

func init() {
	for _, c := range []*cobra.Command{weightCmd, proteinCmd, proteinRemoveCmd, foodCmd, caloriesCmd} {
		c.Flags().StringVar(&flagNutDate, "date", "", "Date (default today)")
	}
	weightCmd.Flags().IntVarP(&flagTrendDays, "days", "n", 14, "Trend window in days")
	caloriesCmd.Flags().Float64Var(&flagEaten, "eaten", -1, "Calories eaten")
	caloriesCmd.Flags().Float64Var(&flagBurned, "burned", -1, "Calories burned")
	foodCmd.Flags().StringVar(&flagFoodCat, "category", "", "Only list this category")

	proteinCmd.AddCommand(proteinRemoveCmd, proteinGoalCmd)
	rootCmd.AddCommand(weightCmd, proteinCmd, foodCmd, caloriesCmd, weekCmd)
}

func nutDate(a *app.App) string {
	if flagNutDate != "" {
		return flagNutDate
	}
	return a.Today()
}

func runWeight(_ *cobra.Command, args []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		if len(args) == 1 {
			kg, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "kg"), 64)
			if err != nil {
				return fmt.Errorf("%q is not a weight", args[0])
			}
			if !a.Nutrition.LogWeight(nutDate(a), kg) {
				return errors.New("weight must be 20-300 kg on a valid date")
			}
			fmt.Printf("  Logged %s for %s\n", cli.FormatKg(kg), nutDate(a))
		}

		trend := a.Nutrition.WeightTrend(flagTrendDays)
		if len(trend) == 0 {
			fmt.Println("  No weight logged in the window.")
			return nil
		}
		values := make([]float64, len(trend))
		for i, e := range trend {
			values[i] = e.Weight
		}
		latest := trend[len(trend)-1].Weight
		pairs := []cli.Pair{
			{Label: "Current", Value: cli.FormatKg(latest)},
			{Label: fmt.Sprintf("%dd change", flagTrendDays), Value: cli.FormatDelta(latest, trend[0].Weight, cli.FormatKg)},
			{Label: "Goal", Value: fmt.Sprintf("%s (%s to go)", cli.FormatKg(a.Goal.Weight), cli.FormatKg(latest-a.Goal.Weight))},
		}
		if len(values) > 1 {
			pairs = append(pairs, cli.Pair{Label: "Trend", Value: cli.RenderSparkline(values)})
		}
		fmt.Print(cli.RenderPairs("", pairs))
		return nil
	})
}

func runProtein(_ *cobra.Command, args []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		date := nutDate(a)
		if len(args) > 0 {
			grams, err := strconv.ParseFloat(strings.TrimSuffix(args[len(args)-1], "g"), 64)
			if err != nil {
				return fmt.Errorf("%q is not a gram amount", args[len(args)-1])
			}
			m, ok := a.Nutrition.AddMeal(date, strings.Join(args[:len(args)-1], " "), grams)
			if !ok {
				return errors.New("protein must be positive on a valid date")
			}
			fmt.Printf("  Logged %s %s\n", m.Label, cli.FormatGrams(m.Grams))
		}

		meals := a.Nutrition.Meals(date)
		rows := make([][]string, 0, len(meals))
		for _, m := range meals {
			rows = append(rows, []string{shortID(m.ID), m.Label, cli.FormatGrams(m.Grams)})
		}
		if len(rows) > 0 {
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Headers:  []string{"ID", "Meal", "Protein"},
				Rows:     rows,
				LeftCols: 2,
			}))
		}
		total, goal := a.Nutrition.ProteinTotal(date), a.Nutrition.ProteinGoal()
		fmt.Printf("\n  %s / %s  %s\n", cli.FormatGrams(total), cli.FormatGrams(goal), cli.RenderProgressBar(total, goal, 24, false))
		return nil
	})
}

func runFood(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		var rows [][]string
		for _, f := range nutrition.Foods() {
			if flagFoodCat != "" && !strings.EqualFold(f.Category, flagFoodCat) {
				continue
			}
			warn := ""
			if f.Warning != "" {
				warn = cli.Warn(f.Warning)
			}
			rows = append(rows, []string{f.Key, f.Name, f.Unit, f.Category, cli.FormatGrams(f.Protein), cli.FormatKcal(f.Calories), warn})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Foods",
			Headers:  []string{"Key", "Food", "Unit", "Category", "Protein", "Calories", "Note"},
			Rows:     rows,
			LeftCols: 4,
		}))
		return nil
	}

	qty := 1.0
	if len(args) == 2 {
		q, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%q is not a quantity", args[1])
		}
		qty = q
	}
	return withApp(func(_ context.Context, a *app.App) error {
		_, f, ok := a.Nutrition.AddFood(nutDate(a), args[0], qty)
		if !ok {
			return fmt.Errorf("unknown food %q (see `zenith food`)", args[0])
		}
		fmt.Printf("  Logged %g x %s: %s protein, %s\n", qty, f.Name, cli.FormatGrams(f.Protein*qty), cli.FormatKcal(f.Calories*qty))
		if f.Warning != "" {
			fmt.Printf("  %s\n", cli.Warn(f.Warning))
		}
		return nil
	})
}

func runCalories(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		date := nutDate(a)
		cur, _ := a.Nutrition.Calories(date)
		if flagEaten >= 0 || flagBurned >= 0 {
			eaten, burned := cur.Eaten, cur.Burned
			if flagEaten >= 0 {
				eaten = flagEaten
			}
			if flagBurned >= 0 {
				burned = flagBurned
			}
			if !a.Nutrition.SetCalories(date, eaten, burned) {
				return errors.New("calories must be non-negative and not both zero")
			}
			cur, _ = a.Nutrition.Calories(date)
		}

		goal := appConfig.Nutrition.CalorieGoal
		if goal <= 0 {
			goal = nutrition.CalorieGoal
		}
		deficit := cli.FormatKcal(cur.Deficit())
		if cur.Deficit() < 0 {
			deficit = cli.Warn(deficit)
		} else {
			deficit = cli.Good(deficit)
		}
		fmt.Print(cli.RenderPairs(date, []cli.Pair{
			{Label: "Eaten", Value: fmt.Sprintf("%s / %s  %s", cli.FormatKcal(cur.Eaten), cli.FormatKcal(goal), cli.RenderProgressBar(cur.Eaten, goal, 20, true))},
			{Label: "Burned", Value: cli.FormatKcal(cur.Burned)},
			{Label: "Deficit", Value: deficit},
		}))
		return nil
	})
}

func runWeek(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		s := a.Nutrition.Summary(a.Training.Workouts())

		avg := "-"
		if s.HasAvgWeight {
			avg = cli.FormatKg(s.AvgWeight)
		}
		change := "-"
		if s.HasVolumeChange {
			change = fmt.Sprintf("%+d%%", s.VolumeChange)
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("WEEK  %s to %s", s.From, s.To)))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Workouts", strconv.Itoa(s.Workouts)},
				{"Calories burned", cli.FormatKcal(s.CaloriesBurned)},
				{"Average weight", avg},
				{"---"},
				{"Volume", cli.FormatKg(s.Volume)},
				{"Previous week", cli.FormatKg(s.PrevVolume)},
				{"Change", change},
			},
		}))
		return nil
	})
}
