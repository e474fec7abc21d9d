package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/sheet"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export transactions, workouts and weights to a workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			path := "zenith-" + a.Today() + ".xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			c, err := a.Export(path)
			if errors.Is(err, sheet.ErrNoData) {
				fmt.Println("  Nothing to export yet.")
				return nil
			}
			if err != nil {
				return err
			}
			abs, _ := filepath.Abs(path)
			fmt.Printf("  Exported to %s\n", abs)
			printCounts(c)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Merge a workbook into history",
	Long: `Merge a workbook into history. Imported transactions are history records
and never change the balance; rows already imported are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			c, err := a.Import(args[0])
			if err != nil {
				return err
			}
			if c.Total() == 0 {
				fmt.Println("  Nothing new to import.")
				return nil
			}
			a.AutoSync(ctx)
			fmt.Printf("  Imported from %s\n", args[0])
			printCounts(c)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}

func printCounts(c sheet.Counts) {
	fmt.Print(cli.RenderPairs("", []cli.Pair{
		{Label: "Transactions", Value: fmt.Sprintf("%d", c.Transactions)},
		{Label: "Workouts", Value: fmt.Sprintf("%d (%d sets)", c.Workouts, c.Sets)},
		{Label: "Weights", Value: fmt.Sprintf("%d", c.Weights)},
	}))
}
