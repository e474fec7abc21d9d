package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/model"

	"github.com/spf13/cobra"
)

var buttonsCmd = &cobra.Command{
	Use:   "buttons",
	Short: "List quick-add presets",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			rows := make([][]string, 0, len(a.Budget.Buttons()))
			for i, b := range a.Budget.Buttons() {
				rows = append(rows, []string{strconv.Itoa(i + 1), b.Key, b.Label, cli.FormatMoney(b.Price)})
			}
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Title:    "Quick add",
				Headers:  []string{"#", "Key", "Label", "Price"},
				Rows:     rows,
				LeftCols: 3,
			}))
			return nil
		})
	},
}

var buttonsAddCmd = &cobra.Command{
	Use:   "add <label...> <price>",
	Short: "Add a custom preset",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		price, err := parseMoney(args[len(args)-1])
		if err != nil {
			return err
		}
		label := strings.Join(args[:len(args)-1], " ")
		return withApp(func(_ context.Context, a *app.App) error {
			b, res := a.Budget.AddQuickButton(label, price)
			if !res.OK() {
				return errors.New("preset rejected: " + res.String())
			}
			fmt.Printf("  Added %s (%s) as %s\n", b.Label, cli.FormatMoney(b.Price), b.Key)
			return nil
		})
	},
}

var buttonsRemoveCmd = &cobra.Command{
	Use:   "remove <key|#>",
	Short: "Remove a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			b, ok := findButton(a, args[0])
			if !ok || !a.Budget.RemoveQuickButton(b.Key) {
				return fmt.Errorf("no preset %q", args[0])
			}
			fmt.Printf("  Removed %s\n", b.Label)
			return nil
		})
	},
}

var buttonsUseCmd = &cobra.Command{
	Use:   "use <key|#>",
	Short: "Record a preset as today's spend",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			b, ok := findButton(a, args[0])
			if !ok {
				return fmt.Errorf("no preset %q", args[0])
			}
			tx, res := a.Budget.UseQuickButton(ctx, b.Key)
			if !res.OK() {
				return errors.New("spend rejected: " + res.String())
			}
			a.AutoSync(ctx)
			snap := a.Budget.Snapshot()
			fmt.Printf("  Added %s %s, %s left today\n", tx.Label, cli.FormatMoney(tx.Amount), cli.FormatMoney(snap.Remaining))
			return nil
		})
	},
}

func init() {
	buttonsCmd.AddCommand(buttonsAddCmd, buttonsRemoveCmd, buttonsUseCmd)
	rootCmd.AddCommand(buttonsCmd)
}

// findButton accepts a key or a 1-based position.
func findButton(a *app.App, ref string) (model.QuickButton, bool) {
	buttons := a.Budget.Buttons()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(buttons) {
		return buttons[n-1], true
	}
	for _, b := range buttons {
		if b.Key == ref {
			return b, true
		}
	}
	return model.QuickButton{}, false
}
