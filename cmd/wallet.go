package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Adjust the balance and month-end date",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			printWallet(a)
			return nil
		})
	},
}

var walletSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := parseMoney(args[0])
		if err != nil {
			return err
		}
		return withApp(func(_ context.Context, a *app.App) error {
			if !a.Budget.SetBalance(v) {
				return fmt.Errorf("balance %s rejected", args[0])
			}
			printWallet(a)
			return nil
		})
	},
}

var walletNudgeCmd = &cobra.Command{
	Use:       "nudge <up|down>",
	Short:     "Move the balance one configured step",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(_ *cobra.Command, args []string) error {
		if args[0] != "up" && args[0] != "down" {
			return errors.New("nudge takes up or down")
		}
		return withApp(func(_ context.Context, a *app.App) error {
			a.Budget.Nudge(args[0] == "up")
			printWallet(a)
			return nil
		})
	},
}

var walletMonthEndCmd = &cobra.Command{
	Use:   "month-end <YYYY-MM-DD>",
	Short: "Set the date the balance has to last until",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			if !a.Budget.SetMonthEnd(args[0]) {
				return fmt.Errorf("invalid date %q", args[0])
			}
			printWallet(a)
			return nil
		})
	},
}

var walletResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default balance and clear all transactions",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			a.Budget.Reset()
			fmt.Println("  Wallet reset.")
			printWallet(a)
			return nil
		})
	},
}

func init() {
	walletCmd.AddCommand(walletSetCmd, walletNudgeCmd, walletMonthEndCmd, walletResetCmd)
	rootCmd.AddCommand(walletCmd)
}

func printWallet(a *app.App) {
	snap := a.Budget.Snapshot()
	fmt.Print(cli.RenderPairs("", []cli.Pair{
		{Label: "Balance", Value: cli.FormatMoney(snap.Balance)},
		{Label: "Month end", Value: snap.MonthEnd},
		{Label: "Days left", Value: fmt.Sprintf("%d", snap.DaysLeft)},
		{Label: "Daily limit", Value: cli.FormatLimit(snap.DailyLimit)},
	}))
}
