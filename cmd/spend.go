package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagSpendDate string
	flagSpendType string
	flagCheatNote string
)

var spendCmd = &cobra.Command{
	Use:   "spend <label...> <amount>",
	Short: "Record a spend against today's allowance",
	Example: `  zenith spend Lunch 120
  zenith spend "Bus pass" 450 --type expense
  zenith spend Groceries 300 --date 2026-03-08`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSpend,
}

var cheatCmd = &cobra.Command{
	Use:   "cheat <amount> [note...]",
	Short: "Log a cheat meal and show how it shrinks the daily limit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheat,
}

func init() {
	spendCmd.Flags().StringVar(&flagSpendDate, "date", "", "Date of the spend (backdated entries do not touch the balance)")
	spendCmd.Flags().StringVarP(&flagSpendType, "type", "t", "other", "food, expense or other")
	cheatCmd.Flags().StringVar(&flagCheatNote, "note", "", "Note for the cheat meal")
	rootCmd.AddCommand(spendCmd)
	rootCmd.AddCommand(cheatCmd)
}

func parseMoney(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), cli.Currency)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	return v, nil
}

func runSpend(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(args[len(args)-1])
	if err != nil {
		return err
	}
	label := strings.Join(args[:len(args)-1], " ")

	return withApp(func(ctx context.Context, a *app.App) error {
		before := a.Budget.Snapshot()
		tx, res := a.Budget.AddTransaction(ctx, budget.Entry{
			Label:  label,
			Amount: amount,
			Date:   flagSpendDate,
			Type:   model.ParseTxType(flagSpendType),
		})
		if !res.OK() {
			return errors.New("spend rejected: " + res.String())
		}
		a.AutoSync(ctx)

		after := a.Budget.Snapshot()
		fmt.Printf("  Added %s %s", tx.Label, cli.FormatMoney(tx.Amount))
		if tx.Date != after.Today {
			fmt.Printf(" on %s %s\n", tx.Date, cli.Muted("(history, balance unchanged)"))
			return nil
		}
		fmt.Println()
		fmt.Printf("  Balance %s -> %s\n", cli.FormatMoney(before.Balance), cli.FormatMoney(after.Balance))
		if after.OverLimit {
			fmt.Printf("  %s\n", cli.Bad(fmt.Sprintf("Over today's limit by %s", cli.FormatMoney(-after.Remaining))))
		} else {
			fmt.Printf("  %s left today\n", cli.Good(cli.FormatMoney(after.Remaining)))
		}
		return nil
	})
}

func runCheat(_ *cobra.Command, args []string) error {
	amount, err := parseMoney(args[0])
	if err != nil {
		return err
	}
	note := flagCheatNote
	if len(args) > 1 {
		note = strings.Join(args[1:], " ")
	}

	return withApp(func(ctx context.Context, a *app.App) error {
		impact, res := a.Budget.LogCheat(ctx, amount, note)
		if !res.OK() {
			return errors.New("cheat meal rejected: " + res.String())
		}
		a.AutoSync(ctx)
		fmt.Printf("  Cheat meal %s logged\n", cli.FormatMoney(amount))
		fmt.Printf("  Daily limit %s %s\n", cli.Warn(impact.String()), cli.Muted("now "+cli.FormatLimit(a.Budget.DailyLimit())))
		return nil
	})
}
