package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagTxnsLimit int
	flagTxnsDate  string
)

var txnsCmd = &cobra.Command{
	Use:     "txns",
	Aliases: []string{"transactions"},
	Short:   "List recorded transactions, newest first",
	RunE:    runTxns,
}

var txnsDeleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Delete a transaction and credit it back per the refund policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxnsDelete,
}

func init() {
	txnsCmd.Flags().IntVarP(&flagTxnsLimit, "limit", "n", 20, "Rows to show (0 for all)")
	txnsCmd.Flags().StringVar(&flagTxnsDate, "date", "", "Only show this date")
	txnsCmd.AddCommand(txnsDeleteCmd)
	rootCmd.AddCommand(txnsCmd)
}

func runTxns(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		today := a.Today()
		var rows [][]string
		for _, t := range a.Budget.State().Transactions {
			if flagTxnsDate != "" && t.Date != flagTxnsDate {
				continue
			}
			if flagTxnsLimit > 0 && len(rows) == flagTxnsLimit {
				break
			}
			deducted := ""
			if t.Deducted {
				deducted = "✓"
			}
			rows = append(rows, []string{
				shortID(t.ID),
				cli.FormatDate(t.Date, today),
				t.Label,
				string(t.Type),
				deducted,
				cli.FormatMoney(t.Amount),
			})
		}
		if len(rows) == 0 {
			fmt.Println("\n  No transactions recorded.")
			return nil
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Transactions",
			Headers:  []string{"ID", "Date", "Label", "Type", "Deducted", "Amount"},
			Rows:     rows,
			LeftCols: 5,
		}))
		return nil
	})
}

func runTxnsDelete(_ *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		var matches []string
		for _, t := range a.Budget.State().Transactions {
			if strings.HasPrefix(t.ID, args[0]) {
				matches = append(matches, t.ID)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("no transaction with id %q", args[0])
		case 1:
		default:
			return fmt.Errorf("id %q matches %d transactions, use more characters", args[0], len(matches))
		}

		before := a.Budget.State().Wallet.Balance
		if !a.DeleteTransaction(matches[0]) {
			return fmt.Errorf("transaction %s already deleted", matches[0])
		}
		a.AutoSync(ctx)
		after := a.Budget.State().Wallet.Balance
		fmt.Printf("  Deleted %s\n", shortID(matches[0]))
		if after != before {
			fmt.Printf("  Balance %s -> %s\n", cli.FormatMoney(before), cli.FormatMoney(after))
		}
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
