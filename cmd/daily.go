package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/dates"

	"github.com/spf13/cobra"
)

var flagDailyDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily spending table",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDailyDays, "days", "n", 14, "Days to show")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	return withApp(func(_ context.Context, a *app.App) error {
		txns := a.Budget.State().Transactions
		if len(txns) == 0 {
			fmt.Println("\n  No transactions recorded.")
			return nil
		}
		today := a.Today()
		limit := a.Budget.DailyLimit()

		days := max(flagDailyDays, 1)
		rows := make([][]string, 0, days)
		series := make([]float64, 0, days)
		var total float64
		for i := 0; i < days; i++ {
			day := dates.AddDays(today, -i)
			spent := budget.TodaysSpend(txns, day)
			total += spent
			series = append(series, spent)

			amount := cli.FormatMoney(spent)
			if budget.OverLimit(spent, limit) {
				amount = cli.Bad(amount)
			}
			weekday := ""
			if t, ok := dates.ParseISO(day); ok {
				weekday = t.Format("Mon")
			}
			rows = append(rows, []string{day, weekday, amount})
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY SPEND  Last %dd", days)))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:  []string{"Date", "Day", "Spent"},
			Rows:     rows,
			LeftCols: 2,
		}))

		for l, r := 0, len(series)-1; l < r; l, r = l+1, r-1 {
			series[l], series[r] = series[r], series[l]
		}
		fmt.Printf("\n  Trend     %s\n", cli.RenderSparkline(series))
		fmt.Printf("  Average   %s/day against today's limit of %s\n", cli.FormatMoney(total/float64(days)), cli.FormatLimit(limit))
		return nil
	})
}
