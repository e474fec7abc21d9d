package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the stored records and when each was last written",
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		recs, err := store.Inspect(ctx, a.Store())
		if err != nil {
			return fmt.Errorf("inspecting store: %w", err)
		}

		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			if !r.Present {
				rows = append(rows, []string{r.Key, cli.Muted("unset"), "", ""})
				continue
			}
			rows = append(rows, []string{r.Key, "set", humanize.Bytes(uint64(r.Size)), cli.FormatAgo(r.UpdatedAt)})
		}

		backend := flagBackend
		if backend == "" {
			backend = valueOr(a.Config.Store.Backend, store.KindSQLite)
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    fmt.Sprintf("Records (%s, %s)", backend, a.DataDir),
			Headers:  []string{"Key", "State", "Size", "Written"},
			Rows:     rows,
			LeftCols: 2,
		}))
		return nil
	})
}
