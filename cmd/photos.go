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
	flagPhotoDate    string
	flagPhotoCaption string
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "List progress photos",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			photos := a.Training.Photos()
			if len(photos) == 0 {
				fmt.Println("\n  No progress photos yet. Add one with `zenith gym photos add <file>`.")
				return nil
			}
			today := a.Today()
			rows := make([][]string, 0, len(photos))
			for _, p := range photos {
				synced := ""
				if p.RemoteURL != "" {
					synced = "✓"
				}
				rows = append(rows, []string{shortID(p.ID), cli.FormatDate(p.Date, today), p.Caption, p.Path, synced})
			}
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Title:    "Progress photos",
				Headers:  []string{"ID", "Date", "Caption", "File", "Synced"},
				Rows:     rows,
				LeftCols: 5,
			}))
			if a.Training.DueForPhoto() {
				fmt.Println(cli.Warn("\n  A week since the last photo. Time for a new one."))
			}
			return nil
		})
	},
}

var photosAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Copy an image into the photo log",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			p, err := a.AddPhoto(flagPhotoDate, flagPhotoCaption, args[0])
			if err != nil {
				return err
			}
			a.AutoSync(ctx)
			fmt.Printf("  Saved photo for %s to %s\n", p.Date, p.Path)
			return nil
		})
	},
}

var photosDeleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Remove a photo from the log",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			for _, p := range a.Training.Photos() {
				if strings.HasPrefix(p.ID, args[0]) && a.DeletePhoto(p.ID) {
					a.AutoSync(ctx)
					fmt.Printf("  Removed photo %s (%s stays on disk)\n", shortID(p.ID), p.Path)
					return nil
				}
			}
			return fmt.Errorf("no photo with id %q", args[0])
		})
	},
}

func init() {
	photosAddCmd.Flags().StringVar(&flagPhotoDate, "date", "", "Photo date (default today)")
	photosAddCmd.Flags().StringVar(&flagPhotoCaption, "caption", "", "Caption")
	photosCmd.AddCommand(photosAddCmd, photosDeleteCmd)
	gymCmd.AddCommand(photosCmd)
}
