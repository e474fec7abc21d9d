package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		if err := tui.RunSetup(ctx, a); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Setup cancelled; nothing saved.")
				return nil
			}
			return fmt.Errorf("setup: %w", err)
		}
		appConfig = a.Config

		fmt.Println()
		fmt.Printf("  Saved to %s\n", config.Path())
		fmt.Printf("  Daily limit: %s\n", cli.FormatLimit(a.Budget.DailyLimit()))
		fmt.Println("  Run `zenith setup` anytime to reconfigure.")
		fmt.Println()
		return nil
	})
}
