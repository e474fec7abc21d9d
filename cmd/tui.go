package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	return withApp(func(ctx context.Context, a *app.App) error {
		if a.Config.Sync.InitialOnStart && a.Sync.Session().Enabled() {
			progress("  Checking initial sync...\n")
			sctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			r := a.Sync.InitialSync(sctx)
			cancel()
			if !r.Success {
				logger.FromContext(ctx).Warn("initial sync skipped", "message", r.Message)
			}
		}

		p := tea.NewProgram(tui.NewApp(ctx, a, !config.Exists()), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
}
