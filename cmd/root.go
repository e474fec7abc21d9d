// Package cmd implements the zenith CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/logger"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagBackend string
	flagQuiet   bool
	flagToday   string
)

// appConfig is loaded once per invocation by the root pre-run hook.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "zenith",
	Short: "Daily allowance and training tracker",
	Long:  "Track spending against a rolling daily allowance, and training against a rotating split.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg
		level := cfg.General.LogLevel
		if flagQuiet {
			level = "error"
		}
		logger.Init(level, cfg.General.LogFormat, os.Stderr)
		if cfg.General.Currency != "" {
			cli.Currency = cfg.General.Currency
		}
		return nil
	},
	RunE:         runStatus,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Store backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Pretend today is this date (YYYY-MM-DD)")
}

func clock() (dates.Clock, error) {
	if flagToday == "" {
		return dates.System, nil
	}
	c, ok := dates.Fixed(flagToday)
	if !ok {
		return nil, fmt.Errorf("invalid --today %q, want YYYY-MM-DD", flagToday)
	}
	return c, nil
}

// openApp loads every engine from the configured store. Callers must Close.
func openApp(ctx context.Context) (*app.App, error) {
	c, err := clock()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, app.Options{
		Config:  appConfig,
		DataDir: flagDataDir,
		Backend: flagBackend,
		Clock:   c,
	})
}

// withApp runs fn over a freshly opened app and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logger.ToContext(ctx, logger.L)

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}

// progress prints to stderr unless --quiet.
func progress(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
