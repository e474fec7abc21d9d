package cmd

import (
	"fmt"

	"github.com/theirongolddev/zenith/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func saveConfig() error {
	if err := config.Save(appConfig); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Log level:      %s (%s)\n", cfg.General.LogLevel, cfg.General.LogFormat)
	fmt.Printf("    Currency:       %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Default balance: %.0f\n", cfg.Budget.DefaultBalance)
	fmt.Printf("    Adjust step:     %.0f\n", cfg.Budget.AdjustStep)
	fmt.Printf("    Refund policy:   %s\n", cfg.Budget.RefundPolicy)
	fmt.Println()

	fmt.Println("  [Gym]")
	fmt.Printf("    Template:    %s\n", cfg.Gym.Template)
	fmt.Printf("    Goal:        %.1f kg by %s\n", cfg.Gym.GoalWeight, cfg.Gym.GoalDate)
	fmt.Println()

	fmt.Println("  [Nutrition]")
	fmt.Printf("    Protein goal: %.0f g\n", cfg.Nutrition.ProteinGoal)
	fmt.Printf("    Calorie goal: %.0f kcal\n", cfg.Nutrition.CalorieGoal)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Backend: %s\n", cfg.Store.Backend)
	if url := config.RedisURL(cfg); url != "" {
		fmt.Printf("    Redis:   %s\n", maskSecret(url))
	}
	fmt.Println()

	fmt.Println("  [Sync]")
	if cfg.Sync.ProjectID == "" {
		fmt.Println("    Project: not configured")
	} else {
		fmt.Printf("    Project: %s (enabled: %v, auto: %v)\n", cfg.Sync.ProjectID, cfg.Sync.Enabled, cfg.Sync.AutoSync)
	}
	if key := config.FirebaseAPIKey(cfg); key != "" {
		fmt.Printf("    API key: %s\n", maskSecret(key))
	} else {
		fmt.Printf("    API key: not configured (set %s)\n", config.EnvFirebaseAPIKey)
	}
	fmt.Println()

	fmt.Println("  [Notify]")
	fmt.Printf("    Enabled: %v\n", cfg.Notify.Enabled)
	if tok := config.DiscordToken(cfg); tok != "" && cfg.Notify.DiscordChannel != "" {
		fmt.Printf("    Discord: %s -> channel %s\n", maskSecret(tok), cfg.Notify.DiscordChannel)
	} else {
		fmt.Println("    Discord: not configured")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  http://%s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSeconds)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `zenith setup` to reconfigure.")
	return nil
}

func maskSecret(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
