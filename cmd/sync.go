package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/mirror"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push local records to the Firebase mirror",
	Long: `Push transactions, workouts and photos to the Firebase mirror.

The mirror is last-writer-wins: push upserts every local record by id, and
pull replaces a local collection wholesale when the remote one is non-empty.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMirror("Pushing", (*mirror.Syncer).SyncAll)
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local records with the mirror's copy",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMirror("Pulling", (*mirror.Syncer).FetchAll)
	},
}

var syncInitialCmd = &cobra.Command{
	Use:   "initial",
	Short: "Run the one-time initial push for this profile",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMirror("Initial sync", (*mirror.Syncer).InitialSync)
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror configuration and identity",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			sess := a.Sync.Session()
			state := cli.Bad("disabled")
			if sess.Enabled() {
				state = cli.Good("enabled")
			}
			uid := sess.UID()
			if uid == "" {
				uid = "not signed in"
			}
			apiKey := "not configured"
			if config.FirebaseAPIKey(a.Config) != "" {
				apiKey = "configured"
			}
			fmt.Print(cli.RenderPairs("Mirror", []cli.Pair{
				{Label: "State", Value: state},
				{Label: "Project", Value: valueOr(a.Config.Sync.ProjectID, "not configured")},
				{Label: "API key", Value: apiKey},
				{Label: "User", Value: uid},
				{Label: "Auto sync", Value: fmt.Sprintf("%v", a.Config.Sync.AutoSync)},
				{Label: "Pending deletes", Value: fmt.Sprintf("%d", a.PendingDeletes())},
			}))
			return nil
		})
	},
}

func init() {
	syncCmd.AddCommand(syncPullCmd, syncInitialCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

func runMirror(label string, op func(*mirror.Syncer, context.Context) mirror.Result) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		progress("  %s...\n", label)
		r := op(a.Sync, ctx)
		if !r.Success {
			return errors.New(app.SyncResult(r))
		}
		fmt.Printf("  %s\n", r.Message)
		return nil
	})
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
