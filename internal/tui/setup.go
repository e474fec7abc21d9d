package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/schedule"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues are the answers to the first-run form.
type setupValues struct {
	balance     string
	monthEnd    string
	template    string
	proteinGoal string
	goalDate    string
	theme       string
	projectID   string
	channel     string
}

func setupValuesFrom(cfg config.Config) setupValues {
	return setupValues{
		balance:     strconv.FormatFloat(cfg.Budget.DefaultBalance, 'f', -1, 64),
		template:    cfg.Gym.Template,
		proteinGoal: strconv.FormatFloat(cfg.Nutrition.ProteinGoal, 'f', -1, 64),
		goalDate:    cfg.Gym.GoalDate,
		theme:       cfg.Appearance.Theme,
		projectID:   cfg.Sync.ProjectID,
		channel:     cfg.Notify.DiscordChannel,
	}
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s = strings.TrimSpace(s); s != "" && !dates.Valid(s) {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	var templates []huh.Option[string]
	for _, t := range schedule.Templates() {
		templates = append(templates, huh.NewOption(t.Name, t.Key))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to zenith").
				Description("A daily allowance for your wallet and a rotation for your training.\nA few questions and you're set."),
			huh.NewInput().
				Title("Wallet balance").
				Description("What you have to spend until month end.").
				Value(&v.balance).
				Validate(validatePositive),
			huh.NewInput().
				Title("Month end").
				Description("Leave blank for the last day of this month.").
				Placeholder("YYYY-MM-DD").
				Value(&v.monthEnd).
				Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Training split").
				Options(templates...).
				Value(&v.template),
			huh.NewInput().
				Title("Daily protein goal (g)").
				Value(&v.proteinGoal).
				Validate(validatePositive),
			huh.NewInput().
				Title("Goal date").
				Value(&v.goalDate).
				Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.theme),
			huh.NewInput().
				Title("Firebase project ID").
				Description("Optional. Enables zenith sync; the API key comes from ZENITH_FIREBASE_API_KEY.").
				Value(&v.projectID),
			huh.NewInput().
				Title("Discord channel ID").
				Description("Optional. Reminders go here when ZENITH_DISCORD_TOKEN is set.").
				Value(&v.channel),
		),
	).WithTheme(huh.ThemeCharm())
}

// applySetup writes the answers to the engines and the config file.
func (a *App) applySetup() error {
	return applySetupValues(a.core, *a.setupVals)
}

// RunSetup runs the first-run form on its own, outside the dashboard.
func RunSetup(ctx context.Context, core *app.App) error {
	v := setupValuesFrom(core.Config)
	if err := newSetupForm(&v).RunWithContext(ctx); err != nil {
		return err
	}
	return applySetupValues(core, v)
}

func applySetupValues(core *app.App, v setupValues) error {
	cfg := &core.Config

	if bal, err := strconv.ParseFloat(strings.TrimSpace(v.balance), 64); err == nil && bal > 0 {
		cfg.Budget.DefaultBalance = bal
		core.Budget.SetBalance(bal)
	}
	if end := strings.TrimSpace(v.monthEnd); end != "" {
		core.Budget.SetMonthEnd(end)
	}
	if core.Schedule.SetTemplate(v.template) {
		cfg.Gym.Template = v.template
	}
	if g, err := strconv.ParseFloat(strings.TrimSpace(v.proteinGoal), 64); err == nil && g > 0 {
		cfg.Nutrition.ProteinGoal = g
		core.Nutrition.SetProteinGoal(g)
	}
	if d := strings.TrimSpace(v.goalDate); dates.Valid(d) {
		cfg.Gym.GoalDate = d
		core.Goal.Date = d
	}
	cfg.Appearance.Theme = theme.ByName(v.theme).Name
	theme.SetActive(cfg.Appearance.Theme)

	cfg.Sync.ProjectID = strings.TrimSpace(v.projectID)
	cfg.Sync.Enabled = cfg.Sync.ProjectID != ""
	core.Sync.Session().SetEnabled(cfg.Sync.Enabled)
	cfg.Notify.DiscordChannel = strings.TrimSpace(v.channel)

	return config.Save(*cfg)
}
