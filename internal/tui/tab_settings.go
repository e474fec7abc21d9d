package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/schedule"
	"github.com/theirongolddev/zenith/internal/tui/components"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsState tracks the settings tab.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

// setting is one editable row. Engine-backed rows write to the store;
// the rest write the config file.
type setting struct {
	label       string
	placeholder string
	value       func(a *App) string
	apply       func(a *App, v string) error
	saveConfig  bool
}

var errInvalid = errors.New("invalid value")

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not on/off: %w", v, errInvalid)
}

var settings = []setting{
	{
		label:       "Balance",
		placeholder: "6787",
		value:       func(a *App) string { return cli.FormatMoney(a.core.Budget.State().Wallet.Balance) },
		apply: func(a *App, v string) error {
			f, err := parseAmount(v)
			if err != nil || !a.core.Budget.SetBalance(f) {
				return errInvalid
			}
			return nil
		},
	},
	{
		label:       "Month end",
		placeholder: "YYYY-MM-DD",
		value:       func(a *App) string { return a.core.Budget.State().Wallet.MonthEndDate },
		apply: func(a *App, v string) error {
			if !a.core.Budget.SetMonthEnd(v) {
				return errInvalid
			}
			return nil
		},
	},
	{
		label:       "Template",
		placeholder: strings.Join(templateKeys(), ", "),
		value:       func(a *App) string { return a.core.Schedule.Template().Key },
		apply: func(a *App, v string) error {
			if !a.core.Schedule.SetTemplate(v) {
				return errInvalid
			}
			a.core.Config.Gym.Template = v
			return nil
		},
		saveConfig: true,
	},
	{
		label:       "Protein goal",
		placeholder: "150",
		value:       func(a *App) string { return cli.FormatGrams(a.core.Nutrition.ProteinGoal()) },
		apply: func(a *App, v string) error {
			g, err := parseAmount(v)
			if err != nil || !a.core.Nutrition.SetProteinGoal(g) {
				return errInvalid
			}
			return nil
		},
	},
	{
		label:       "Goal date",
		placeholder: "YYYY-MM-DD",
		value:       func(a *App) string { return a.core.Goal.Date },
		apply: func(a *App, v string) error {
			if !dates.Valid(v) {
				return errInvalid
			}
			a.core.Goal.Date = v
			a.core.Config.Gym.GoalDate = v
			return nil
		},
		saveConfig: true,
	},
	{
		label:       "Theme",
		placeholder: strings.Join(theme.Names(), ", "),
		value:       func(a *App) string { return theme.Active.Name },
		apply: func(a *App, v string) error {
			if theme.ByName(v).Name != v {
				return errInvalid
			}
			theme.SetActive(v)
			a.core.Config.Appearance.Theme = v
			return nil
		},
		saveConfig: true,
	},
	{
		label:       "Currency",
		placeholder: "₹",
		value:       func(a *App) string { return cli.Currency },
		apply: func(a *App, v string) error {
			cli.Currency = v
			a.core.Config.General.Currency = v
			return nil
		},
		saveConfig: true,
	},
	{
		label:       "Sync",
		placeholder: "on or off",
		value: func(a *App) string {
			if a.core.Sync.Session().Enabled() {
				return "on"
			}
			if a.core.Config.Sync.ProjectID == "" {
				return "off (no project)"
			}
			return "off"
		},
		apply: func(a *App, v string) error {
			on, err := parseBool(v)
			if err != nil {
				return err
			}
			a.core.Sync.Session().SetEnabled(on)
			a.core.Config.Sync.Enabled = on
			return nil
		},
		saveConfig: true,
	},
	{
		label:       "Auto sync",
		placeholder: "on or off",
		value:       func(a *App) string { return onOff(a.core.Config.Sync.AutoSync) },
		apply: func(a *App, v string) error {
			on, err := parseBool(v)
			if err != nil {
				return err
			}
			a.core.Config.Sync.AutoSync = on
			return nil
		},
		saveConfig: true,
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func templateKeys() []string {
	var keys []string
	for _, t := range schedule.Templates() {
		keys = append(keys, t.Key)
	}
	return keys
}

func (a *App) settingsKey(key string) (bool, tea.Cmd) {
	switch key {
	case "j", "down":
		a.settings.cursor = min(a.settings.cursor+1, len(settings)-1)
		return true, nil
	case "k", "up":
		a.settings.cursor = max(a.settings.cursor-1, 0)
		return true, nil
	case "enter":
		s := settings[a.settings.cursor]
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = 64
		ti.Width = 40
		ti.Focus()
		a.settings.input = ti
		a.settings.editing = true
		return true, ti.Cursor.BlinkCmd()
	}
	return false, nil
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.settings.editing = false
		return a, nil
	case "enter":
		a.settings.editing = false
		s := settings[a.settings.cursor]
		val := strings.TrimSpace(a.settings.input.Value())
		if err := s.apply(&a, val); err != nil {
			a.flash(fmt.Sprintf("%s: %q not accepted", s.label, val), true)
			return a, nil
		}
		if s.saveConfig {
			if err := config.Save(a.core.Config); err != nil {
				a.flash("Could not save config: "+err.Error(), true)
				return a, nil
			}
		}
		a.flash(s.label+" updated", false)
		if !s.saveConfig {
			return a, a.afterChange()
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	selValue := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	muted := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	var b strings.Builder
	for i, s := range settings {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			b.WriteString(marker.Render("▸ ") + selLabel.Render(fmt.Sprintf("%-14s ", s.label)) + a.settings.input.View())
		case i == a.settings.cursor:
			row := marker.Render("▸ ") + selLabel.Render(fmt.Sprintf("%-14s ", s.label+":")) + selValue.Render(s.value(&a))
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				row += lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad))
			}
			b.WriteString(row)
		default:
			b.WriteString(label.Render(fmt.Sprintf("  %-14s ", s.label+":")) + value.Render(s.value(&a)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render("Config: " + config.Path()))
	b.WriteString("\n")
	b.WriteString(muted.Render("Data:   " + a.core.DataDir + " (" + a.core.Config.Store.Backend + ")"))

	return components.ContentCard("Settings", b.String(), cw)
}
