// Package tui provides the interactive Bubble Tea dashboard for zenith.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/mirror"
	"github.com/theirongolddev/zenith/internal/tui/components"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabBudget = iota
	tabGym
	tabNutrition
	tabSettings
)

const (
	minTerminalWidth = 72
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

// SyncDoneMsg is sent when a mirror operation started from the dashboard
// finishes.
type SyncDoneMsg struct {
	Label  string
	Result mirror.Result
}

type tickMsg time.Time

// App is the root Bubble Tea model. While a sync runs the engines belong
// to the sync goroutine, so the model neither reads nor mutates them until
// SyncDoneMsg arrives.
type App struct {
	ctx  context.Context
	core *app.App

	width     int
	height    int
	activeTab int
	showHelp  bool

	budget   budgetState
	prompt   promptState
	settings settingsState

	message string
	isError bool

	busy      bool
	busyLabel string
	spinner   spinner.Model

	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	lastDay string
}

// NewApp builds the dashboard over an opened app. needSetup starts the
// first-run form.
func NewApp(ctx context.Context, core *app.App, needSetup bool) App {
	theme.SetActive(core.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		ctx:       ctx,
		core:      core,
		spinner:   sp,
		needSetup: needSetup,
		lastDay:   core.Today(),
	}
	if needSetup {
		v := setupValuesFrom(core.Config)
		a.setupVals = &v
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, tickCmd()}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// syncCmd runs op off the UI goroutine.
func syncCmd(ctx context.Context, label string, op func(context.Context) mirror.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		return SyncDoneMsg{Label: label, Result: op(ctx)}
	}
}

func (a *App) startSync(label string, op func(context.Context) mirror.Result) tea.Cmd {
	a.busy = true
	a.busyLabel = label
	return tea.Batch(a.spinner.Tick, syncCmd(a.ctx, label, op))
}

// afterChange pushes to the mirror when auto sync is on.
func (a *App) afterChange() tea.Cmd {
	if !a.core.Config.Sync.AutoSync || !a.core.Sync.Session().Enabled() {
		return nil
	}
	return a.startSync("Syncing", a.core.Sync.SyncAll)
}

func (a *App) flash(msg string, isErr bool) {
	a.message = msg
	a.isError = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case SyncDoneMsg:
		a.busy = false
		a.flash(app.SyncResult(msg.Result), !msg.Result.Success)
		a.budget.clamp(len(a.core.Budget.State().Transactions))
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		if !a.busy {
			if today := a.core.Today(); today != a.lastDay {
				a.lastDay = today
				a.flash("New day: "+today, false)
			}
		}
		return a, tickCmd()

	case tea.MouseMsg:
		if a.busy || a.showHelp || a.setupForm != nil || a.prompt.active {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabBudget {
				a.budget.up()
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabBudget {
				a.budget.down(len(a.core.Budget.State().Transactions))
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		return a.updatePrompt(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if a.busy {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		return a.updatePrompt(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabBudget:
		handled, cmd = a.budgetKey(key)
	case tabGym:
		handled, cmd = a.gymKey(key)
	case tabNutrition:
		handled, cmd = a.nutritionKey(key)
	case tabSettings:
		handled, cmd = a.settingsKey(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "S":
		return a, a.startSync("Pushing to mirror", a.core.Sync.SyncAll)
	case "F":
		return a, a.startSync("Fetching from mirror", a.core.Sync.FetchAll)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.applySetup(); err != nil {
			a.flash("Could not save config: "+err.Error(), true)
		} else {
			a.flash("Saved "+config.Path(), false)
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.busy {
		return a.viewBusy()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  zenith needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewBusy() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ zenith") + "\n\n" +
		a.spinner.View() + muted.Render(" "+a.busyLabel+"...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	groups := []struct {
		name     string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"b g n x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in lists"},
		}},
		{"Budget", []binding{
			{"a", "Add transaction"},
			{"c", "Log cheat meal"},
			{"d", "Delete selected"},
			{"1-9", "Quick button"},
			{"+ -", "Nudge balance"},
		}},
		{"Gym & Nutrition", []binding{
			{"l", "Log exercise"},
			{"[ ]", "Swap today's slot"},
			{"t", "Next template"},
			{"w p f c", "Weight, protein, food, calories"},
		}},
		{"General", []binding{
			{"S F", "Push / Fetch mirror"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, bind := range g.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-8s", bind.key)), desc.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) hints() string {
	if a.prompt.active {
		return "[enter]save  [esc]cancel"
	}
	switch a.activeTab {
	case tabBudget:
		return "[a]dd [c]heat [d]elete [1-9]quick  [?]help [q]uit"
	case tabGym:
		return "[l]og [[ ]]swap [t]emplate  [?]help [q]uit"
	case tabNutrition:
		return "[w]eight [p]rotein [f]ood [c]alories  [?]help [q]uit"
	default:
		return "[enter]edit  [?]help [q]uit"
	}
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	right := a.core.Today()
	if a.core.Sync.Session().Enabled() {
		right += " · sync on"
	}
	status := components.RenderStatusBar(w, components.Status{
		Hints:   a.hints(),
		Message: a.message,
		IsError: a.isError,
		Right:   right,
	})
	footer := status
	if a.prompt.active {
		footer = a.renderPrompt(w) + "\n" + status
	}

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), minContentHeight)

	var content string
	switch a.activeTab {
	case tabBudget:
		content = a.renderBudgetTab(cw, contentH)
	case tabGym:
		content = a.renderGymTab(cw)
	case tabNutrition:
		content = a.renderNutritionTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at column x, or -1. Hitboxes follow the
// widths RenderTabBar uses, with a one-column separator between tabs.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
