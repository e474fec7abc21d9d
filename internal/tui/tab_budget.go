package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/cli"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/tui/components"
	"github.com/theirongolddev/zenith/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const spendChartDays = 14

// budgetState is the transaction list cursor.
type budgetState struct {
	cursor int
	offset int
}

func (s *budgetState) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *budgetState) down(n int) {
	if s.cursor < n-1 {
		s.cursor++
	}
}

func (s *budgetState) clamp(n int) {
	s.cursor = max(min(s.cursor, n-1), 0)
}

func (a *App) budgetKey(key string) (bool, tea.Cmd) {
	eng := a.core.Budget
	txns := eng.State().Transactions

	switch key {
	case "a":
		return true, a.openPrompt(promptAdd)
	case "c":
		return true, a.openPrompt(promptCheat)
	case "j", "down":
		a.budget.down(len(txns))
		return true, nil
	case "k", "up":
		a.budget.up()
		return true, nil
	case "d", "delete":
		if len(txns) == 0 {
			return true, nil
		}
		tx := txns[a.budget.cursor]
		if a.core.DeleteTransaction(tx.ID) {
			a.flash(fmt.Sprintf("Deleted %s %s", tx.Label, cli.FormatMoney(tx.Amount)), false)
			a.budget.clamp(len(txns) - 1)
			return true, a.afterChange()
		}
		return true, nil
	case "+", "=":
		a.flash("Balance "+cli.FormatMoney(eng.Nudge(true)), false)
		return true, a.afterChange()
	case "-":
		a.flash("Balance "+cli.FormatMoney(eng.Nudge(false)), false)
		return true, a.afterChange()
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		buttons := eng.Buttons()
		if n > len(buttons) {
			return true, nil
		}
		tx, res := eng.UseQuickButton(a.ctx, buttons[n-1].Key)
		if !res.OK() {
			a.flash("Rejected: "+res.String(), true)
			return true, nil
		}
		a.flash(fmt.Sprintf("Added %s %s", tx.Label, cli.FormatMoney(tx.Amount)), false)
		return true, a.afterChange()
	}
	return false, nil
}

// dailySpend sums transactions per day for the n days ending today,
// oldest first, with day-of-month labels.
func dailySpend(txns []model.Transaction, today string, n int) ([]float64, []string) {
	values := make([]float64, n)
	labels := make([]string, n)
	from := dates.AddDays(today, -(n - 1))
	for i := 0; i < n; i++ {
		d := dates.AddDays(from, i)
		labels[i] = strings.TrimLeft(d[8:], "0")
	}
	for _, t := range txns {
		if i := dates.DayDiff(from, t.Date); i >= 0 && i < n {
			values[i] += t.Amount
		}
	}
	return values, labels
}

func (a App) renderBudgetTab(cw, h int) string {
	t := theme.Active
	eng := a.core.Budget
	snap := eng.Snapshot()
	var b strings.Builder

	spentColor := t.Green
	if snap.OverLimit {
		spentColor = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Daily limit", Value: cli.FormatLimit(snap.DailyLimit), Color: t.AccentBright},
		{Label: "Spent today", Value: cli.FormatMoney(snap.Spent), Delta: fmt.Sprintf("%d entries", len(snap.Transactions)), Color: spentColor},
		{Label: "Remaining", Value: cli.FormatMoney(snap.Remaining)},
		{Label: "Balance", Value: cli.FormatMoney(snap.Balance), Delta: cli.FormatDays(snap.DaysLeft) + " to " + snap.MonthEnd},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	bar := components.GoalBar("Today", snap.Spent, snap.DailyLimit, 6, max(inner-14, 10), true)
	b.WriteString(components.ContentCard("Allowance", bar, cw))
	b.WriteString("\n")

	state := eng.State()
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw}
	}

	values, labels := dailySpend(state.Transactions, snap.Today, spendChartDays)
	chart := components.ContentCard(
		fmt.Sprintf("Spending (%dd)", spendChartDays),
		components.BarChart(values, labels, snap.DailyLimit, t.Blue, components.CardInnerWidth(halves[0]), 7),
		halves[0],
	)
	buttons := components.ContentCard("Quick add", a.renderButtons(), halves[len(halves)-1])
	if len(halves) == 2 {
		b.WriteString(components.CardRow([]string{chart, buttons}))
	} else {
		b.WriteString(chart)
	}
	b.WriteString("\n")

	used := lipgloss.Height(b.String())
	rows := max(h-used-3, 3)
	b.WriteString(components.ContentCard("Transactions", a.renderTxnList(state.Transactions, snap.Today, inner, rows), cw))
	return b.String()
}

func (a App) renderButtons() string {
	t := theme.Active
	key := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	price := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	for i, btn := range a.core.Budget.Buttons() {
		if i >= 9 {
			break
		}
		lines = append(lines, key.Render(strconv.Itoa(i+1))+" "+
			label.Render(truncStr(btn.Label, 22))+" "+
			price.Render(cli.FormatMoney(btn.Price)))
	}
	if len(lines) == 0 {
		return price.Render("No quick buttons")
	}
	return strings.Join(lines, "\n")
}

func (a App) renderTxnList(txns []model.Transaction, today string, w, rows int) string {
	t := theme.Active
	if len(txns) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No transactions yet. Press a to add one.")
	}

	offset := a.budget.offset
	if a.budget.cursor < offset {
		offset = a.budget.cursor
	}
	if a.budget.cursor >= offset+rows {
		offset = a.budget.cursor - rows + 1
	}
	end := min(offset+rows, len(txns))

	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	labelW := max(w-40, 10)
	var lines []string
	for i := offset; i < end; i++ {
		tx := txns[i]
		line := fmt.Sprintf("%-16s %-*s %10s  %-7s",
			truncStr(cli.FormatDate(tx.Date, today), 16),
			labelW, truncStr(tx.Label, labelW),
			cli.FormatMoney(tx.Amount),
			tx.Type)
		switch {
		case i == a.budget.cursor:
			lines = append(lines, selected.Render(line))
		case tx.Date == today:
			lines = append(lines, row.Render(line))
		default:
			lines = append(lines, muted.Render(line))
		}
	}
	if len(txns) > rows {
		lines = append(lines, muted.Render(fmt.Sprintf("%d-%d of %d", offset+1, end, len(txns))))
	}
	return strings.Join(lines, "\n")
}
