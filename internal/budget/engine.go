package budget

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
)

// State is everything the engine persists.
type State struct {
	Wallet       model.Wallet
	Transactions []model.Transaction // newest first
	Buttons      []model.QuickButton
}

// Options configures an Engine. Zero values take defaults.
type Options struct {
	DefaultBalance float64
	AdjustStep     float64
	Refund         RefundPolicy
	Clock          dates.Clock
	Notifier       notify.Notifier
	// OnChange runs after every successful mutation with the new state.
	OnChange func(State)
}

// Entry is the input to AddTransaction. An empty Date means today.
type Entry struct {
	Label  string
	Amount float64
	Date   string
	Type   model.TxType
	Meta   map[string]string
}

// CheatImpact is how a cheat meal changes the remaining daily limit.
type CheatImpact struct {
	PerDayDrop int
	DaysLeft   int
}

// Snapshot is the derived view of the wallet for one day.
type Snapshot struct {
	Today        string
	Balance      float64
	MonthEnd     string
	DaysLeft     int
	DailyLimit   float64
	Spent        float64
	Remaining    float64
	OverLimit    bool
	Transactions []model.Transaction
}

// Engine owns wallet state. It is not safe for concurrent use.
type Engine struct {
	opts         Options
	state        State
	overNotified string
}

// DefaultState is a fresh wallet: the default balance lasting to month end.
func DefaultState(opts Options) State {
	opts = withDefaults(opts)
	return State{
		Wallet: model.Wallet{
			Balance:      opts.DefaultBalance,
			MonthEndDate: dates.LastDayOfMonth(opts.Clock()),
		},
		Buttons: model.DefaultQuickButtons(),
	}
}

// New returns an engine over state.
func New(state State, opts Options) *Engine {
	opts = withDefaults(opts)
	if state.Wallet.Balance < 0 || math.IsNaN(state.Wallet.Balance) {
		state.Wallet.Balance = 0
	}
	if !dates.Valid(state.Wallet.MonthEndDate) {
		state.Wallet.MonthEndDate = dates.LastDayOfMonth(opts.Clock())
	}
	if state.Buttons == nil {
		state.Buttons = model.DefaultQuickButtons()
	}
	return &Engine{opts: opts, state: state}
}

func withDefaults(o Options) Options {
	if o.DefaultBalance <= 0 {
		o.DefaultBalance = DefaultBalance
	}
	if o.AdjustStep <= 0 {
		o.AdjustStep = 50
	}
	if o.Refund == "" {
		o.Refund = RefundAlways
	}
	if o.Clock == nil {
		o.Clock = dates.System
	}
	if o.Notifier == nil {
		o.Notifier = notify.Nop{}
	}
	return o
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	s := e.state
	s.Transactions = append([]model.Transaction(nil), e.state.Transactions...)
	s.Buttons = append([]model.QuickButton(nil), e.state.Buttons...)
	return s
}

// Today is the clock's calendar day.
func (e *Engine) Today() string { return dates.Today(e.opts.Clock) }

// DaysLeft is the inclusive day count to month end.
func (e *Engine) DaysLeft() int {
	return DaysRemainingInclusive(e.state.Wallet.MonthEndDate, e.Today())
}

// DailyLimit is the current balance spread over the days left.
func (e *Engine) DailyLimit() float64 {
	return DailyLimit(e.state.Wallet.Balance, e.DaysLeft())
}

// Snapshot derives today's figures.
func (e *Engine) Snapshot() Snapshot {
	today := e.Today()
	days := e.DaysLeft()
	limit := DailyLimit(e.state.Wallet.Balance, days)
	spent := TodaysSpend(e.state.Transactions, today)

	var todays []model.Transaction
	for _, t := range e.state.Transactions {
		if t.Date == today {
			todays = append(todays, t)
		}
	}
	return Snapshot{
		Today:        today,
		Balance:      e.state.Wallet.Balance,
		MonthEnd:     e.state.Wallet.MonthEndDate,
		DaysLeft:     days,
		DailyLimit:   limit,
		Spent:        spent,
		Remaining:    limit - spent,
		OverLimit:    OverLimit(spent, limit),
		Transactions: todays,
	}
}

// AddTransaction records a spend. Only entries dated today reduce the
// balance; backdated entries are history. Rejections leave state untouched.
func (e *Engine) AddTransaction(ctx context.Context, in Entry) (model.Transaction, AddResult) {
	if !validAmount(in.Amount) {
		return model.Transaction{}, RejectedInvalidAmount
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return model.Transaction{}, RejectedEmptyLabel
	}
	today := e.Today()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = today
	}
	if !dates.Valid(date) {
		return model.Transaction{}, RejectedInvalidDate
	}
	typ := in.Type
	if typ == "" {
		typ = model.TxOther
	}

	txn := model.Transaction{
		ID:     uuid.NewString(),
		Date:   date,
		Label:  label,
		Amount: in.Amount,
		Type:   typ,
	}
	if len(in.Meta) > 0 {
		txn.Meta = make(map[string]string, len(in.Meta))
		for k, v := range in.Meta {
			txn.Meta[k] = v
		}
	}
	if date == today {
		e.state.Wallet.Balance = subClamp(e.state.Wallet.Balance, in.Amount)
		txn.Deducted = true
	}
	e.state.Transactions = append([]model.Transaction{txn}, e.state.Transactions...)
	e.changed()

	if txn.Deducted {
		e.checkOverspend(ctx)
	}
	return txn, Accepted
}

func (e *Engine) checkOverspend(ctx context.Context) {
	s := e.Snapshot()
	if !s.OverLimit || e.overNotified == s.Today {
		return
	}
	e.overNotified = s.Today
	notify.Send(ctx, e.opts.Notifier, notify.Overspending(s.Spent, s.DailyLimit))
}

// DeleteTransaction removes the transaction with id and credits the wallet
// per the refund policy. It reports whether anything was removed.
func (e *Engine) DeleteTransaction(id string) bool {
	for i, t := range e.state.Transactions {
		if t.ID != id {
			continue
		}
		if e.opts.Refund == RefundAlways || t.Deducted {
			e.state.Wallet.Balance = add(e.state.Wallet.Balance, t.Amount)
		}
		e.state.Transactions = append(e.state.Transactions[:i:i], e.state.Transactions[i+1:]...)
		e.changed()
		return true
	}
	return false
}

// LogCheat records a cheat meal dated today and reports its effect on the
// remaining daily limit. The impact is informational and never stored.
func (e *Engine) LogCheat(ctx context.Context, amount float64, note string) (CheatImpact, AddResult) {
	label := "Cheat Meal"
	if n := strings.TrimSpace(note); n != "" {
		label = "Cheat Meal - " + n
	}
	meta := map[string]string{}
	if n := strings.TrimSpace(note); n != "" {
		meta["note"] = n
	}
	_, res := e.AddTransaction(ctx, Entry{Label: label, Amount: amount, Type: model.TxCheat, Meta: meta})
	if !res.OK() {
		return CheatImpact{}, res
	}
	days := e.DaysLeft()
	impact := CheatImpact{PerDayDrop: PerDayDrop(amount, days), DaysLeft: days}
	notify.Send(ctx, e.opts.Notifier, notify.CheatMeal(impact.PerDayDrop))
	return impact, Accepted
}

// Reset restores the default balance, moves the month end to the last day
// of the current month, and clears every transaction.
func (e *Engine) Reset() {
	e.state.Wallet = model.Wallet{
		Balance:      e.opts.DefaultBalance,
		MonthEndDate: dates.LastDayOfMonth(e.opts.Clock()),
	}
	e.state.Transactions = nil
	e.overNotified = ""
	e.changed()
}

// SetBalance overwrites the balance, clamped at zero.
func (e *Engine) SetBalance(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v < 0 {
		v = 0
	}
	e.state.Wallet.Balance = v
	e.changed()
	return true
}

// Nudge moves the balance one configured step up or down.
func (e *Engine) Nudge(up bool) float64 {
	if up {
		e.state.Wallet.Balance = add(e.state.Wallet.Balance, e.opts.AdjustStep)
	} else {
		e.state.Wallet.Balance = subClamp(e.state.Wallet.Balance, e.opts.AdjustStep)
	}
	e.changed()
	return e.state.Wallet.Balance
}

// SetMonthEnd changes the date the balance has to last until.
func (e *Engine) SetMonthEnd(iso string) bool {
	if !dates.Valid(iso) {
		return false
	}
	t, _ := dates.ParseISO(iso)
	e.state.Wallet.MonthEndDate = dates.ToISO(t)
	e.changed()
	return true
}

// ReplaceTransactions overwrites the transaction list wholesale without
// touching the balance.
func (e *Engine) ReplaceTransactions(txns []model.Transaction) {
	e.state.Transactions = append([]model.Transaction(nil), txns...)
	sortNewestFirst(e.state.Transactions)
	e.changed()
}

// AppendHistory adds already-built records, skipping ids that exist.
// The balance is not touched. It returns how many were added.
func (e *Engine) AppendHistory(txns []model.Transaction) int {
	seen := make(map[string]bool, len(e.state.Transactions))
	for _, t := range e.state.Transactions {
		seen[t.ID] = true
	}
	n := 0
	for _, t := range txns {
		if !validAmount(t.Amount) || !dates.Valid(t.Date) || seen[t.ID] {
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Deducted = false
		seen[t.ID] = true
		e.state.Transactions = append(e.state.Transactions, t)
		n++
	}
	if n > 0 {
		sortNewestFirst(e.state.Transactions)
		e.changed()
	}
	return n
}

func (e *Engine) changed() {
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.State())
	}
}

func (c CheatImpact) String() string {
	return fmt.Sprintf("-%d/day over %d days", c.PerDayDrop, c.DaysLeft)
}
