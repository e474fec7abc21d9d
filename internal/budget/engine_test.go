package budget

import (
	"context"
	"math"
	"testing"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
)

type recorder struct{ got []notify.Message }

func (r *recorder) Notify(_ context.Context, m notify.Message) error {
	r.got = append(r.got, m)
	return nil
}

func newTestEngine(t *testing.T, today string, opts Options) *Engine {
	t.Helper()
	clock, ok := dates.Fixed(today)
	if !ok {
		t.Fatalf("bad test date %q", today)
	}
	opts.Clock = clock
	return New(DefaultState(opts), opts)
}

func TestDailyLimit(t *testing.T) {
	if got := DailyLimit(300, 3); got != 100 {
		t.Fatalf("DailyLimit(300, 3) = %v, want 100", got)
	}
	if got := DailyLimit(300, 0); got != 300 {
		t.Fatalf("DailyLimit(300, 0) = %v, want 300", got)
	}
	if got := DailyLimit(0, 5); got != 0 {
		t.Fatalf("DailyLimit(0, 5) = %v, want 0", got)
	}
}

func TestMonthScenario(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-01", Options{})

	s := e.Snapshot()
	if s.Balance != 6787 || s.MonthEnd != "2025-06-30" {
		t.Fatalf("initial wallet = %v / %s, want 6787 / 2025-06-30", s.Balance, s.MonthEnd)
	}
	if s.DaysLeft != 30 {
		t.Fatalf("DaysLeft = %d, want 30", s.DaysLeft)
	}
	if math.Abs(s.DailyLimit-226.2333) > 0.001 {
		t.Fatalf("DailyLimit = %v, want ~226.23", s.DailyLimit)
	}

	_, res := e.AddTransaction(ctx, Entry{Label: "Chicken Tikka", Amount: 105, Type: model.TxFood})
	if res != Accepted {
		t.Fatalf("AddTransaction = %v, want accepted", res)
	}
	s = e.Snapshot()
	if s.Balance != 6682 {
		t.Fatalf("balance = %v, want 6682", s.Balance)
	}
	if s.Spent != 105 {
		t.Fatalf("spent = %v, want 105", s.Spent)
	}
	if s.OverLimit {
		t.Fatal("OverLimit = true, want false")
	}
}

func TestAddBackdatedLeavesBalance(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{})

	txn, res := e.AddTransaction(ctx, Entry{Label: "Groceries", Amount: 400, Date: "2025-06-08"})
	if res != Accepted {
		t.Fatalf("AddTransaction = %v, want accepted", res)
	}
	if txn.Deducted {
		t.Fatal("backdated transaction marked as deducted")
	}
	if got := e.State().Wallet.Balance; got != 6787 {
		t.Fatalf("balance = %v, want 6787", got)
	}
	if got := e.Snapshot().Spent; got != 0 {
		t.Fatalf("today's spend = %v, want 0", got)
	}
	if got := len(e.State().Transactions); got != 1 {
		t.Fatalf("transactions = %d, want 1", got)
	}
}

func TestAddClampsAtZero(t *testing.T) {
	e := newTestEngine(t, "2025-06-10", Options{})
	e.SetBalance(50)
	_, res := e.AddTransaction(context.Background(), Entry{Label: "Dinner", Amount: 80})
	if res != Accepted {
		t.Fatalf("AddTransaction = %v", res)
	}
	if got := e.State().Wallet.Balance; got != 0 {
		t.Fatalf("balance = %v, want 0", got)
	}
	if got := e.Snapshot().Spent; got != 80 {
		t.Fatalf("spent = %v, want 80", got)
	}
}

func TestAddMovesBalanceByExactAmount(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{})
	e.SetBalance(100)
	if _, res := e.AddTransaction(ctx, Entry{Label: "Gum", Amount: 0.004}); res != Accepted {
		t.Fatalf("AddTransaction = %v", res)
	}
	if got := e.State().Wallet.Balance; got != 99.996 {
		t.Fatalf("balance = %v, want 99.996", got)
	}
	if got := e.Snapshot().Spent; got != 0.004 {
		t.Fatalf("spent = %v, want 0.004", got)
	}

	e.SetBalance(6787)
	if _, res := e.AddTransaction(ctx, Entry{Label: "Thali", Amount: 105.125}); res != Accepted {
		t.Fatalf("AddTransaction = %v", res)
	}
	if got := e.State().Wallet.Balance; got != 6681.875 {
		t.Fatalf("balance = %v, want 6681.875", got)
	}
	id := e.State().Transactions[0].ID
	e.DeleteTransaction(id)
	if got := e.State().Wallet.Balance; got != 6787 {
		t.Fatalf("balance after delete = %v, want 6787", got)
	}
}

func TestRepeatedAddsDoNotDrift(t *testing.T) {
	e := newTestEngine(t, "2025-06-10", Options{})
	e.SetBalance(1)
	for i := 0; i < 10; i++ {
		e.AddTransaction(context.Background(), Entry{Label: "Mint", Amount: 0.1})
	}
	if got := e.State().Wallet.Balance; got != 0 {
		t.Fatalf("balance = %v, want 0", got)
	}
}

func TestAddRejections(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{})
	calls := 0
	e.opts.OnChange = func(State) { calls++ }

	tests := []struct {
		in   Entry
		want AddResult
	}{
		{Entry{Label: "x", Amount: 0}, RejectedInvalidAmount},
		{Entry{Label: "x", Amount: -5}, RejectedInvalidAmount},
		{Entry{Label: "x", Amount: math.NaN()}, RejectedInvalidAmount},
		{Entry{Label: "x", Amount: math.Inf(1)}, RejectedInvalidAmount},
		{Entry{Label: "   ", Amount: 10}, RejectedEmptyLabel},
		{Entry{Label: "x", Amount: 10, Date: "2025-02-31"}, RejectedInvalidDate},
	}
	for _, tt := range tests {
		if _, got := e.AddTransaction(ctx, tt.in); got != tt.want {
			t.Errorf("AddTransaction(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if calls != 0 {
		t.Fatalf("OnChange called %d times on rejected adds", calls)
	}
	s := e.State()
	if s.Wallet.Balance != 6787 || len(s.Transactions) != 0 {
		t.Fatalf("state mutated by rejection: %+v", s.Wallet)
	}
}

func TestDeleteRefundAlways(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{})

	today, _ := e.AddTransaction(ctx, Entry{Label: "Lunch", Amount: 100})
	past, _ := e.AddTransaction(ctx, Entry{Label: "Old", Amount: 40, Date: "2025-06-01"})

	if !e.DeleteTransaction(today.ID) {
		t.Fatal("DeleteTransaction(today) = false")
	}
	if got := e.State().Wallet.Balance; got != 6787 {
		t.Fatalf("balance after deleting today's txn = %v, want 6787", got)
	}

	// Backdated deletes still credit under the default policy.
	if !e.DeleteTransaction(past.ID) {
		t.Fatal("DeleteTransaction(past) = false")
	}
	if got := e.State().Wallet.Balance; got != 6827 {
		t.Fatalf("balance after deleting backdated txn = %v, want 6827", got)
	}

	if e.DeleteTransaction(past.ID) {
		t.Fatal("second delete of same id should be a no-op")
	}
	if got := e.State().Wallet.Balance; got != 6827 {
		t.Fatalf("balance changed on no-op delete: %v", got)
	}
	if got := len(e.State().Transactions); got != 0 {
		t.Fatalf("transactions = %d, want 0", got)
	}
}

func TestDeleteRefundDeductedOnly(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{Refund: RefundDeductedOnly})

	today, _ := e.AddTransaction(ctx, Entry{Label: "Lunch", Amount: 100})
	past, _ := e.AddTransaction(ctx, Entry{Label: "Old", Amount: 40, Date: "2025-06-01"})

	e.DeleteTransaction(past.ID)
	if got := e.State().Wallet.Balance; got != 6687 {
		t.Fatalf("balance after deleting backdated txn = %v, want 6687", got)
	}
	e.DeleteTransaction(today.ID)
	if got := e.State().Wallet.Balance; got != 6787 {
		t.Fatalf("balance after deleting today's txn = %v, want 6787", got)
	}
}

func TestLogCheat(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, "2025-06-21", Options{Notifier: rec})

	impact, res := e.LogCheat(context.Background(), 500, "pizza")
	if res != Accepted {
		t.Fatalf("LogCheat = %v", res)
	}
	if impact.DaysLeft != 10 {
		t.Fatalf("DaysLeft = %d, want 10", impact.DaysLeft)
	}
	if impact.PerDayDrop != 50 {
		t.Fatalf("PerDayDrop = %d, want 50", impact.PerDayDrop)
	}
	txns := e.State().Transactions
	if len(txns) != 1 || txns[0].Type != model.TxCheat || txns[0].Label != "Cheat Meal - pizza" {
		t.Fatalf("cheat transaction = %+v", txns)
	}
	var sawCheat bool
	for _, m := range rec.got {
		if m.Kind == notify.KindCheatMeal {
			sawCheat = true
		}
	}
	if !sawCheat {
		t.Fatalf("no cheat-meal notification in %+v", rec.got)
	}

	if _, res := e.LogCheat(context.Background(), 0, ""); res != RejectedInvalidAmount {
		t.Fatalf("LogCheat(0) = %v, want invalid amount", res)
	}
}

func TestPerDayDrop(t *testing.T) {
	if got := PerDayDrop(100, 0); got != 100 {
		t.Fatalf("PerDayDrop(100, 0) = %d, want 100", got)
	}
	if got := PerDayDrop(100, 3); got != 33 {
		t.Fatalf("PerDayDrop(100, 3) = %d, want 33", got)
	}
}

func TestOverspendNotifiesOncePerDay(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	e := newTestEngine(t, "2025-06-30", Options{Notifier: rec})
	e.SetBalance(100)

	e.AddTransaction(ctx, Entry{Label: "a", Amount: 60})
	e.AddTransaction(ctx, Entry{Label: "b", Amount: 10})

	n := 0
	for _, m := range rec.got {
		if m.Kind == notify.KindOverspending {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("overspending notifications = %d, want 1", n)
	}
	if !e.Snapshot().OverLimit {
		t.Fatal("OverLimit = false, want true")
	}
}

func TestOverLimitEpsilon(t *testing.T) {
	if OverLimit(100.00001, 100) {
		t.Fatal("float noise counted as over limit")
	}
	if !OverLimit(100.01, 100) {
		t.Fatal("real overspend not detected")
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, "2025-02-10", Options{})
	e.AddTransaction(context.Background(), Entry{Label: "x", Amount: 10})
	e.SetMonthEnd("2025-03-15")
	e.Reset()

	s := e.State()
	if s.Wallet.Balance != DefaultBalance || s.Wallet.MonthEndDate != "2025-02-28" {
		t.Fatalf("wallet after reset = %+v", s.Wallet)
	}
	if len(s.Transactions) != 0 {
		t.Fatalf("transactions after reset = %d, want 0", len(s.Transactions))
	}
}

func TestNudgeAndSetMonthEnd(t *testing.T) {
	e := newTestEngine(t, "2025-06-10", Options{})
	e.SetBalance(30)
	if got := e.Nudge(false); got != 0 {
		t.Fatalf("Nudge down = %v, want 0", got)
	}
	if got := e.Nudge(true); got != 50 {
		t.Fatalf("Nudge up = %v, want 50", got)
	}
	if e.SetMonthEnd("2025-13-01") {
		t.Fatal("SetMonthEnd accepted an invalid date")
	}
	if !e.SetMonthEnd("2025-06-19") || e.DaysLeft() != 10 {
		t.Fatalf("DaysLeft after SetMonthEnd = %d, want 10", e.DaysLeft())
	}
}

func TestQuickButtons(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, "2025-06-10", Options{})

	if got := len(e.Buttons()); got != 4 {
		t.Fatalf("default buttons = %d, want 4", got)
	}
	b, res := e.AddQuickButton("Protein Shake", 80)
	if res != Accepted {
		t.Fatalf("AddQuickButton = %v", res)
	}
	b2, _ := e.AddQuickButton("Banana", 10)
	if b.Key == b2.Key {
		t.Fatalf("duplicate button keys %q", b.Key)
	}

	txn, res := e.UseQuickButton(ctx, b.Key)
	if res != Accepted {
		t.Fatalf("UseQuickButton = %v", res)
	}
	if txn.Type != model.TxFood || txn.Meta["priceTag"] != b.Key || txn.Amount != 80 {
		t.Fatalf("quick transaction = %+v", txn)
	}
	if got := e.State().Wallet.Balance; got != 6707 {
		t.Fatalf("balance = %v, want 6707", got)
	}

	if _, res := e.UseQuickButton(ctx, "nope"); res != RejectedUnknownButton {
		t.Fatalf("UseQuickButton(nope) = %v", res)
	}
	if !e.RemoveQuickButton(b.Key) || e.RemoveQuickButton(b.Key) {
		t.Fatal("RemoveQuickButton should succeed once")
	}
	if _, res := e.AddQuickButton("", 10); res != RejectedEmptyLabel {
		t.Fatalf("AddQuickButton(empty) = %v", res)
	}
}

func TestAppendHistory(t *testing.T) {
	e := newTestEngine(t, "2025-06-10", Options{})
	n := e.AppendHistory([]model.Transaction{
		{ID: "1", Date: "2025-06-10", Label: "a", Amount: 10, Deducted: true},
		{ID: "2", Date: "2025-05-01", Label: "b", Amount: 0},
		{Date: "2025-06-02", Label: "c", Amount: 5},
	})
	if n != 2 {
		t.Fatalf("AppendHistory = %d, want 2", n)
	}
	if got := e.State().Wallet.Balance; got != 6787 {
		t.Fatalf("balance = %v, want 6787", got)
	}
	if got := e.AppendHistory([]model.Transaction{{ID: "1", Date: "2025-06-10", Label: "a", Amount: 10}}); got != 0 {
		t.Fatalf("duplicate AppendHistory = %d, want 0", got)
	}
}

func TestOnChangeSeesCopy(t *testing.T) {
	var last State
	opts := Options{OnChange: func(s State) { last = s }}
	e := newTestEngine(t, "2025-06-10", opts)
	e.AddTransaction(context.Background(), Entry{Label: "x", Amount: 10})
	if len(last.Transactions) != 1 {
		t.Fatalf("OnChange transactions = %d, want 1", len(last.Transactions))
	}
	last.Transactions[0].Label = "mutated"
	if e.State().Transactions[0].Label != "x" {
		t.Fatal("OnChange state aliases engine state")
	}
}
