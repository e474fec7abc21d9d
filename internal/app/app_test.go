package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/mirror"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
	"github.com/theirongolddev/zenith/internal/store"
)

type recorder struct{ msgs []notify.Message }

func (r *recorder) Notify(_ context.Context, m notify.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func openTest(t *testing.T, b store.Backend, today string) (*App, *recorder) {
	t.Helper()
	clock, ok := dates.Fixed(today)
	if !ok {
		t.Fatalf("bad test date %q", today)
	}
	rec := &recorder{}
	a, err := Open(context.Background(), Options{
		Config:   config.DefaultConfig(),
		DataDir:  t.TempDir(),
		Clock:    clock,
		Store:    b,
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, rec
}

func TestFreshProfileDefaults(t *testing.T) {
	a, _ := openTest(t, store.NewMemory(), "2026-03-10")
	s := a.Budget.Snapshot()
	if s.Balance != budget.DefaultBalance || s.MonthEnd != "2026-03-31" || s.DaysLeft != 22 {
		t.Fatalf("snapshot = %+v", s)
	}
	if got := a.Schedule.Today().Slot.Key; got != "push" {
		t.Fatalf("today slot = %q, want push", got)
	}
	if a.Sync.Session().Enabled() {
		t.Fatal("mirror should be disabled without a project")
	}
}

func TestStatePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	a, _ := openTest(t, b, "2026-03-10")

	if _, r := a.Budget.AddTransaction(ctx, budget.Entry{Label: "Lunch", Amount: 120}); r != budget.Accepted {
		t.Fatalf("AddTransaction = %v", r)
	}
	if !a.Schedule.ApplySwap("legs") {
		t.Fatal("ApplySwap(legs) failed")
	}
	if _, ok := a.Training.Save(ctx, "", "legs", []model.Exercise{{Name: "Squat", Sets: []model.Set{{Weight: 80, Reps: 5}}}}); !ok {
		t.Fatal("Save workout failed")
	}
	if !a.Nutrition.LogWeight("", 74.2) {
		t.Fatal("LogWeight failed")
	}

	again, _ := openTest(t, b, "2026-03-10")
	if got := again.Budget.State().Wallet.Balance; got != budget.DefaultBalance-120 {
		t.Fatalf("balance after reopen = %v, want %v", got, budget.DefaultBalance-120)
	}
	if got := again.Schedule.Today().Slot.Key; got != "legs" {
		t.Fatalf("slot after reopen = %q, want legs", got)
	}
	if len(again.Training.Workouts()) != 1 {
		t.Fatalf("workouts after reopen = %d, want 1", len(again.Training.Workouts()))
	}
	if w, ok := again.Nutrition.CurrentWeight(); !ok || w != 74.2 {
		t.Fatalf("CurrentWeight = %v, %v", w, ok)
	}
}

func TestCorruptRecordFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	if err := b.Set(ctx, store.KeyTransactions, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, store.KeyBalance, []byte(`"abc"`)); err != nil {
		t.Fatal(err)
	}
	a, _ := openTest(t, b, "2026-03-10")
	st := a.Budget.State()
	if len(st.Transactions) != 0 || st.Wallet.Balance != budget.DefaultBalance {
		t.Fatalf("state = %+v, want defaults", st.Wallet)
	}
}

func TestExportImportMergesHistory(t *testing.T) {
	ctx := context.Background()
	src, _ := openTest(t, store.NewMemory(), "2026-03-10")
	src.Budget.AddTransaction(ctx, budget.Entry{Label: "Lunch", Amount: 120})
	src.Training.Save(ctx, "", "push", []model.Exercise{{Name: "Bench Press", Sets: []model.Set{{Weight: 60, Reps: 8}, {Weight: 60, Reps: 8}}}})
	src.Nutrition.LogWeight("", 75)

	path := filepath.Join(t.TempDir(), "zenith.xlsx")
	if _, err := src.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst, _ := openTest(t, store.NewMemory(), "2026-03-10")
	c, err := dst.Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if c.Transactions != 1 || c.Workouts != 1 || c.Sets != 2 || c.Weights != 1 {
		t.Fatalf("Import counts = %+v", c)
	}
	if got := dst.Budget.State().Wallet.Balance; got != budget.DefaultBalance {
		t.Fatalf("balance after import = %v, want untouched %v", got, budget.DefaultBalance)
	}

	c, err = dst.Import(path)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if c.Transactions != 0 || c.Workouts != 0 {
		t.Fatalf("second Import counts = %+v, want no new records", c)
	}
}

func TestRemindSendsAllowanceAndSlot(t *testing.T) {
	a, rec := openTest(t, store.NewMemory(), "2026-03-10")
	a.Remind(context.Background())
	kinds := map[notify.Kind]bool{}
	for _, m := range rec.msgs {
		kinds[m.Kind] = true
	}
	if !kinds[notify.KindDailyLimit] || !kinds[notify.KindWorkoutDay] || !kinds[notify.KindProgressPhoto] {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestAddPhotoCopiesFile(t *testing.T) {
	a, _ := openTest(t, store.NewMemory(), "2026-03-10")
	src := filepath.Join(t.TempDir(), "front.JPG")
	if err := os.WriteFile(src, []byte("img"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := a.AddPhoto("", "front", src)
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	if filepath.Dir(p.Path) != a.PhotoDir() || filepath.Ext(p.Path) != ".jpg" {
		t.Fatalf("photo path = %q", p.Path)
	}
	if data, err := os.ReadFile(p.Path); err != nil || string(data) != "img" {
		t.Fatalf("copied photo = %q, %v", data, err)
	}
}

func TestSyncDisabledResult(t *testing.T) {
	a, _ := openTest(t, store.NewMemory(), "2026-03-10")
	r := a.Sync.SyncAll(context.Background())
	if r.Success || r.Message != "Offline or not authenticated" {
		t.Fatalf("SyncAll = %+v", r)
	}
	if got := SyncResult(r); got != "Sync failed: Offline or not authenticated" {
		t.Fatalf("SyncResult = %q", got)
	}
}

func TestDeleteQueuesRemoteRemoval(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	sess := mirror.NewSession(mirror.Config{ProjectID: "demo", APIKey: "key"}, mirror.Credentials{})
	clock, _ := dates.Fixed("2026-03-10")
	open := func() *App {
		a, err := Open(ctx, Options{
			Config:   config.DefaultConfig(),
			DataDir:  t.TempDir(),
			Clock:    clock,
			Store:    b,
			Notifier: notify.Nop{},
			Mirror:   sess,
		})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return a
	}

	a := open()
	tx, _ := a.Budget.AddTransaction(ctx, budget.Entry{Label: "Lunch", Amount: 120})
	if !a.DeleteTransaction(tx.ID) {
		t.Fatal("DeleteTransaction = false")
	}
	if a.DeleteTransaction(tx.ID) {
		t.Fatal("second DeleteTransaction = true")
	}
	if n := a.PendingDeletes(); n != 1 {
		t.Fatalf("pending deletes = %d, want 1", n)
	}

	again := open()
	if n := again.PendingDeletes(); n != 1 {
		t.Fatalf("pending deletes after reopen = %d, want 1", n)
	}
	f := again.FreezeForSync()
	f.DeletesApplied(f.PendingDeletes())
	again.ThawSynced(f)
	if n := again.PendingDeletes(); n != 0 {
		t.Fatalf("pending deletes after thaw = %d, want 0", n)
	}
}

func TestDeleteWithoutMirrorQueuesNothing(t *testing.T) {
	a, _ := openTest(t, store.NewMemory(), "2026-03-10")
	tx, _ := a.Budget.AddTransaction(context.Background(), budget.Entry{Label: "Lunch", Amount: 120})
	if !a.DeleteTransaction(tx.ID) {
		t.Fatal("DeleteTransaction = false")
	}
	if n := a.PendingDeletes(); n != 0 {
		t.Fatalf("pending deletes = %d, want 0", n)
	}
	if got := a.Budget.State().Wallet.Balance; got != budget.DefaultBalance {
		t.Fatalf("balance = %v, want %v", got, budget.DefaultBalance)
	}
}
