package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/theirongolddev/zenith/internal/model"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}
func (failingBackend) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (failingBackend) Close() error                              { return nil }

func roundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	wallet := model.Wallet{Balance: 6682, MonthEndDate: "2025-06-30"}
	txns := []model.Transaction{
		{ID: "a", Date: "2025-06-01", Label: "Chicken Tikka", Amount: 105, Type: model.TxFood, Deducted: true},
		{ID: "b", Date: "2025-05-30", Label: "Taxi", Amount: 80, Type: model.TxExpense},
	}
	anchors := map[string]model.Anchor{"ppl": {Date: "2025-06-01", Index: 2}}

	if !Save(ctx, b, "wallet", wallet) || !Save(ctx, b, KeyTransactions, txns) || !Save(ctx, b, KeyAnchors, anchors) {
		t.Fatal("Save returned false")
	}

	gotWallet := Load(ctx, b, "wallet", model.Wallet{})
	if gotWallet != wallet {
		t.Fatalf("wallet = %+v, want %+v", gotWallet, wallet)
	}
	gotTxns := Load[[]model.Transaction](ctx, b, KeyTransactions, nil)
	if len(gotTxns) != 2 || gotTxns[0].ID != "a" || gotTxns[1].Amount != 80 || !gotTxns[0].Deducted {
		t.Fatalf("transactions = %+v", gotTxns)
	}
	gotAnchors := Load[map[string]model.Anchor](ctx, b, KeyAnchors, nil)
	if gotAnchors["ppl"] != anchors["ppl"] {
		t.Fatalf("anchors = %+v, want %+v", gotAnchors, anchors)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	roundTrip(t, NewMemory())
}

func TestSQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "zenith.db")
	s, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = s.Close() }()
	roundTrip(t, s)

	keys, err := s.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if _, ok := keys[KeyTransactions]; !ok {
		t.Fatalf("Keys() missing %s: %v", KeyTransactions, keys)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "zenith.db")
	ctx := context.Background()

	s, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	Save(ctx, s, KeyBalance, 1234.5)
	_ = s.Close()

	s, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	if got := Load(ctx, s, KeyBalance, 0.0); got != 1234.5 {
		t.Fatalf("balance after reopen = %v, want 1234.5", got)
	}
}

func TestSQLiteSetMany(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "zenith.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	err = s.SetMany(ctx, map[string][]byte{KeyBalance: []byte("10"), KeyMonthEnd: []byte(`"2025-06-30"`)})
	if err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if got := Load(ctx, s, KeyMonthEnd, ""); got != "2025-06-30" {
		t.Fatalf("month end = %q, want 2025-06-30", got)
	}
}

func TestSaveManyWritesEveryKey(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	r, err := OpenRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer func() { _ = r.Close() }()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "zenith.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = sq.Close() }()

	for name, b := range map[string]Backend{"memory": NewMemory(), "sqlite": sq, "redis": r} {
		ok := SaveMany(ctx, b, map[string]any{
			KeyBalance:  6682.5,
			KeyMonthEnd: "2025-06-30",
		})
		if !ok {
			t.Fatalf("%s: SaveMany = false", name)
		}
		if got := Load(ctx, b, KeyBalance, 0.0); got != 6682.5 {
			t.Fatalf("%s: balance = %v, want 6682.5", name, got)
		}
		if got := Load(ctx, b, KeyMonthEnd, ""); got != "2025-06-30" {
			t.Fatalf("%s: month end = %q", name, got)
		}
	}
	if SaveMany(ctx, failingBackend{}, map[string]any{KeyBalance: 1}) {
		t.Fatal("SaveMany on a failing backend = true")
	}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	Save(ctx, m, KeyTransactions, []model.Transaction{{ID: "a"}})

	recs, err := Inspect(ctx, m)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(recs) != len(AllKeys) {
		t.Fatalf("records = %d, want %d", len(recs), len(AllKeys))
	}
	for _, r := range recs {
		if r.Key == KeyTransactions {
			if !r.Present || r.Size == 0 || r.UpdatedAt.IsZero() {
				t.Fatalf("transactions record = %+v", r)
			}
		} else if r.Present {
			t.Fatalf("unexpected record %+v", r)
		}
	}
	if _, err := Inspect(ctx, failingBackend{}); err == nil {
		t.Fatal("Inspect on a failing backend should fail")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := OpenRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer func() { _ = r.Close() }()
	roundTrip(t, r)

	if !mr.Exists(redisPrefix + KeyTransactions) {
		t.Fatalf("expected key %s%s in redis", redisPrefix, KeyTransactions)
	}
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if got := Load(ctx, m, KeyBalance, 6787.0); got != 6787 {
		t.Fatalf("missing key = %v, want default 6787", got)
	}

	_ = m.Set(ctx, KeyBalance, []byte("{not json"))
	if got := Load(ctx, m, KeyBalance, 6787.0); got != 6787 {
		t.Fatalf("corrupt value = %v, want default 6787", got)
	}

	if got := Load(ctx, failingBackend{}, KeyBalance, 1.0); got != 1 {
		t.Fatalf("failing backend = %v, want default 1", got)
	}
}

func TestSaveSwallowsErrors(t *testing.T) {
	if Save(context.Background(), failingBackend{}, KeyBalance, 5) {
		t.Fatal("Save on failing backend returned true")
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open("etcd", t.TempDir(), ""); err == nil {
		t.Fatal("Open(etcd) should fail")
	}
	b, err := Open(KindMemory, "", "")
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Fatalf("Open(memory) = %T, want *Memory", b)
	}
}
