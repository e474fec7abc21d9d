package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/mirror"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
	"github.com/theirongolddev/zenith/internal/store"
)

type recorder struct{ kinds []notify.Kind }

func (r *recorder) Notify(_ context.Context, m notify.Message) error {
	r.kinds = append(r.kinds, m.Kind)
	return nil
}

type harness struct {
	svc   *Service
	app   *app.App
	h     http.Handler
	day   *string
	notes *recorder
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	day := "2026-03-10"
	clock := func() time.Time {
		c, _ := dates.Fixed(day)
		return c()
	}
	rec := &recorder{}
	a, err := app.Open(context.Background(), app.Options{
		Config:   config.DefaultConfig(),
		DataDir:  t.TempDir(),
		Clock:    clock,
		Store:    store.NewMemory(),
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	svc := New(a, cfg)
	return &harness{svc: svc, app: a, h: svc.Router(context.Background()), day: &day, notes: rec}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	return rr
}

func (h *harness) eventTypes() []string {
	h.svc.mu.RLock()
	defer h.svc.mu.RUnlock()
	out := make([]string, 0, len(h.svc.events))
	for _, ev := range h.svc.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestPublishEventRingBuffer(t *testing.T) {
	h := newHarness(t, Config{EventsBuffer: 2})
	s := h.svc

	s.publish(EventSnapshot, Snapshot{}, nil)
	s.publish(EventSnapshot, Snapshot{}, nil)
	s.publish(EventSnapshot, Snapshot{}, nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHealthAndStatus(t *testing.T) {
	h := newHarness(t, Config{DataDir: "/data"})
	if rr := h.do(http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK || rr.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rr.Code, rr.Body.String())
	}

	rr := h.do(http.MethodGet, "/v1/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d", rr.Code)
	}
	var st Status
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.Summary.Today != "2026-03-10" || st.Summary.DaysLeft != 22 || st.Summary.Slot != "push" || st.DataDir != "/data" {
		t.Fatalf("status = %+v", st)
	}
}

func TestAddTransactionPublishesOverspendOnce(t *testing.T) {
	h := newHarness(t, Config{MutationsPerSec: 100})

	rr := h.do(http.MethodPost, "/v1/transactions", `{"label":"Dinner","amount":400}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add code = %d body %s", rr.Code, rr.Body.String())
	}
	var resp addResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding add response: %v", err)
	}
	if resp.Transaction == nil || resp.Transaction.Type != model.TxFood || !resp.Snapshot.OverLimit {
		t.Fatalf("add response = %+v", resp)
	}

	if rr := h.do(http.MethodPost, "/v1/transactions", `{"label":"Tea","amount":10,"type":"other"}`); rr.Code != http.StatusCreated {
		t.Fatalf("second add code = %d", rr.Code)
	}

	got := strings.Join(h.eventTypes(), ",")
	if got != "transaction,overspend,transaction" {
		t.Fatalf("events = %s", got)
	}
}

func TestAddTransactionRejected(t *testing.T) {
	h := newHarness(t, Config{MutationsPerSec: 100})
	rr := h.do(http.MethodPost, "/v1/transactions", `{"label":"Free","amount":0}`)
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), "invalid amount") {
		t.Fatalf("add = %d %s", rr.Code, rr.Body.String())
	}
	if rr := h.do(http.MethodPost, "/v1/transactions", `not json`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body code = %d", rr.Code)
	}
	if n := len(h.eventTypes()); n != 0 {
		t.Fatalf("rejected adds published %d events", n)
	}
}

func TestDeleteTransaction(t *testing.T) {
	h := newHarness(t, Config{MutationsPerSec: 100})
	if rr := h.do(http.MethodDelete, "/v1/transactions/missing", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("delete missing = %d", rr.Code)
	}

	rr := h.do(http.MethodPost, "/v1/transactions", `{"label":"Lunch","amount":120}`)
	var resp addResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Transaction == nil {
		t.Fatalf("add failed: %s", rr.Body.String())
	}

	if rr := h.do(http.MethodDelete, "/v1/transactions/"+resp.Transaction.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rr.Code)
	}
	if bal := h.app.Budget.State().Wallet.Balance; bal != 6787 {
		t.Fatalf("balance after delete = %v, want 6787", bal)
	}
}

func TestSwap(t *testing.T) {
	h := newHarness(t, Config{MutationsPerSec: 100})
	rr := h.do(http.MethodPost, "/v1/schedule/swap", `{"key":"legs"}`)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"slot":"legs"`) {
		t.Fatalf("swap = %d %s", rr.Code, rr.Body.String())
	}
	if rr := h.do(http.MethodPost, "/v1/schedule/swap", `{"key":"cardio"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown swap = %d", rr.Code)
	}
}

func TestOverload(t *testing.T) {
	h := newHarness(t, Config{})
	if rr := h.do(http.MethodGet, "/v1/overload/Bench%20Press", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("no history = %d", rr.Code)
	}

	sets := []model.Set{{Weight: 60, Reps: 8}, {Weight: 60, Reps: 9}}
	for _, d := range []string{"2026-03-03", "2026-03-06"} {
		if _, ok := h.app.Training.Save(context.Background(), d, "push", []model.Exercise{{Name: "Bench Press", Sets: sets}}); !ok {
			t.Fatalf("Save %s failed", d)
		}
	}

	rr := h.do(http.MethodGet, "/v1/overload/bench%20press", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("overload = %d %s", rr.Code, rr.Body.String())
	}
	var resp overloadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding overload: %v", err)
	}
	if resp.Suggestion == nil || resp.Suggestion.SuggestedWeight != 62.5 || resp.Last.Date != "2026-03-06" {
		t.Fatalf("overload = %+v", resp)
	}
}

func TestMutationsAreRateLimited(t *testing.T) {
	h := newHarness(t, Config{MutationsPerSec: 1})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, h.do(http.MethodPost, "/v1/schedule/swap", `{"key":"pull"}`).Code)
	}
	if codes[0] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want first OK and third 429", codes)
	}
	if rr := h.do(http.MethodGet, "/v1/status", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads should not be limited, got %d", rr.Code)
	}
}

func TestTickPublishesDayRollover(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	h.svc.tick(ctx)
	if n := len(h.eventTypes()); n != 0 {
		t.Fatalf("same-day tick published %d events", n)
	}

	*h.day = "2026-03-11"
	h.svc.tick(ctx)
	if got := h.eventTypes(); len(got) != 1 || got[0] != EventDayRollover {
		t.Fatalf("events = %v, want day_rollover", got)
	}
	st := h.svc.status()
	if st.Summary.Today != "2026-03-11" || st.TickCount != 2 {
		t.Fatalf("status after rollover = %+v", st)
	}
	var sawLimit bool
	for _, k := range h.notes.kinds {
		if k == notify.KindDailyLimit {
			sawLimit = true
		}
	}
	if !sawLimit {
		t.Fatalf("notifications = %v, want daily-limit reminder", h.notes.kinds)
	}
}

func TestWriteSSE(t *testing.T) {
	rr := httptest.NewRecorder()
	writeSSE(rr, Event{ID: 7, Type: EventOverspend})
	body := rr.Body.String()
	if !strings.HasPrefix(body, "event: overspend\ndata: {\"id\":7,") || !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("sse frame = %q", body)
	}
}

// stalledMirror accepts connections and holds every request until release
// is closed, like an unreachable backend that never times out.
func stalledMirror(t *testing.T) (*mirror.Session, <-chan struct{}, chan struct{}) {
	t.Helper()
	hit := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		select {
		case hit <- struct{}{}:
		default:
		}
		<-release
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	sess := mirror.NewSession(mirror.Config{
		ProjectID: "demo",
		APIKey:    "key",
		Endpoints: mirror.Endpoints{
			Identity:  srv.URL + "/identity",
			Token:     srv.URL + "/token",
			Firestore: srv.URL + "/firestore",
			Storage:   srv.URL + "/storage",
		},
		HTTPClient: srv.Client(),
	}, mirror.Credentials{})
	return sess, hit, release
}

func TestSyncDoesNotBlockLocalRoutes(t *testing.T) {
	sess, hit, release := stalledMirror(t)
	var once sync.Once
	unstall := func() { once.Do(func() { close(release) }) }
	defer unstall()

	cfg := config.DefaultConfig()
	cfg.Sync.AutoSync = true
	clock, _ := dates.Fixed("2026-03-10")
	a, err := app.Open(context.Background(), app.Options{
		Config:   cfg,
		DataDir:  t.TempDir(),
		Clock:    clock,
		Store:    store.NewMemory(),
		Notifier: notify.Nop{},
		Mirror:   sess,
	})
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	svc := New(a, Config{MutationsPerSec: 100})
	h := svc.Router(context.Background())
	do := func(method, path, body string) int {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rr.Code
	}

	if code := do(http.MethodPost, "/v1/transactions", `{"label":"Lunch","amount":120}`); code != http.StatusCreated {
		t.Fatalf("add code = %d", code)
	}
	if len(svc.syncReq) != 1 {
		t.Fatal("add did not queue a sync")
	}

	done := make(chan mirror.Result, 1)
	go func() { done <- svc.syncOnce(context.Background()) }()
	select {
	case <-hit:
	case <-time.After(5 * time.Second):
		t.Fatal("sync never reached the mirror")
	}

	local := make(chan [2]int, 1)
	go func() {
		local <- [2]int{
			do(http.MethodPost, "/v1/transactions", `{"label":"Tea","amount":10}`),
			do(http.MethodGet, "/v1/status", ""),
		}
	}()
	select {
	case codes := <-local:
		if codes[0] != http.StatusCreated || codes[1] != http.StatusOK {
			t.Fatalf("codes while syncing = %v", codes)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("local routes blocked while the mirror was stalled")
	}

	unstall()
	if r := <-done; r.Success {
		t.Fatalf("sync against a failing mirror = %+v, want failure", r)
	}
}
