package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/zenith/internal/model"
)

// fakeFirebase serves the handful of identity, Firestore, and Storage
// endpoints a Session talks to, keeping documents in memory.
type fakeFirebase struct {
	mu       sync.Mutex
	docs     map[string]document
	signUps  int
	refresh  int
	uploads  int
	reject   int
	lastAuth string
}

func newFakeFirebase() *fakeFirebase {
	return &fakeFirebase{docs: make(map[string]document)}
}

const docsPrefix = "/firestore/projects/demo/databases/(default)/documents/"

func (f *fakeFirebase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/accounts:signUp"):
		f.signUps++
		writeJSON(w, signUpResponse{IDToken: "id-1", RefreshToken: "refresh-1", ExpiresIn: "3600", LocalID: "user-1"})
		return
	case r.URL.Path == "/token":
		f.refresh++
		writeJSON(w, refreshResponse{IDToken: "id-2", RefreshToken: "refresh-2", ExpiresIn: "3600", UserID: "user-1"})
		return
	case strings.HasPrefix(r.URL.Path, "/storage/"):
		f.uploads++
		writeJSON(w, uploadResponse{Name: r.URL.Query().Get("name"), DownloadTokens: "dl-token"})
		return
	}

	f.lastAuth = r.Header.Get("Authorization")
	if f.reject > 0 {
		f.reject--
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, docsPrefix)
	switch {
	case r.Method == http.MethodPatch:
		var d document
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.Name = path
		f.docs[path] = d
		writeJSON(w, d)
	case r.Method == http.MethodDelete:
		if _, ok := f.docs[path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.docs, path)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "{}")
	case r.Method == http.MethodGet:
		d, ok := f.docs[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, d)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":runQuery"):
		var q struct {
			StructuredQuery struct {
				From []struct {
					CollectionID string `json:"collectionId"`
				} `json:"from"`
			} `json:"structuredQuery"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &q); err != nil || len(q.StructuredQuery.From) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		prefix := strings.TrimSuffix(path, ":runQuery") + "/" + q.StructuredQuery.From[0].CollectionID + "/"
		var names []string
		for name := range f.docs {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		sort.Slice(names, func(i, j int) bool {
			return dateOf(f.docs[names[i]]) > dateOf(f.docs[names[j]])
		})
		rows := make([]runQueryRow, 0, len(names))
		for _, n := range names {
			d := f.docs[n]
			rows = append(rows, runQueryRow{Document: &d})
		}
		if len(rows) == 0 {
			// Firestore answers an empty query with a single row holding only readTime.
			_, _ = io.WriteString(w, `[{"readTime":"2026-01-01T00:00:00Z"}]`)
			return
		}
		writeJSON(w, rows)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func dateOf(d document) string {
	if v, ok := d.Fields["date"]; ok && v.StringValue != nil {
		return *v.StringValue
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestSession(t *testing.T, f *fakeFirebase, bucket string) *Session {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewSession(Config{
		ProjectID:       "demo",
		APIKey:          "key",
		StorageBucket:   bucket,
		WritesPerSecond: 1000,
		Endpoints: Endpoints{
			Identity:  srv.URL + "/identity",
			Token:     srv.URL + "/token",
			Firestore: srv.URL + "/firestore",
			Storage:   srv.URL + "/storage",
		},
		HTTPClient: srv.Client(),
	}, Credentials{})
}

type memLocal struct {
	txns     []model.Transaction
	workouts []model.Workout
	photos   []model.Photo
	deletes  []Tombstone
}

func (m *memLocal) Transactions() []model.Transaction         { return append([]model.Transaction(nil), m.txns...) }
func (m *memLocal) Workouts() []model.Workout                 { return append([]model.Workout(nil), m.workouts...) }
func (m *memLocal) Photos() []model.Photo                     { return append([]model.Photo(nil), m.photos...) }
func (m *memLocal) ReplaceTransactions(t []model.Transaction) { m.txns = t }
func (m *memLocal) ReplaceWorkouts(w []model.Workout)         { m.workouts = w }
func (m *memLocal) ReplacePhotos(p []model.Photo)             { m.photos = p }
func (m *memLocal) PendingDeletes() []Tombstone               { return append([]Tombstone(nil), m.deletes...) }

func (m *memLocal) DeletesApplied(done []Tombstone) {
	m.deletes = slices.DeleteFunc(m.deletes, func(t Tombstone) bool { return slices.Contains(done, t) })
}

// deleteTxn drops a transaction the way the app does: locally, with a
// tombstone for the remote copy.
func (m *memLocal) deleteTxn(id string) {
	m.txns = slices.DeleteFunc(m.txns, func(t model.Transaction) bool { return t.ID == id })
	m.deletes = append(m.deletes, Tombstone{Kind: KindBudget, ID: id})
}

func (m *memLocal) SetPhotoURL(id, url string) {
	for i := range m.photos {
		if m.photos[i].ID == id {
			m.photos[i].RemoteURL = url
		}
	}
}

func sampleLocal() *memLocal {
	return &memLocal{
		txns: []model.Transaction{
			{ID: "t2", Date: "2026-03-02", Label: "Lunch", Amount: 120, Type: model.TxFood, Deducted: true},
			{ID: "t1", Date: "2026-03-01", Label: "Cab", Amount: 85.5, Type: model.TxExpense, Meta: map[string]string{"note": "airport"}},
		},
		workouts: []model.Workout{{
			ID: "w1", Date: "2026-03-01", DayType: "push",
			Exercises: []model.Exercise{{Name: "Bench Press", Sets: []model.Set{{Weight: 60, Reps: 8}, {Weight: 62.5, Reps: 6}}}},
		}},
	}
}

func TestDisabledSessionFailsWithoutNetwork(t *testing.T) {
	s := NewSession(Config{}, Credentials{})
	if s.Enabled() {
		t.Fatal("session without project should be disabled")
	}
	y := NewSyncer(s, sampleLocal())
	for name, r := range map[string]Result{
		"SyncAll":     y.SyncAll(context.Background()),
		"FetchAll":    y.FetchAll(context.Background()),
		"InitialSync": y.InitialSync(context.Background()),
	} {
		if r.Success || r.Message != "Offline or not authenticated" {
			t.Fatalf("%s = %+v, want offline failure", name, r)
		}
	}
	if err := s.SignIn(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("SignIn err = %v, want ErrUnavailable", err)
	}
}

func TestSignInAnonymousOnce(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	var saved Credentials
	s.OnCredentials = func(c Credentials) { saved = c }

	ctx := context.Background()
	if err := s.SignIn(ctx); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := s.SignIn(ctx); err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if f.signUps != 1 {
		t.Fatalf("signUps = %d, want 1", f.signUps)
	}
	if s.UID() != "user-1" || saved.RefreshToken != "refresh-1" {
		t.Fatalf("credentials = %+v, saved %+v", s.Credentials(), saved)
	}
}

func TestStoredRefreshTokenIsReused(t *testing.T) {
	f := newFakeFirebase()
	srv := httptest.NewServer(f)
	defer srv.Close()
	s := NewSession(Config{
		ProjectID: "demo", APIKey: "key",
		Endpoints:  Endpoints{Identity: srv.URL + "/identity", Token: srv.URL + "/token", Firestore: srv.URL + "/firestore"},
		HTTPClient: srv.Client(),
	}, Credentials{UID: "user-1", RefreshToken: "refresh-0"})

	if err := s.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if f.signUps != 0 || f.refresh != 1 {
		t.Fatalf("signUps=%d refresh=%d, want 0 and 1", f.signUps, f.refresh)
	}
	if got := s.Credentials().IDToken; got != "id-2" {
		t.Fatalf("IDToken = %q, want id-2", got)
	}
}

func TestSyncThenFetchRoundTrip(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	local := sampleLocal()
	y := NewSyncer(s, local)
	ctx := context.Background()

	r := y.SyncAll(ctx)
	if !r.Success || r.Count != 3 {
		t.Fatalf("SyncAll = %+v, want success with 3 docs", r)
	}
	d, ok := f.docs["users/user-1/budget/t1"]
	if !ok {
		t.Fatal("budget doc t1 not written")
	}
	if v := d.Fields["synced"]; v.BooleanValue == nil || !*v.BooleanValue {
		t.Fatal("synced flag missing on pushed doc")
	}
	if v := d.Fields["amount"]; v.DoubleValue == nil || *v.DoubleValue != 85.5 {
		t.Fatalf("amount field = %+v, want double 85.5", v)
	}

	fresh := &memLocal{}
	r = NewSyncer(s, fresh).FetchAll(ctx)
	if !r.Success || r.Count != 3 {
		t.Fatalf("FetchAll = %+v, want success with 3 docs", r)
	}
	if len(fresh.txns) != 2 || fresh.txns[0].ID != "t2" {
		t.Fatalf("fetched txns = %+v, want t2 first", fresh.txns)
	}
	if fresh.txns[1].Meta["note"] != "airport" || fresh.txns[1].Amount != 85.5 {
		t.Fatalf("fetched t1 = %+v", fresh.txns[1])
	}
	if !fresh.txns[0].Deducted || fresh.txns[0].Amount != 120 {
		t.Fatalf("fetched t2 = %+v", fresh.txns[0])
	}
	w := fresh.workouts
	if len(w) != 1 || len(w[0].Exercises) != 1 || w[0].Exercises[0].Sets[1].Weight != 62.5 {
		t.Fatalf("fetched workouts = %+v", w)
	}
}

func TestDeletedRecordStaysDeletedAfterPull(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	local := sampleLocal()
	y := NewSyncer(s, local)
	ctx := context.Background()

	if r := y.SyncAll(ctx); !r.Success {
		t.Fatalf("SyncAll = %+v", r)
	}
	local.deleteTxn("t2")
	r := y.SyncAll(ctx)
	if !r.Success || r.Count != 3 {
		t.Fatalf("SyncAll after delete = %+v, want 2 pushes and 1 removal", r)
	}
	if _, ok := f.docs["users/user-1/budget/t2"]; ok {
		t.Fatal("remote t2 still present after sync")
	}
	if len(local.deletes) != 0 {
		t.Fatalf("pending deletes = %+v, want none", local.deletes)
	}

	if r := y.FetchAll(ctx); !r.Success {
		t.Fatalf("FetchAll = %+v", r)
	}
	if len(local.txns) != 1 || local.txns[0].ID != "t1" {
		t.Fatalf("local txns after pull = %+v, want only t1", local.txns)
	}
}

func TestFetchAllAppliesPendingDeletesFirst(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	local := sampleLocal()
	y := NewSyncer(s, local)
	ctx := context.Background()

	if r := y.SyncAll(ctx); !r.Success {
		t.Fatalf("SyncAll = %+v", r)
	}
	local.deleteTxn("t1")
	if r := y.FetchAll(ctx); !r.Success {
		t.Fatalf("FetchAll = %+v", r)
	}
	if len(local.txns) != 1 || local.txns[0].ID != "t2" {
		t.Fatalf("local txns after pull = %+v, want only t2", local.txns)
	}
}

func TestDeleteDocMissingIsSuccess(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	y := NewSyncer(s, &memLocal{})
	if r := y.Delete(context.Background(), KindWorkouts, "never-pushed"); !r.Success || r.Count != 1 {
		t.Fatalf("Delete = %+v, want success", r)
	}
	s.SetEnabled(false)
	if r := y.Delete(context.Background(), KindWorkouts, "w1"); r.Success || r.Message != "Offline or not authenticated" {
		t.Fatalf("Delete while disabled = %+v", r)
	}
}

func TestFetchAllKeepsLocalWhenRemoteEmpty(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	local := sampleLocal()

	r := NewSyncer(s, local).FetchAll(context.Background())
	if !r.Success || r.Count != 0 {
		t.Fatalf("FetchAll = %+v, want success with 0 docs", r)
	}
	if len(local.txns) != 2 || len(local.workouts) != 1 {
		t.Fatalf("local data overwritten: %d txns, %d workouts", len(local.txns), len(local.workouts))
	}
}

func TestInitialSyncRunsOnce(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	y := NewSyncer(s, sampleLocal())
	ctx := context.Background()

	if r := y.InitialSync(ctx); !r.Success || r.Count != 3 {
		t.Fatalf("first InitialSync = %+v", r)
	}
	if _, ok := f.docs["users/user-1/profile/metadata"]; !ok {
		t.Fatal("metadata marker not written")
	}
	r := y.InitialSync(ctx)
	if !r.Success || r.Count != 0 {
		t.Fatalf("second InitialSync = %+v, want no-op success", r)
	}
}

func TestUnauthorizedRetriesWithRefresh(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "")
	ctx := context.Background()
	if err := s.SignIn(ctx); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	f.reject = 1

	n, err := s.PushCollection(ctx, KindBudget, []Doc{{ID: "x", Data: model.Transaction{ID: "x", Date: "2026-03-01"}}})
	if err != nil || n != 1 {
		t.Fatalf("PushCollection = %d, %v", n, err)
	}
	if f.refresh != 1 {
		t.Fatalf("refresh = %d, want 1", f.refresh)
	}
	if f.lastAuth != "Bearer id-2" {
		t.Fatalf("Authorization = %q, want refreshed token", f.lastAuth)
	}
}

func TestPhotoUpload(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "demo.appspot.com")
	path := filepath.Join(t.TempDir(), "p.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	local := &memLocal{photos: []model.Photo{{ID: "p1", Date: "2026-03-01", Path: path}}}

	r := NewSyncer(s, local).SyncAll(context.Background())
	if !r.Success {
		t.Fatalf("SyncAll = %+v", r)
	}
	if f.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", f.uploads)
	}
	u := local.photos[0].RemoteURL
	if !strings.Contains(u, "alt=media") || !strings.Contains(u, "token=dl-token") {
		t.Fatalf("RemoteURL = %q", u)
	}
	d := f.docs["users/user-1/photos/p1"]
	if v := d.Fields["remoteUrl"]; v.StringValue == nil || *v.StringValue != u {
		t.Fatalf("pushed photo remoteUrl = %+v", v)
	}
}

func TestFrozenSyncThawsIntoLocal(t *testing.T) {
	f := newFakeFirebase()
	s := newTestSession(t, f, "demo.appspot.com")
	path := filepath.Join(t.TempDir(), "p.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	local := sampleLocal()
	local.photos = []model.Photo{{ID: "p1", Date: "2026-03-01", Path: path}}
	if r := NewSyncer(s, local).SyncAll(context.Background()); !r.Success {
		t.Fatalf("SyncAll = %+v", r)
	}
	local.photos[0].RemoteURL = ""
	local.deleteTxn("t1")

	frozen := Freeze(local)
	local.txns = append(local.txns, model.Transaction{ID: "t3", Date: "2026-03-03", Label: "Tea", Amount: 10})
	r := NewSyncer(s, frozen).SyncAll(context.Background())
	if !r.Success {
		t.Fatalf("frozen SyncAll = %+v", r)
	}
	if _, ok := f.docs["users/user-1/budget/t3"]; ok {
		t.Fatal("frozen sync pushed a record added after the freeze")
	}
	if local.photos[0].RemoteURL != "" || len(local.deletes) != 1 {
		t.Fatal("frozen sync wrote to the live local")
	}

	frozen.Thaw(local)
	if local.photos[0].RemoteURL == "" {
		t.Fatal("photo URL not thawed")
	}
	if len(local.deletes) != 0 {
		t.Fatalf("pending deletes after thaw = %+v", local.deletes)
	}
}

func TestEncodeFieldsTypes(t *testing.T) {
	fields, err := encodeFields(map[string]any{
		"n": 3, "f": 1.5, "s": "x", "b": true, "nil": nil,
		"arr": []int{1, 2}, "obj": map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("encodeFields: %v", err)
	}
	if v := fields["n"]; v.IntegerValue == nil || *v.IntegerValue != "3" {
		t.Fatalf("n = %+v, want integer 3", v)
	}
	if v := fields["f"]; v.DoubleValue == nil || *v.DoubleValue != 1.5 {
		t.Fatalf("f = %+v, want double 1.5", v)
	}
	if v := fields["arr"]; v.ArrayValue == nil || len(v.ArrayValue.Values) != 2 {
		t.Fatalf("arr = %+v", v)
	}
	raw, err := json.Marshal(fields["nil"])
	if err != nil || string(raw) != `{"nullValue":null}` {
		t.Fatalf("nil encodes to %s, %v", raw, err)
	}

	var back map[string]any
	if err := decodeInto(fields, &back); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
	if back["s"] != "x" || back["b"] != true || back["nil"] != nil {
		t.Fatalf("decoded = %+v", back)
	}
	if _, err := encodeFields([]int{1}); err == nil {
		t.Fatal("encodeFields of a non-object should fail")
	}
}
