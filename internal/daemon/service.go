// Package daemon serves the local zenith API and watches for day rollover.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/theirongolddev/zenith/internal/app"
	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/mirror"
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventDayRollover = "day_rollover"
	EventOverspend   = "overspend"
	EventTransaction = "transaction"
	EventDeleted     = "transaction_deleted"
	EventSwap        = "schedule_swap"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir         string
	Interval        time.Duration
	Addr            string
	EventsBuffer    int
	MutationsPerSec float64
}

// Snapshot is a compact view of today for status and event payloads.
type Snapshot struct {
	At          time.Time `json:"at"`
	Today       string    `json:"today"`
	Balance     float64   `json:"balance"`
	MonthEnd    string    `json:"month_end"`
	DaysLeft    int       `json:"days_left"`
	DailyLimit  float64   `json:"daily_limit"`
	Spent       float64   `json:"spent"`
	Remaining   float64   `json:"remaining"`
	OverLimit   bool      `json:"over_limit"`
	Slot        string    `json:"slot"`
	SlotTitle   string    `json:"slot_title"`
	Protein     float64   `json:"protein_g"`
	ProteinGoal float64   `json:"protein_goal_g"`
}

// Event is emitted whenever the day or the wallet changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Data      any       `json:"data,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastTickAt      time.Time `json:"last_tick_at"`
	TickIntervalSec int       `json:"tick_interval_sec"`
	TickCount       int64     `json:"tick_count"`
	DataDir         string    `json:"data_dir"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	limiter *rate.Limiter

	// appMu serializes every engine call; the engines are single-threaded.
	appMu sync.Mutex
	app   *app.App

	mu          sync.RWMutex
	startedAt   time.Time
	lastTickAt  time.Time
	tickCount   int64
	day         string
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	syncReq chan struct{}
}

// New returns a new daemon service over a loaded app.
func New(a *app.App, cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MutationsPerSec <= 0 {
		cfg.MutationsPerSec = 5
	}

	s := &Service{
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.MutationsPerSec), int(cfg.MutationsPerSec)*2),
		app:       a,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
		syncReq:   make(chan struct{}, 1),
	}
	s.day = a.Today()
	s.snapshot = s.capture()
	return s
}

// Run starts HTTP endpoints and the day ticker until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go s.syncLoop(ctx)
	s.publish(EventSnapshot, s.refresh(), nil)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.tick(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// tick publishes day_rollover when the calendar day changed since the last
// tick and sends the morning reminders.
func (s *Service) tick(ctx context.Context) {
	s.appMu.Lock()
	today := s.app.Today()
	s.appMu.Unlock()

	s.mu.Lock()
	prev := s.day
	s.day = today
	s.lastTickAt = time.Now()
	s.tickCount++
	s.mu.Unlock()

	snap := s.refresh()
	if prev == today {
		return
	}
	logger.FromContext(ctx).Info("day rollover", "from", prev, "to", today)
	s.publish(EventDayRollover, snap, map[string]string{"from": prev, "to": today})

	s.appMu.Lock()
	s.app.Remind(ctx)
	s.appMu.Unlock()
}

// requestSync asks the sync worker for a push. Requests made while one is
// already queued collapse into it.
func (s *Service) requestSync() {
	select {
	case s.syncReq <- struct{}{}:
	default:
	}
}

func (s *Service) syncLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.syncReq:
			s.syncOnce(ctx)
		}
	}
}

// syncOnce pushes a frozen copy of the app to the mirror. appMu is held
// only while state is copied out and back, never across the network.
func (s *Service) syncOnce(ctx context.Context) mirror.Result {
	s.appMu.Lock()
	sess := s.app.Sync.Session()
	if !s.app.Config.Sync.AutoSync || !sess.Enabled() {
		s.appMu.Unlock()
		return mirror.Result{Message: "auto sync is off"}
	}
	frozen := s.app.FreezeForSync()
	s.appMu.Unlock()

	r := mirror.NewSyncer(sess, frozen).SyncAll(ctx)

	s.appMu.Lock()
	s.app.ThawSynced(frozen)
	s.appMu.Unlock()

	if !r.Success {
		logger.FromContext(ctx).Warn("auto sync failed", "message", r.Message)
	}
	return r
}

// capture reads the engines. The caller must hold appMu or be the only user.
func (s *Service) capture() Snapshot {
	b := s.app.Budget.Snapshot()
	day := s.app.Schedule.Today()
	return Snapshot{
		At:          time.Now(),
		Today:       b.Today,
		Balance:     b.Balance,
		MonthEnd:    b.MonthEnd,
		DaysLeft:    b.DaysLeft,
		DailyLimit:  b.DailyLimit,
		Spent:       b.Spent,
		Remaining:   b.Remaining,
		OverLimit:   b.OverLimit,
		Slot:        day.Slot.Key,
		SlotTitle:   day.Slot.Title,
		Protein:     s.app.Nutrition.ProteinTotal(b.Today),
		ProteinGoal: s.app.Nutrition.ProteinGoal(),
	}
}

// refresh recaptures and stores the snapshot.
func (s *Service) refresh() Snapshot {
	s.appMu.Lock()
	snap := s.capture()
	s.appMu.Unlock()

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return snap
}

func (s *Service) publish(typ string, snap Snapshot, data any) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Snapshot:  snap,
		Data:      data,
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastTickAt:      s.lastTickAt,
		TickIntervalSec: int(s.cfg.Interval.Seconds()),
		TickCount:       s.tickCount,
		DataDir:         s.cfg.DataDir,
		Summary:         s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
