package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/workout"
)

// Router builds the HTTP API. base carries the logger handlers use.
func (s *Service) Router(base context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withLogger(base))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Get("/overload/{exercise}", s.handleOverload)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/transactions", s.handleAddTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)
			r.Post("/schedule/swap", s.handleSwap)
		})
	})
	return r
}

func withLogger(base context.Context) func(http.Handler) http.Handler {
	l := logger.FromContext(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.ToContext(r.Context(), l)))
			l.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
		})
	}
}

func (s *Service) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			logger.FromContext(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.refresh()
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: EventSnapshot, Timestamp: time.Now(), Snapshot: s.status().Summary})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

type addRequest struct {
	Label  string            `json:"label"`
	Amount float64           `json:"amount"`
	Date   string            `json:"date,omitempty"`
	Type   string            `json:"type,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
}

type addResponse struct {
	Result      string             `json:"result"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
	Snapshot    Snapshot           `json:"snapshot"`
}

func (s *Service) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	typ := model.TxFood
	if req.Type != "" {
		typ = model.ParseTxType(req.Type)
	}

	ctx := r.Context()
	s.appMu.Lock()
	wasOver := s.app.Budget.Snapshot().OverLimit
	tx, res := s.app.Budget.AddTransaction(ctx, budget.Entry{
		Label:  req.Label,
		Amount: req.Amount,
		Date:   req.Date,
		Type:   typ,
		Meta:   req.Meta,
	})
	s.appMu.Unlock()

	if !res.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, addResponse{Result: res.String(), Snapshot: s.refresh()})
		return
	}
	s.requestSync()

	snap := s.refresh()
	s.publish(EventTransaction, snap, tx)
	if snap.OverLimit && !wasOver {
		s.publish(EventOverspend, snap, map[string]float64{"spent": snap.Spent, "limit": snap.DailyLimit})
	}
	writeJSON(w, http.StatusCreated, addResponse{Result: res.String(), Transaction: &tx, Snapshot: snap})
}

func (s *Service) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.appMu.Lock()
	ok := s.app.DeleteTransaction(id)
	s.appMu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	s.requestSync()
	s.publish(EventDeleted, s.refresh(), map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

type swapRequest struct {
	Key string `json:"key"`
}

func (s *Service) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.appMu.Lock()
	ok := s.app.Schedule.ApplySwap(req.Key)
	s.appMu.Unlock()

	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown day %q", req.Key))
		return
	}
	snap := s.refresh()
	s.publish(EventSwap, snap, map[string]string{"slot": snap.Slot})
	writeJSON(w, http.StatusOK, snap)
}

type overloadResponse struct {
	Exercise   string               `json:"exercise"`
	Suggestion *workout.Suggestion  `json:"suggestion,omitempty"`
	Last       *workout.Performance `json:"last,omitempty"`
}

func (s *Service) handleOverload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "exercise")

	s.appMu.Lock()
	sug, hasSug := s.app.Training.Suggest(name)
	last, hasLast := s.app.Training.Last(name)
	s.appMu.Unlock()

	if !hasLast {
		writeError(w, http.StatusNotFound, "no history for exercise")
		return
	}
	resp := overloadResponse{Exercise: name, Last: &last}
	if hasSug {
		resp.Suggestion = &sug
	}
	writeJSON(w, http.StatusOK, resp)
}
