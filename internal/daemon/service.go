// Package daemon provides the long-running background budget monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/store"
)

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventStatusChange = "status_change"
	EventBandChange   = "band_change"
	EventGoalReached  = "goal_reached"
)

// Config controls the daemon runtime behavior.
type Config struct {
	LedgerDir    string
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Settings     pipeline.Settings
}

// CategoryState is one category's position at poll time.
type CategoryState struct {
	Name   string          `json:"name"`
	Spent  decimal.Decimal `json:"spent"`
	Limit  decimal.Decimal `json:"limit"`
	Ratio  float64         `json:"ratio"`
	Status string          `json:"status"`
}

// GoalState is one goal's position at poll time.
type GoalState struct {
	Name            string  `json:"name"`
	Progress        float64 `json:"progress"`
	RawRatio        float64 `json:"raw_ratio"`
	MonthsRemaining int     `json:"months_remaining"`
	Reached         bool    `json:"reached"`
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At          time.Time       `json:"at"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	TotalLimit  decimal.Decimal `json:"total_limit"`
	Utilization float64         `json:"utilization"`
	Band        string          `json:"band"`
	OnTrack     int             `json:"on_track"`
	NearLimit   int             `json:"near_limit"`
	OverBudget  int             `json:"over_budget"`
	Categories  []CategoryState `json:"categories"`
	Goals       []GoalState     `json:"goals"`
}

// Change describes one transition between two snapshots.
type Change struct {
	Subject string `json:"subject"` // category or goal name; empty for the overall band
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
}

// Event is emitted on the first poll and whenever a status changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Change    *Change   `json:"change,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	LedgerDir       string    `json:"ledger_dir"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg  Config
	load func() (model.Ledger, error)

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	report      pipeline.Report
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Settings.DefaultMonthly.IsZero() {
		cfg.Settings = pipeline.DefaultSettings()
	}

	s := &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.load = s.loadLedger
	return s
}

// Handler returns the HTTP API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/summary", s.handleSummary)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	report, err := s.buildReport()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		slog.Error("daemon poll failed", "ledger_dir", s.cfg.LedgerDir, "err", err)
		return
	}

	now := time.Now()
	snap := snapshotFromReport(report, now)

	var events []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.report = report
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		events = append(events, Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		})
	} else {
		for _, tc := range diffSnapshots(prev, snap) {
			c := tc.change
			s.nextEventID++
			events = append(events, Event{
				ID:        s.nextEventID,
				Type:      tc.kind,
				Timestamp: now,
				Snapshot:  snap,
				Change:    &c,
			})
		}
	}
	s.mu.Unlock()

	for _, ev := range events {
		slog.Info("daemon event", "type", ev.Type, "id", ev.ID)
		s.publishEvent(ev)
	}
}

func (s *Service) buildReport() (pipeline.Report, error) {
	ledger, err := s.load()
	if err != nil {
		return pipeline.Report{}, err
	}
	return pipeline.BuildReport(ledger, s.cfg.Settings)
}

func (s *Service) loadLedger() (model.Ledger, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.LedgerDir, cache, nil)
			if loadErr == nil {
				return cr.Ledger, nil
			}
			if errors.Is(loadErr, pipeline.ErrInvalidConfiguration) {
				return model.Ledger{}, loadErr
			}
			slog.Warn("cached load failed, reparsing", "err", loadErr)
		}
	}

	result, err := pipeline.Load(s.cfg.LedgerDir, nil)
	if err != nil {
		return model.Ledger{}, err
	}
	return result.Ledger, nil
}

func snapshotFromReport(r pipeline.Report, at time.Time) Snapshot {
	snap := Snapshot{
		At:          at,
		TotalSpent:  r.Budget.TotalSpent,
		TotalLimit:  r.Budget.TotalLimit,
		Utilization: r.Budget.Utilization.InexactFloat64(),
		Band:        r.Budget.Band.String(),
		OnTrack:     r.Budget.OnTrack,
		NearLimit:   r.Budget.NearLimit,
		OverBudget:  r.Budget.OverBudget,
	}
	for _, u := range r.Budget.Categories {
		snap.Categories = append(snap.Categories, CategoryState{
			Name:   u.Category.Name,
			Spent:  u.Category.Spent,
			Limit:  u.Category.Limit,
			Ratio:  u.Ratio.InexactFloat64(),
			Status: u.Status.Key(),
		})
	}
	for _, g := range r.Goals {
		snap.Goals = append(snap.Goals, GoalState{
			Name:            g.Goal.Name,
			Progress:        g.ProgressRatio.InexactFloat64(),
			RawRatio:        g.RawRatio.InexactFloat64(),
			MonthsRemaining: g.MonthsRemaining,
			Reached:         g.Met(),
		})
	}
	return snap
}

type typedChange struct {
	kind   string
	change Change
}

// diffSnapshots lists category status changes, band changes and goals that
// crossed into reached. New categories count as a change from nothing.
func diffSnapshots(prev, curr Snapshot) []typedChange {
	var out []typedChange

	if prev.Band != curr.Band {
		out = append(out, typedChange{EventBandChange, Change{From: prev.Band, To: curr.Band}})
	}

	prevCats := make(map[string]string, len(prev.Categories))
	for _, c := range prev.Categories {
		prevCats[c.Name] = c.Status
	}
	for _, c := range curr.Categories {
		if from, ok := prevCats[c.Name]; !ok || from != c.Status {
			out = append(out, typedChange{EventStatusChange, Change{Subject: c.Name, From: from, To: c.Status}})
		}
	}

	prevGoals := make(map[string]bool, len(prev.Goals))
	for _, g := range prev.Goals {
		prevGoals[g.Name] = g.Reached
	}
	for _, g := range curr.Goals {
		if g.Reached && !prevGoals[g.Name] {
			out = append(out, typedChange{EventGoalReached, Change{Subject: g.Name, To: "reached"}})
		}
	}
	return out
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
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

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LedgerDir:       s.cfg.LedgerDir,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

// summaryView is the /v1/summary payload.
type summaryView struct {
	Overview model.Overview         `json:"overview"`
	Budget   model.BudgetSummary    `json:"budget"`
	Goals    []model.GoalProjection `json:"goals"`
	Notes    []model.Note           `json:"notes,omitempty"`
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSnapshot
	r := s.report
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summaryView{
		Overview: r.Overview,
		Budget:   r.Budget,
		Goals:    r.Goals,
		Notes:    r.Ledger.Notes,
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
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

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
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
