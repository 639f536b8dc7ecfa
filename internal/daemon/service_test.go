package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

func testLedger(entertainmentSpent, fundCurrent int64) model.Ledger {
	cat := func(name string, spent, limit int64) model.BudgetCategory {
		return model.BudgetCategory{Name: name, Spent: decimal.NewFromInt(spent), Limit: decimal.NewFromInt(limit)}
	}
	return model.Ledger{
		Categories: []model.BudgetCategory{
			cat("Food & Dining", 650, 800),
			cat("Entertainment", entertainmentSpent, 400),
		},
		Goals: []model.SavingsGoal{{
			Name:    "Emergency Fund",
			Current: decimal.NewFromInt(fundCurrent),
			Target:  decimal.NewFromInt(5000),
		}},
	}
}

func newTestService(ledgers ...model.Ledger) *Service {
	s := New(Config{LedgerDir: "unused", Interval: 10 * time.Second})
	i := 0
	s.load = func() (model.Ledger, error) {
		l := ledgers[i]
		if i < len(ledgers)-1 {
			i++
		}
		return l, nil
	}
	return s
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Band: "normal",
		Categories: []CategoryState{
			{Name: "Food & Dining", Status: "on_track"},
			{Name: "Entertainment", Status: "near_limit"},
		},
		Goals: []GoalState{{Name: "Emergency Fund"}},
	}
	curr := Snapshot{
		Band: "elevated",
		Categories: []CategoryState{
			{Name: "Food & Dining", Status: "on_track"},
			{Name: "Entertainment", Status: "over_budget"},
			{Name: "Books", Status: "on_track"},
		},
		Goals: []GoalState{{Name: "Emergency Fund", Reached: true}},
	}

	changes := diffSnapshots(prev, curr)
	if len(changes) != 4 {
		t.Fatalf("changes = %d, want 4: %+v", len(changes), changes)
	}
	if changes[0].kind != EventBandChange || changes[0].change.To != "elevated" {
		t.Errorf("changes[0] = %+v, want band change to elevated", changes[0])
	}
	ent := changes[1].change
	if changes[1].kind != EventStatusChange || ent.Subject != "Entertainment" || ent.From != "near_limit" || ent.To != "over_budget" {
		t.Errorf("changes[1] = %+v", changes[1])
	}
	if changes[2].change.Subject != "Books" || changes[2].change.From != "" {
		t.Errorf("changes[2] = %+v, want new Books category", changes[2])
	}
	if changes[3].kind != EventGoalReached {
		t.Errorf("changes[3] = %+v, want goal_reached", changes[3])
	}

	if again := diffSnapshots(curr, curr); len(again) != 0 {
		t.Errorf("identical snapshots produced %d changes", len(again))
	}
}

func TestPollOnceEmitsStatusChange(t *testing.T) {
	s := newTestService(testLedger(300, 1200), testLedger(420, 1200), testLedger(420, 5000))

	s.pollOnce()
	s.pollOnce()
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var types []string
	for _, ev := range s.events {
		types = append(types, ev.Type)
	}
	want := []string{EventSnapshot, EventStatusChange, EventGoalReached}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	if c := s.events[1].Change; c == nil || c.Subject != "Entertainment" || c.To != "over_budget" {
		t.Fatalf("status change = %+v", s.events[1].Change)
	}
	if s.pollCount != 3 {
		t.Errorf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollOnceRecordsError(t *testing.T) {
	bad := testLedger(300, 1200)
	bad.Categories[0].Limit = decimal.Zero
	s := newTestService(bad)

	s.pollOnce()

	st := s.snapshotStatus()
	if !strings.Contains(st.LastError, "invalid configuration") {
		t.Fatalf("LastError = %q, want invalid configuration", st.LastError)
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		LedgerDir:    ".",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	s := newTestService(testLedger(420, 1200))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/summary")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("summary before poll: HTTP %d, want 503", resp.StatusCode)
	}

	s.pollOnce()

	resp, err = http.Get(srv.URL + "/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if st.PollCount != 1 || len(st.Summary.Categories) != 2 {
		t.Fatalf("status = %+v", st)
	}
	if st.Summary.OverBudget != 1 {
		t.Errorf("OverBudget = %d, want 1", st.Summary.OverBudget)
	}
	if !st.Summary.TotalLimit.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("TotalLimit = %s, want 1200", st.Summary.TotalLimit)
	}

	resp, err = http.Get(srv.URL + "/v1/summary")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"overview", "budget", "goals"} {
		if _, ok := body[key]; !ok {
			t.Errorf("summary missing %q", key)
		}
	}
}
