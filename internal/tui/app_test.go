package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testLedger() model.Ledger {
	day := func(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }
	return model.Ledger{
		HasAccount: true,
		Account: model.Account{
			Balance:         d("2847.50"),
			MonthlyIncome:   d("3200"),
			MonthlyExpenses: d("2180.50"),
		},
		Categories: []model.BudgetCategory{
			{Name: "Food & Dining", Spent: d("420"), Limit: d("500")},
			{Name: "Entertainment", Spent: d("210"), Limit: d("200")},
			{Name: "Transportation", Spent: d("170"), Limit: d("200")},
			{Name: "Shopping", Spent: d("90"), Limit: d("300")},
		},
		Goals: []model.SavingsGoal{
			{Name: "Emergency Fund", Current: d("2500"), Target: d("5000"), MonthlyContribution: d("250")},
			{Name: "Vacation", Current: d("1200"), Target: d("1500")},
		},
		Transactions: []model.Transaction{
			{ID: "t1", Name: "Grocery run", Category: "Food & Dining", Amount: d("-84.20"), Date: day(6, 3), Status: model.TxCompleted},
			{ID: "t2", Name: "Movie night", Category: "Entertainment", Amount: d("-32"), Date: day(6, 5), Status: model.TxCompleted},
			{ID: "t3", Name: "Paycheck", Category: "Income", Amount: d("1600"), Date: day(6, 1), Status: model.TxCompleted, Recurring: true},
			{ID: "t4", Name: "Bus pass", Category: "Transportation", Amount: d("-60"), Date: day(6, 2), Status: model.TxPending},
		},
		Monthly: []model.MonthlyTotals{
			{Month: day(4, 1), Income: d("3200"), Spending: d("2400")},
			{Month: day(5, 1), Income: d("3200"), Spending: d("2600")},
			{Month: day(6, 1), Income: d("3200"), Spending: d("2180.50")},
		},
		Notes: []model.Note{
			{Section: model.NoteSpending, Text: "Dining out is up this month."},
			{Section: model.NoteBudget, Text: "Trim entertainment by $20."},
		},
	}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := App{
		width:     140,
		height:    45,
		loaded:    true,
		knobs:     pipeline.DefaultSettings(),
		ledgerDir: "/tmp/ledger",
	}
	a.setLoadResult(&pipeline.LoadResult{Ledger: testLedger(), TotalFiles: 1, ParsedFiles: 1}, nil)
	if a.err() != nil {
		t.Fatalf("unexpected report error: %v", a.err())
	}
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := a.Update(msg)
		a = next.(App)
	}
	return a
}

func TestTabShortcuts(t *testing.T) {
	a := newTestApp(t)
	steps := []struct {
		key  string
		want int
	}{
		{"b", tabBudget},
		{"g", tabGoals},
		{"t", tabTransactions},
		{"x", tabSettings},
		{"o", tabOverview},
	}
	for _, s := range steps {
		a = press(t, a, s.key)
		if a.activeTab != s.want {
			t.Fatalf("after %q activeTab = %d, want %d", s.key, a.activeTab, s.want)
		}
	}
}

func TestBudgetEnterFiltersTransactions(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "b", "enter")

	if a.activeTab != tabTransactions {
		t.Fatalf("activeTab = %d, want transactions", a.activeTab)
	}
	if a.txState.category != "Entertainment" {
		t.Fatalf("category filter = %q, want Entertainment (highest usage)", a.txState.category)
	}
	txs := a.visibleTransactions()
	if len(txs) != 1 || txs[0].Name != "Movie night" {
		t.Fatalf("visible = %+v", txs)
	}

	a = press(t, a, "esc")
	if a.txState.category != "" || len(a.visibleTransactions()) != 4 {
		t.Fatal("esc should clear the category filter")
	}
}

func TestBudgetSortCycles(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "b")
	if a.budget.sortKey() != "ratio" {
		t.Fatalf("default sort = %q", a.budget.sortKey())
	}
	a = press(t, a, "s")
	if got := a.sortedUsages()[0].Category.Name; got != "Food & Dining" {
		t.Fatalf("top by spent = %q, want Food & Dining", got)
	}
	a = press(t, a, "s")
	if got := a.sortedUsages()[0].Category.Name; got != "Entertainment" {
		t.Fatalf("top by name = %q, want Entertainment", got)
	}
}

func TestTransactionSearch(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "t", "/")
	if !a.txState.searching {
		t.Fatal("/ should start search mode")
	}
	a = press(t, a, "b", "u", "s", "enter")
	if a.txState.searching {
		t.Fatal("enter should leave search mode")
	}
	if a.txState.query != "bus" {
		t.Fatalf("query = %q, want bus", a.txState.query)
	}
	txs := a.visibleTransactions()
	if len(txs) != 1 || txs[0].ID != "t4" {
		t.Fatalf("visible = %+v", txs)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	a := newTestApp(t)
	txs := a.visibleTransactions()
	if txs[0].ID != "t2" || txs[len(txs)-1].ID != "t3" {
		t.Fatalf("order = %s..%s, want t2..t3", txs[0].ID, txs[len(txs)-1].ID)
	}
}

func TestNextCategoryCycles(t *testing.T) {
	cats := testLedger().Categories
	got := ""
	var seen []string
	for i := 0; i <= len(cats); i++ {
		got = nextCategory(got, cats)
		seen = append(seen, got)
	}
	if seen[0] != "Food & Dining" || seen[3] != "Shopping" || seen[4] != "" {
		t.Fatalf("cycle = %q", seen)
	}
	if nextCategory("Groceries", nil) != "" {
		t.Fatal("no categories should yield the empty filter")
	}
}

func TestInvalidLedgerShowsError(t *testing.T) {
	a := newTestApp(t)
	ledger := testLedger()
	ledger.Categories[0].Limit = decimal.Zero
	a.setLoadResult(&pipeline.LoadResult{Ledger: ledger, TotalFiles: 1}, nil)

	if !errors.Is(a.err(), pipeline.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", a.err())
	}
	if view := a.View(); !strings.Contains(view, "Cannot show budget") {
		t.Error("view should show the error card")
	}
}

func TestLoadErrorKeepsPreviousReport(t *testing.T) {
	a := newTestApp(t)
	next, _ := a.Update(RefreshDataMsg{Err: errors.New("disk gone")})
	a = next.(App)
	if a.err() == nil {
		t.Fatal("refresh error should be surfaced")
	}
	if len(a.report.Goals) != 2 {
		t.Fatal("previous report should be kept")
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp(t)
	want := map[int]string{
		tabOverview:     "Balance",
		tabBudget:       "Recommendations",
		tabGoals:        "Emergency Fund",
		tabTransactions: "Grocery run",
		tabSettings:     "Limit overrides",
	}
	for tab, text := range want {
		a.activeTab = tab
		view := a.View()
		if !strings.Contains(view, text) {
			t.Errorf("tab %d view missing %q", tab, text)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("narrow terminal should show a warning")
	}
}

func TestEmptyLedgerDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := App{width: 120, height: 40, loaded: true, knobs: pipeline.DefaultSettings(), ledgerDir: "/nowhere"}
	a.setLoadResult(&pipeline.LoadResult{}, nil)
	if !strings.Contains(a.View(), "No ledger files found") {
		t.Error("empty ledger dir should show a hint")
	}
}
