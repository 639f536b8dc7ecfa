package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

func sampleCategories() []model.BudgetCategory {
	cat := func(name string, spent, limit int64) model.BudgetCategory {
		return model.BudgetCategory{Name: name, Spent: decimal.NewFromInt(spent), Limit: decimal.NewFromInt(limit)}
	}
	return []model.BudgetCategory{
		cat("Food & Dining", 650, 800),
		cat("Transportation", 280, 300),
		cat("Entertainment", 420, 400),
		cat("Books & Supplies", 320, 500),
		cat("Personal Care", 150, 200),
	}
}

func TestTotalUtilization(t *testing.T) {
	got, err := TotalUtilization(sampleCategories())
	if err != nil {
		t.Fatalf("TotalUtilization: %v", err)
	}
	if s := got.Round(4).String(); s != "0.8273" {
		t.Errorf("TotalUtilization = %s, want 0.8273", s)
	}
}

func TestTotalUtilization_Degenerate(t *testing.T) {
	if _, err := TotalUtilization(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("empty list: err = %v", err)
	}
	zero := []model.BudgetCategory{{Name: "Books", Spent: d("5"), Limit: decimal.Zero}}
	if _, err := TotalUtilization(zero); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero total limit: err = %v", err)
	}
}

func TestSummarizeBudget(t *testing.T) {
	s, err := SummarizeBudget(sampleCategories(), DefaultThresholds(), DefaultBands())
	if err != nil {
		t.Fatalf("SummarizeBudget: %v", err)
	}

	if !s.TotalSpent.Equal(d("1820")) || !s.TotalLimit.Equal(d("2200")) {
		t.Errorf("totals = %s/%s, want 1820/2200", s.TotalSpent, s.TotalLimit)
	}
	if !s.Remaining().Equal(d("380")) {
		t.Errorf("Remaining = %s, want 380", s.Remaining())
	}
	if s.Band != model.BandElevated {
		t.Errorf("Band = %v, want elevated", s.Band)
	}
	if s.OnTrack != 3 || s.NearLimit != 1 || s.OverBudget != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/1/1", s.OnTrack, s.NearLimit, s.OverBudget)
	}

	ent := s.Categories[2]
	if ent.Category.Name != "Entertainment" || ent.Status != model.StatusOverBudget {
		t.Fatalf("categories[2] = %s %v", ent.Category.Name, ent.Status)
	}
	if !ent.Overage.Equal(d("20")) || !ent.Remaining.IsZero() {
		t.Errorf("Entertainment overage/remaining = %s/%s, want 20/0", ent.Overage, ent.Remaining)
	}
	if !ent.Ratio.Equal(d("1.05")) {
		t.Errorf("Entertainment ratio = %s, want 1.05", ent.Ratio)
	}
	if !s.Categories[0].Remaining.Equal(d("150")) {
		t.Errorf("Food remaining = %s, want 150", s.Categories[0].Remaining)
	}
}

func TestSummarizeBudget_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]model.BudgetCategory)
	}{
		{"zero limit", func(c []model.BudgetCategory) { c[1].Limit = decimal.Zero }},
		{"negative spent", func(c []model.BudgetCategory) { c[0].Spent = d("-1") }},
		{"empty name", func(c []model.BudgetCategory) { c[3].Name = "  " }},
		{"duplicate name", func(c []model.BudgetCategory) { c[4].Name = "Transportation" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := sampleCategories()
			tt.mutate(cats)
			_, err := SummarizeBudget(cats, DefaultThresholds(), DefaultBands())
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestSortUsageBy(t *testing.T) {
	s, err := SummarizeBudget(sampleCategories(), DefaultThresholds(), DefaultBands())
	if err != nil {
		t.Fatal(err)
	}
	byRatio := SortUsageBy(s.Categories, "ratio")
	if byRatio[0].Category.Name != "Entertainment" {
		t.Errorf("highest ratio = %s, want Entertainment", byRatio[0].Category.Name)
	}
	byName := SortUsageBy(s.Categories, "name")
	if byName[0].Category.Name != "Books & Supplies" {
		t.Errorf("first by name = %s, want Books & Supplies", byName[0].Category.Name)
	}
	if s.Categories[0].Category.Name != "Food & Dining" {
		t.Error("SortUsageBy must not reorder its input")
	}
}

func TestBuildOverview(t *testing.T) {
	ledger := model.Ledger{
		HasAccount: true,
		Account: model.Account{
			Balance:         d("2847.50"),
			MonthlyIncome:   d("3200"),
			MonthlyExpenses: d("2180.50"),
		},
		Categories: sampleCategories(),
		Goals: []model.SavingsGoal{
			{Name: "Emergency Fund", Current: d("1200"), Target: d("5000")},
			{Name: "Spring Break Trip", Current: d("850"), Target: d("1500")},
			{Name: "New Laptop", Current: d("320"), Target: d("1200")},
		},
	}
	ov := BuildOverview(ledger, DefaultBands())
	if !ov.TotalSavings.Equal(d("2370")) {
		t.Errorf("TotalSavings = %s, want 2370", ov.TotalSavings)
	}
	if ov.GoalCount != 3 {
		t.Errorf("GoalCount = %d, want 3", ov.GoalCount)
	}
	if !ov.Net.Equal(d("1019.50")) {
		t.Errorf("Net = %s, want 1019.5", ov.Net)
	}
	if ov.Band != model.BandElevated {
		t.Errorf("Band = %v, want elevated", ov.Band)
	}
}

func TestRecentTransactions(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2024, 6, n, 0, 0, 0, 0, time.UTC) }
	txs := []model.Transaction{
		{ID: "a", Date: day(10), Category: "Food & Dining"},
		{ID: "b", Date: day(14), Category: "Income"},
		{ID: "c", Date: day(12), Category: "food & dining"},
	}
	got := RecentTransactions(txs, 2)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("RecentTransactions = %+v", got)
	}
	if all := RecentTransactions(txs, 0); len(all) != 3 {
		t.Errorf("limit 0 returned %d, want 3", len(all))
	}
	if food := FilterTransactions(txs, "FOOD & DINING"); len(food) != 2 {
		t.Errorf("FilterTransactions = %d, want 2", len(food))
	}
}

func TestSortedMonths(t *testing.T) {
	m := func(mo time.Month) model.MonthlyTotals {
		return model.MonthlyTotals{Month: time.Date(2024, mo, 1, 0, 0, 0, 0, time.UTC)}
	}
	got := SortedMonths([]model.MonthlyTotals{m(time.March), m(time.January), m(time.February)})
	for i, want := range []time.Month{time.January, time.February, time.March} {
		if got[i].Month.Month() != want {
			t.Errorf("got[%d] = %v, want %v", i, got[i].Month.Month(), want)
		}
	}
}
