package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

func TestProgressBarClamps(t *testing.T) {
	out := ProgressBar(1.7, 20)
	if !strings.Contains(out, "100%") {
		t.Errorf("over-full bar should read 100%%: %q", out)
	}
	if got := lipgloss.Width(ProgressBar(-1, 20)); got != 23 {
		t.Errorf("width = %d, want 23", got)
	}
}

func TestBudgetBarShowsUncappedPercent(t *testing.T) {
	u := model.CategoryUsage{
		Category: model.BudgetCategory{Name: "Entertainment", Spent: decimal.NewFromInt(210), Limit: decimal.NewFromInt(200)},
		Ratio:    decimal.RequireFromString("1.05"),
		Status:   model.StatusOverBudget,
	}
	out := BudgetBar(u, 14, 20)
	if !strings.Contains(out, "105%") {
		t.Errorf("budget bar should show 105%%: %q", out)
	}
	if !strings.Contains(out, "Over Budget") {
		t.Errorf("budget bar should show the status: %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Transportation", 8); got != "Transpo…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Food", 8); got != "Food" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Food", 0); got != "" {
		t.Errorf("truncate = %q", got)
	}
}
