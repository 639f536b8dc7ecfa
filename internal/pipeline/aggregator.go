// Package pipeline loads ledgers and computes budget and goal metrics.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

// TotalUtilization returns total spent over total limit across categories.
func TotalUtilization(categories []model.BudgetCategory) (decimal.Decimal, error) {
	if len(categories) == 0 {
		return decimal.Zero, invalid("categories", "no budget categories")
	}

	var spent, limit decimal.Decimal
	for _, c := range categories {
		spent = spent.Add(c.Spent)
		limit = limit.Add(c.Limit)
	}
	if !limit.IsPositive() {
		return decimal.Zero, invalid("categories", "total limit must be positive, got %s", limit)
	}
	return spent.Div(limit), nil
}

// SummarizeBudget validates every category, classifies each one and
// computes totals. Categories keep their input order.
func SummarizeBudget(categories []model.BudgetCategory, th Thresholds, bands Bands) (model.BudgetSummary, error) {
	if err := th.Validate(); err != nil {
		return model.BudgetSummary{}, err
	}
	if err := bands.Validate(); err != nil {
		return model.BudgetSummary{}, err
	}
	if err := ValidateCategories(categories); err != nil {
		return model.BudgetSummary{}, err
	}

	var summary model.BudgetSummary
	summary.Categories = make([]model.CategoryUsage, 0, len(categories))

	for _, c := range categories {
		ratio := c.Spent.Div(c.Limit)
		u := model.CategoryUsage{
			Category: c,
			Ratio:    ratio,
			Status:   classifyRatio(ratio, th),
		}
		if diff := c.Limit.Sub(c.Spent); diff.IsNegative() {
			u.Overage = diff.Neg()
			u.Remaining = decimal.Zero
		} else {
			u.Remaining = diff
		}

		switch u.Status {
		case model.StatusOnTrack:
			summary.OnTrack++
		case model.StatusNearLimit:
			summary.NearLimit++
		case model.StatusOverBudget:
			summary.OverBudget++
		}

		summary.TotalSpent = summary.TotalSpent.Add(c.Spent)
		summary.TotalLimit = summary.TotalLimit.Add(c.Limit)
		summary.Categories = append(summary.Categories, u)
	}

	summary.Utilization = summary.TotalSpent.Div(summary.TotalLimit)
	summary.Band = OverallBand(summary.Utilization, bands)
	return summary, nil
}

// ValidateCategories checks that the list is non-empty and each category
// has a unique non-empty name, spent >= 0 and limit > 0.
func ValidateCategories(categories []model.BudgetCategory) error {
	if len(categories) == 0 {
		return invalid("categories", "no budget categories")
	}
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return invalid(fmt.Sprintf("categories[%d].name", i), "must not be empty")
		}
		if _, dup := seen[name]; dup {
			return invalid(fmt.Sprintf("categories[%s]", name), "duplicate category name")
		}
		seen[name] = struct{}{}

		if c.Spent.IsNegative() {
			return invalid(fmt.Sprintf("categories[%s].spent", name), "must not be negative, got %s", c.Spent)
		}
		if !c.Limit.IsPositive() {
			return invalid(fmt.Sprintf("categories[%s].limit", name), "must be positive, got %s", c.Limit)
		}
	}
	return nil
}

// SortUsageBy returns a copy of usages sorted by the given key: "ratio"
// (highest first), "spent" (highest first) or "name".
func SortUsageBy(usages []model.CategoryUsage, key string) []model.CategoryUsage {
	out := make([]model.CategoryUsage, len(usages))
	copy(out, usages)
	switch key {
	case "ratio":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Ratio.GreaterThan(out[j].Ratio)
		})
	case "spent":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Category.Spent.GreaterThan(out[j].Category.Spent)
		})
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Category.Name) < strings.ToLower(out[j].Category.Name)
		})
	}
	return out
}

// BuildOverview assembles the headline figures. Budget utilization is left
// zero when the ledger has no categories.
func BuildOverview(ledger model.Ledger, bands Bands) model.Overview {
	ov := model.Overview{
		Account:    ledger.Account,
		HasAccount: ledger.HasAccount,
		GoalCount:  len(ledger.Goals),
		Net:        ledger.Account.MonthlyIncome.Sub(ledger.Account.MonthlyExpenses),
	}
	for _, g := range ledger.Goals {
		ov.TotalSavings = ov.TotalSavings.Add(g.Current)
	}
	if util, err := TotalUtilization(ledger.Categories); err == nil {
		ov.BudgetUtilization = util
		ov.Band = OverallBand(util, bands)
	}
	return ov
}

// RecentTransactions returns up to limit transactions, newest first.
// A limit <= 0 returns all of them.
func RecentTransactions(txs []model.Transaction, limit int) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterTransactions keeps transactions whose category matches (case
// insensitive). An empty category keeps everything.
func FilterTransactions(txs []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txs
	}
	var out []model.Transaction
	for _, t := range txs {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out
}

// SortedMonths returns the monthly table oldest first.
func SortedMonths(rows []model.MonthlyTotals) []model.MonthlyTotals {
	out := make([]model.MonthlyTotals, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}
