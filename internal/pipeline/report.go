package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/model"
)

// Settings are the validated numeric knobs taken from the config file.
type Settings struct {
	Thresholds     Thresholds
	Bands          Bands
	DefaultMonthly decimal.Decimal
	Budget         config.BudgetConfig
}

// DefaultSettings matches config.DefaultConfig.
func DefaultSettings() Settings {
	return Settings{
		Thresholds:     DefaultThresholds(),
		Bands:          DefaultBands(),
		DefaultMonthly: decimal.NewFromInt(150),
	}
}

// SettingsFromConfig validates the [budget] and [goals] sections.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	th, bands, err := ThresholdsFromConfig(cfg.Budget)
	if err != nil {
		return Settings{}, err
	}
	monthly := decimal.NewFromFloat(cfg.Goals.MonthlyContribution)
	if !monthly.IsPositive() {
		return Settings{}, invalid("goals.monthly_contribution", "must be positive, got %s", monthly)
	}
	return Settings{
		Thresholds:     th,
		Bands:          bands,
		DefaultMonthly: monthly,
		Budget:         cfg.Budget,
	}, nil
}

// ApplyOverrides returns a copy of categories with configured limit
// overrides substituted.
func ApplyOverrides(categories []model.BudgetCategory, b config.BudgetConfig) []model.BudgetCategory {
	out := make([]model.BudgetCategory, len(categories))
	copy(out, categories)
	for i := range out {
		if limit, ok := b.LookupLimit(out[i].Name); ok {
			out[i].Limit = limit
		}
	}
	return out
}

// Report is everything the CLI, TUI and daemon display for one ledger.
type Report struct {
	Ledger    model.Ledger
	Budget    model.BudgetSummary
	HasBudget bool
	Goals     []model.GoalProjection
	Overview  model.Overview
}

// BuildReport applies overrides and computes the budget summary, goal
// projections and overview. A ledger without categories yields a report
// with HasBudget false; any invalid category or goal is an error.
func BuildReport(ledger model.Ledger, s Settings) (Report, error) {
	ledger.Categories = ApplyOverrides(ledger.Categories, s.Budget)

	r := Report{Ledger: ledger}
	if len(ledger.Categories) > 0 {
		summary, err := SummarizeBudget(ledger.Categories, s.Thresholds, s.Bands)
		if err != nil {
			return Report{}, err
		}
		r.Budget = summary
		r.HasBudget = true
	}

	goals, err := ProjectGoals(ledger.Goals, s.DefaultMonthly)
	if err != nil {
		return Report{}, err
	}
	r.Goals = goals
	r.Overview = BuildOverview(ledger, s.Bands)
	return r, nil
}
