package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/model"
)

// Thresholds are the utilization ratios at which a category changes status.
type Thresholds struct {
	NearLimit  decimal.Decimal
	OverBudget decimal.Decimal
}

// DefaultThresholds returns 85% for near-limit and 100% for over-budget.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NearLimit:  decimal.RequireFromString("0.85"),
		OverBudget: decimal.NewFromInt(1),
	}
}

// Validate checks 0 < NearLimit <= OverBudget.
func (t Thresholds) Validate() error {
	if !t.NearLimit.IsPositive() {
		return invalid("near_limit_ratio", "must be positive, got %s", t.NearLimit)
	}
	if t.OverBudget.LessThan(t.NearLimit) {
		return invalid("over_budget_ratio", "%s is below near_limit_ratio %s", t.OverBudget, t.NearLimit)
	}
	return nil
}

// Bands are the overall utilization ratios above which the whole budget is
// flagged as elevated or critical.
type Bands struct {
	Elevated decimal.Decimal
	Critical decimal.Decimal
}

// DefaultBands returns 75% elevated and 90% critical.
func DefaultBands() Bands {
	return Bands{
		Elevated: decimal.RequireFromString("0.75"),
		Critical: decimal.RequireFromString("0.90"),
	}
}

// Validate checks 0 < Elevated <= Critical.
func (b Bands) Validate() error {
	if !b.Elevated.IsPositive() {
		return invalid("elevated_overall_ratio", "must be positive, got %s", b.Elevated)
	}
	if b.Critical.LessThan(b.Elevated) {
		return invalid("critical_overall_ratio", "%s is below elevated_overall_ratio %s", b.Critical, b.Elevated)
	}
	return nil
}

// ThresholdsFromConfig builds validated thresholds and bands from the
// [budget] section.
func ThresholdsFromConfig(cfg config.BudgetConfig) (Thresholds, Bands, error) {
	th := Thresholds{
		NearLimit:  decimal.NewFromFloat(cfg.NearLimitRatio),
		OverBudget: decimal.NewFromFloat(cfg.OverBudgetRatio),
	}
	if err := th.Validate(); err != nil {
		return Thresholds{}, Bands{}, err
	}
	bands := Bands{
		Elevated: decimal.NewFromFloat(cfg.ElevatedOverallRatio),
		Critical: decimal.NewFromFloat(cfg.CriticalOverallRatio),
	}
	if err := bands.Validate(); err != nil {
		return Thresholds{}, Bands{}, err
	}
	return th, bands, nil
}

// UtilizationRatio returns spent/limit. A non-positive limit is an error.
func UtilizationRatio(spent, limit decimal.Decimal) (decimal.Decimal, error) {
	if !limit.IsPositive() {
		return decimal.Zero, invalid("limit", "must be positive, got %s", limit)
	}
	return spent.Div(limit), nil
}

// Classify maps a category's spending against its limit to a status.
// The near-limit band includes both of its boundaries.
func Classify(spent, limit decimal.Decimal, th Thresholds) (model.CategoryStatus, error) {
	if err := th.Validate(); err != nil {
		return model.StatusOnTrack, err
	}
	ratio, err := UtilizationRatio(spent, limit)
	if err != nil {
		return model.StatusOnTrack, err
	}
	return classifyRatio(ratio, th), nil
}

func classifyRatio(ratio decimal.Decimal, th Thresholds) model.CategoryStatus {
	switch {
	case ratio.LessThan(th.NearLimit):
		return model.StatusOnTrack
	case ratio.LessThanOrEqual(th.OverBudget):
		return model.StatusNearLimit
	default:
		return model.StatusOverBudget
	}
}

// OverallBand grades total utilization. Both bands are exclusive lower
// bounds: exactly 0.90 is elevated, not critical.
func OverallBand(utilization decimal.Decimal, b Bands) model.UsageBand {
	switch {
	case utilization.GreaterThan(b.Critical):
		return model.BandCritical
	case utilization.GreaterThan(b.Elevated):
		return model.BandElevated
	default:
		return model.BandNormal
	}
}
