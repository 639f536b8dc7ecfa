package model

import "github.com/shopspring/decimal"

// CategoryStatus classifies how close a category is to its limit.
type CategoryStatus int

// Category statuses, ordered by severity.
const (
	StatusOnTrack CategoryStatus = iota
	StatusNearLimit
	StatusOverBudget
)

func (s CategoryStatus) String() string {
	switch s {
	case StatusOnTrack:
		return "On Track"
	case StatusNearLimit:
		return "Close to Limit"
	case StatusOverBudget:
		return "Over Budget"
	default:
		return "Unknown"
	}
}

// Key returns a stable machine-readable name, used in JSON and the cache.
func (s CategoryStatus) Key() string {
	switch s {
	case StatusOnTrack:
		return "on_track"
	case StatusNearLimit:
		return "near_limit"
	case StatusOverBudget:
		return "over_budget"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CategoryStatus) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UsageBand grades the overall budget utilization.
type UsageBand int

// Overall usage bands.
const (
	BandNormal UsageBand = iota
	BandElevated
	BandCritical
)

func (b UsageBand) String() string {
	switch b {
	case BandElevated:
		return "elevated"
	case BandCritical:
		return "critical"
	default:
		return "normal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b UsageBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// CategoryUsage is a category with its computed utilization and status.
type CategoryUsage struct {
	Category  BudgetCategory
	Ratio     decimal.Decimal
	Status    CategoryStatus
	Remaining decimal.Decimal // limit - spent, floored at zero
	Overage   decimal.Decimal // spent - limit when over, else zero
}

// Percent returns the utilization as a display percentage.
func (u CategoryUsage) Percent() float64 {
	return u.Ratio.InexactFloat64() * 100
}

// BudgetSummary aggregates every category in a ledger.
type BudgetSummary struct {
	Categories  []CategoryUsage
	TotalSpent  decimal.Decimal
	TotalLimit  decimal.Decimal
	Utilization decimal.Decimal
	Band        UsageBand

	OnTrack    int
	NearLimit  int
	OverBudget int
}

// Remaining is the unspent part of the total budget, floored at zero.
func (s BudgetSummary) Remaining() decimal.Decimal {
	r := s.TotalLimit.Sub(s.TotalSpent)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
