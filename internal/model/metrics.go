package model

import "github.com/shopspring/decimal"

// GoalTier buckets goal progress for colouring and encouragement.
type GoalTier int

// Goal tiers, lowest first.
const (
	TierEarly GoalTier = iota
	TierStarted
	TierHalfway
	TierAlmost
)

func (t GoalTier) String() string {
	switch t {
	case TierStarted:
		return "started"
	case TierHalfway:
		return "halfway"
	case TierAlmost:
		return "almost"
	default:
		return "early"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t GoalTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// GoalProjection holds progress and time-to-completion for one goal.
type GoalProjection struct {
	Goal SavingsGoal

	// ProgressRatio is clamped to 1 for display; RawRatio is not.
	ProgressRatio decimal.Decimal
	RawRatio      decimal.Decimal

	MonthsRemaining int
	Contribution    decimal.Decimal // monthly amount the projection assumed
	Remaining       decimal.Decimal // target - current, floored at zero
	MonthlyPace     decimal.Decimal // remaining spread over MonthsRemaining
	Exceeded        bool            // current > target
	Tier            GoalTier
}

// Met reports whether the goal has been reached.
func (p GoalProjection) Met() bool {
	return p.MonthsRemaining == 0
}

// Percent returns the clamped progress as a display percentage.
func (p GoalProjection) Percent() float64 {
	return p.ProgressRatio.InexactFloat64() * 100
}

// Overview holds the headline numbers for the dashboard's top row.
type Overview struct {
	Account           Account
	HasAccount        bool
	TotalSavings      decimal.Decimal // sum of goal balances
	GoalCount         int
	Net               decimal.Decimal // monthly income - monthly expenses
	BudgetUtilization decimal.Decimal
	Band              UsageBand
}
