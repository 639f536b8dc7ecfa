package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

var (
	tierAlmost  = decimal.RequireFromString("0.80")
	tierHalfway = decimal.RequireFromString("0.50")
	tierStarted = decimal.RequireFromString("0.25")
	one         = decimal.NewFromInt(1)
)

// ProjectGoal computes progress and months to completion for a goal saving
// a fixed amount each month.
func ProjectGoal(current, target, monthly decimal.Decimal) (model.GoalProjection, error) {
	if !target.IsPositive() {
		return model.GoalProjection{}, invalid("target", "must be positive, got %s", target)
	}
	if !monthly.IsPositive() {
		return model.GoalProjection{}, invalid("monthly_contribution", "must be positive, got %s", monthly)
	}
	if current.IsNegative() {
		return model.GoalProjection{}, invalid("current", "must not be negative, got %s", current)
	}

	raw := current.Div(target)
	p := model.GoalProjection{
		Goal:          model.SavingsGoal{Current: current, Target: target, MonthlyContribution: monthly},
		RawRatio:      raw,
		ProgressRatio: decimal.Min(raw, one),
		Contribution:  monthly,
		Exceeded:      current.GreaterThan(target),
	}

	remaining := target.Sub(current)
	if remaining.IsPositive() {
		p.Remaining = remaining
		p.MonthsRemaining = int(remaining.Div(monthly).Ceil().IntPart())
		p.MonthlyPace = remaining.Div(decimal.NewFromInt(int64(p.MonthsRemaining))).Ceil()
	}

	p.Tier = tierFor(p.ProgressRatio)
	return p, nil
}

func tierFor(ratio decimal.Decimal) model.GoalTier {
	switch {
	case ratio.GreaterThanOrEqual(tierAlmost):
		return model.TierAlmost
	case ratio.GreaterThanOrEqual(tierHalfway):
		return model.TierHalfway
	case ratio.GreaterThanOrEqual(tierStarted):
		return model.TierStarted
	default:
		return model.TierEarly
	}
}

// ProjectGoals projects every goal, using each goal's own contribution when
// set and defaultMonthly when it is zero. A negative contribution is an error.
func ProjectGoals(goals []model.SavingsGoal, defaultMonthly decimal.Decimal) ([]model.GoalProjection, error) {
	out := make([]model.GoalProjection, 0, len(goals))
	seen := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		if g.Name == "" {
			return nil, invalid("goals.name", "must not be empty")
		}
		if _, dup := seen[g.Name]; dup {
			return nil, invalid(fmt.Sprintf("goals[%s]", g.Name), "duplicate goal name")
		}
		seen[g.Name] = struct{}{}

		monthly := g.MonthlyContribution
		switch {
		case monthly.IsZero():
			monthly = defaultMonthly
		case monthly.IsNegative():
			return nil, invalid(fmt.Sprintf("goals[%s].monthly_contribution", g.Name),
				"must be positive, got %s", monthly)
		}
		p, err := ProjectGoal(g.Current, g.Target, monthly)
		if err != nil {
			return nil, fmt.Errorf("goal %q: %w", g.Name, err)
		}
		p.Goal = g
		out = append(out, p)
	}
	return out, nil
}
