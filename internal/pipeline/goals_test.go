package pipeline

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/pennywise/internal/model"
)

func TestProjectGoal_EmergencyFund(t *testing.T) {
	p, err := ProjectGoal(d("1200"), d("5000"), d("150"))
	if err != nil {
		t.Fatalf("ProjectGoal: %v", err)
	}
	if !p.ProgressRatio.Equal(d("0.24")) {
		t.Errorf("ProgressRatio = %s, want 0.24", p.ProgressRatio)
	}
	if p.MonthsRemaining != 26 {
		t.Errorf("MonthsRemaining = %d, want 26", p.MonthsRemaining)
	}
	if !p.Remaining.Equal(d("3800")) {
		t.Errorf("Remaining = %s, want 3800", p.Remaining)
	}
	// 3800 / 26 = 146.15..., rounded up.
	if !p.MonthlyPace.Equal(d("147")) {
		t.Errorf("MonthlyPace = %s, want 147", p.MonthlyPace)
	}
	if p.Tier != model.TierEarly {
		t.Errorf("Tier = %v, want early", p.Tier)
	}
}

func TestProjectGoal_Reached(t *testing.T) {
	p, err := ProjectGoal(d("5000"), d("5000"), d("150"))
	if err != nil {
		t.Fatalf("ProjectGoal: %v", err)
	}
	if p.MonthsRemaining != 0 || !p.Met() {
		t.Errorf("MonthsRemaining = %d, want 0", p.MonthsRemaining)
	}
	if !p.MonthlyPace.IsZero() {
		t.Errorf("MonthlyPace = %s, want 0", p.MonthlyPace)
	}
	if p.Exceeded {
		t.Error("exactly reached goal should not be Exceeded")
	}
	if p.Tier != model.TierAlmost {
		t.Errorf("Tier = %v, want almost", p.Tier)
	}
}

func TestProjectGoal_Overshoot(t *testing.T) {
	p, err := ProjectGoal(d("6000"), d("5000"), d("150"))
	if err != nil {
		t.Fatalf("ProjectGoal: %v", err)
	}
	if !p.ProgressRatio.Equal(d("1")) {
		t.Errorf("ProgressRatio = %s, want clamped 1", p.ProgressRatio)
	}
	if !p.RawRatio.Equal(d("1.2")) {
		t.Errorf("RawRatio = %s, want 1.2", p.RawRatio)
	}
	if !p.Exceeded || p.MonthsRemaining != 0 || !p.Remaining.IsZero() {
		t.Errorf("overshoot projection = %+v", p)
	}
}

func TestProjectGoal_Invalid(t *testing.T) {
	tests := []struct {
		name                     string
		current, target, monthly string
	}{
		{"zero target", "100", "0", "150"},
		{"negative target", "100", "-5", "150"},
		{"zero monthly", "100", "1000", "0"},
		{"negative current", "-1", "1000", "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectGoal(d(tt.current), d(tt.target), d(tt.monthly))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestProjectGoal_Tiers(t *testing.T) {
	tests := []struct {
		current string
		want    model.GoalTier
	}{
		{"240", model.TierEarly},
		{"250", model.TierStarted},
		{"570", model.TierHalfway},
		{"800", model.TierAlmost},
	}
	for _, tt := range tests {
		p, err := ProjectGoal(d(tt.current), d("1000"), d("150"))
		if err != nil {
			t.Fatal(err)
		}
		if p.Tier != tt.want {
			t.Errorf("current %s: Tier = %v, want %v", tt.current, p.Tier, tt.want)
		}
	}
}

func TestProjectGoals_UsesOverrideOrDefault(t *testing.T) {
	goals := []model.SavingsGoal{
		{Name: "Emergency Fund", Current: d("1200"), Target: d("5000")},
		{Name: "Spring Break Trip", Current: d("850"), Target: d("1500"), MonthlyContribution: d("325")},
	}
	ps, err := ProjectGoals(goals, decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("ProjectGoals: %v", err)
	}
	if ps[0].MonthsRemaining != 26 || !ps[0].Contribution.Equal(d("150")) {
		t.Errorf("Emergency Fund = %d months at %s", ps[0].MonthsRemaining, ps[0].Contribution)
	}
	if ps[1].MonthsRemaining != 2 || !ps[1].Contribution.Equal(d("325")) {
		t.Errorf("Spring Break = %d months at %s", ps[1].MonthsRemaining, ps[1].Contribution)
	}
	if ps[1].Goal.Name != "Spring Break Trip" {
		t.Errorf("Goal.Name = %q", ps[1].Goal.Name)
	}
}

func TestProjectGoals_Duplicate(t *testing.T) {
	goals := []model.SavingsGoal{
		{Name: "Laptop", Current: d("1"), Target: d("10")},
		{Name: "Laptop", Current: d("2"), Target: d("10")},
	}
	if _, err := ProjectGoals(goals, d("150")); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestProjectGoals_NegativeContribution(t *testing.T) {
	goals := []model.SavingsGoal{
		{Name: "Laptop", Current: d("100"), Target: d("1000"), MonthlyContribution: d("-50")},
	}
	_, err := ProjectGoals(goals, d("150"))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "goals[Laptop].monthly_contribution" {
		t.Errorf("err = %#v, want ConfigError on goals[Laptop].monthly_contribution", err)
	}
}
