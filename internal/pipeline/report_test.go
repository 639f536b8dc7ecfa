package pipeline

import (
	"errors"
	"testing"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/model"
)

func TestBuildReport_AppliesOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	limit := 450.0
	cfg.Budget.SetLimit("entertainment", &limit)

	s, err := SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("SettingsFromConfig: %v", err)
	}
	r, err := BuildReport(model.Ledger{Categories: sampleCategories()}, s)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	ent := r.Budget.Categories[2]
	if !ent.Category.Limit.Equal(d("450")) {
		t.Errorf("Entertainment limit = %s, want 450", ent.Category.Limit)
	}
	if ent.Status != model.StatusNearLimit {
		t.Errorf("Entertainment status = %v, want near limit", ent.Status)
	}
}

func TestBuildReport_NoCategories(t *testing.T) {
	r, err := BuildReport(model.Ledger{}, DefaultSettings())
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if r.HasBudget {
		t.Error("HasBudget = true for an empty ledger")
	}
}

func TestSettingsFromConfig_BadMonthly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Goals.MonthlyContribution = 0
	if _, err := SettingsFromConfig(cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}
