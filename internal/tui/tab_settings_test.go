package tui

import (
	"testing"

	"github.com/theirongolddev/pennywise/internal/config"
)

func TestApplySettingsField(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySettingsField(&cfg, settingsFieldNearLimit, "80%"); err != nil {
		t.Fatalf("near limit: %v", err)
	}
	if cfg.Budget.NearLimitRatio != 0.8 {
		t.Errorf("NearLimitRatio = %v, want 0.8", cfg.Budget.NearLimitRatio)
	}

	if err := applySettingsField(&cfg, settingsFieldMonthly, "200"); err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if cfg.Goals.MonthlyContribution != 200 {
		t.Errorf("MonthlyContribution = %v", cfg.Goals.MonthlyContribution)
	}

	if err := applySettingsField(&cfg, settingsFieldTheme, "tokyo-night"); err != nil {
		t.Fatalf("theme: %v", err)
	}
	if err := applySettingsField(&cfg, settingsFieldTheme, "neon"); err == nil {
		t.Error("unknown theme should be rejected")
	}

	if err := applySettingsField(&cfg, settingsFieldRefreshInterval, "5"); err == nil {
		t.Error("interval below 10s should be rejected")
	}
	if err := applySettingsField(&cfg, settingsFieldAutoRefresh, "maybe"); err == nil {
		t.Error("non-bool auto refresh should be rejected")
	}
}

func TestApplySettingsFieldLimitOverride(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySettingsField(&cfg, settingsFieldLimitOverride, "Entertainment = 250"); err != nil {
		t.Fatalf("set override: %v", err)
	}
	limit, ok := cfg.Budget.LookupLimit("entertainment")
	if !ok || limit.String() != "250" {
		t.Fatalf("override = %v %v, want 250", limit, ok)
	}
	if got := overridesSummary(cfg.Budget); got != "Entertainment=250" {
		t.Errorf("summary = %q", got)
	}

	if err := applySettingsField(&cfg, settingsFieldLimitOverride, "Entertainment ="); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	if _, ok := cfg.Budget.LookupLimit("Entertainment"); ok {
		t.Error("override should be cleared")
	}
	if got := overridesSummary(cfg.Budget); got != "(none)" {
		t.Errorf("summary = %q", got)
	}

	if err := applySettingsField(&cfg, settingsFieldLimitOverride, "no equals sign"); err == nil {
		t.Error("missing '=' should be rejected")
	}
	if err := applySettingsField(&cfg, settingsFieldLimitOverride, "Food = -3"); err == nil {
		t.Error("negative limit should be rejected")
	}
}
