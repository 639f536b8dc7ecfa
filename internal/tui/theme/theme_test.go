package theme

import (
	"testing"

	"github.com/theirongolddev/pennywise/internal/model"
)

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	prev := Active
	t.Cleanup(func() { Active = prev })

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(All))
	}
	if names[0] != "flexoki-dark" {
		t.Fatalf("first theme = %q", names[0])
	}
}

func TestStatusColors(t *testing.T) {
	th := FlexokiDark
	if th.StatusColor(model.StatusOnTrack) != th.Green {
		t.Error("on track should be green")
	}
	if th.StatusColor(model.StatusNearLimit) != th.Yellow {
		t.Error("near limit should be yellow")
	}
	if th.StatusColor(model.StatusOverBudget) != th.Red {
		t.Error("over budget should be red")
	}
	if th.BandColor(model.BandCritical) != th.Red {
		t.Error("critical band should be red")
	}
	if th.TierColor(model.TierEarly) != th.TextMuted {
		t.Error("early tier should be muted")
	}
}
