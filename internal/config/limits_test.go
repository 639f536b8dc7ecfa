package config

import "testing"

func TestNormalizeCategoryName(t *testing.T) {
	cases := map[string]string{
		"Food & Dining":       "food & dining",
		"  Food  &   Dining ": "food & dining",
		"BOOKS":               "books",
		"":                    "",
	}
	for in, want := range cases {
		if got := NormalizeCategoryName(in); got != want {
			t.Errorf("NormalizeCategoryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupLimit_NormalizedMatch(t *testing.T) {
	limit := 900.0
	b := BudgetConfig{Overrides: map[string]LimitOverride{
		"Food & Dining": {Limit: &limit},
		"Transport":     {},
	}}

	v, ok := b.LookupLimit("food  & DINING")
	if !ok {
		t.Fatal("LookupLimit returned !ok for normalized name")
	}
	if v.String() != "900" {
		t.Fatalf("limit = %s, want 900", v)
	}

	if _, ok := b.LookupLimit("Transport"); ok {
		t.Fatal("override without a limit should not match")
	}
	if _, ok := b.LookupLimit("Rent"); ok {
		t.Fatal("unknown category should not match")
	}
}

func TestSetLimit_ReplacesAndClears(t *testing.T) {
	var b BudgetConfig
	first, second := 100.0, 200.0

	b.SetLimit("Personal Care", &first)
	b.SetLimit("personal care", &second)
	if len(b.Overrides) != 1 {
		t.Fatalf("overrides = %d, want 1 after replacing", len(b.Overrides))
	}
	v, _ := b.LookupLimit("Personal Care")
	if v.String() != "200" {
		t.Fatalf("limit = %s, want 200", v)
	}

	b.SetLimit("PERSONAL CARE", nil)
	if _, ok := b.LookupLimit("Personal Care"); ok {
		t.Fatal("override should be cleared")
	}
}

func TestLookupLimit_CollidingKeysAreStable(t *testing.T) {
	upper, lower := 100.0, 250.0
	b := BudgetConfig{Overrides: map[string]LimitOverride{
		"Food":  {Limit: &upper},
		"food ": {Limit: &lower},
	}}

	for i := 0; i < 50; i++ {
		v, ok := b.LookupLimit("FOOD")
		if !ok || v.String() != "100" {
			t.Fatalf("run %d: limit = %s ok=%v, want 100 from the first sorted key", i, v, ok)
		}
	}
}
