package config

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCategoryName folds case and collapses inner whitespace so that
// "Food &  Dining" and "food & dining" match the same override.
func NormalizeCategoryName(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// LookupLimit returns the configured limit override for a category.
// Returns false if no override is set. An exact key match wins; otherwise
// the first key in sorted order that normalizes to the same name is used.
func (b BudgetConfig) LookupLimit(category string) (decimal.Decimal, bool) {
	if len(b.Overrides) == 0 {
		return decimal.Zero, false
	}
	if o, ok := b.Overrides[category]; ok && o.Limit != nil {
		return decimal.NewFromFloat(*o.Limit), true
	}

	names := make([]string, 0, len(b.Overrides))
	for name := range b.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	want := NormalizeCategoryName(category)
	for _, name := range names {
		o := b.Overrides[name]
		if o.Limit == nil {
			continue
		}
		if NormalizeCategoryName(name) == want {
			return decimal.NewFromFloat(*o.Limit), true
		}
	}
	return decimal.Zero, false
}

// SetLimit records an override for a category, replacing any entry that
// normalizes to the same name. A nil limit clears the override.
func (b *BudgetConfig) SetLimit(category string, limit *float64) {
	want := NormalizeCategoryName(category)
	for name := range b.Overrides {
		if NormalizeCategoryName(name) == want {
			delete(b.Overrides, name)
		}
	}
	if limit == nil {
		return
	}
	if b.Overrides == nil {
		b.Overrides = make(map[string]LimitOverride)
	}
	v := *limit
	b.Overrides[category] = LimitOverride{Limit: &v}
}
