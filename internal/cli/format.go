// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencySymbol = "$"

// SetCurrencySymbol changes the prefix used by the money formatters.
func SetCurrencySymbol(sym string) {
	if sym != "" {
		currencySymbol = sym
	}
}

// FormatMoney formats an amount with two decimals and thousands separators.
// e.g., 2847.5 -> "$2,847.50", -4.85 -> "-$4.85"
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	n, _ := strconv.ParseInt(whole, 10, 64)
	out := currencySymbol + FormatNumber(n) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatMoneyWhole formats an amount rounded to whole units.
// e.g., 1820 -> "$1,820"
func FormatMoneyWhole(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-" + currencySymbol + FormatNumber(-n)
	}
	return currencySymbol + FormatNumber(n)
}

// FormatSigned formats a transaction amount with an explicit sign.
// e.g., 850 -> "+$850.00", -32.5 -> "-$32.50"
func FormatSigned(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatMoney(d)
	}
	return FormatMoney(d)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a ratio as a percentage string.
// e.g., 0.82727 -> "82.7%"
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatPercentWhole formats a ratio as a whole percentage.
// e.g., 0.24 -> "24%"
func FormatPercentWhole(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}

// FormatMonths formats a months-remaining count.
func FormatMonths(n int) string {
	switch {
	case n <= 0:
		return "Reached"
	case n == 1:
		return "1 month left"
	default:
		return fmt.Sprintf("%d months left", n)
	}
}

// FormatAge formats how long ago t was, relative to now.
// e.g., "just now", "2 hours ago", "1 day ago", "Mar 5"
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return t.Format("Jan 2")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 14*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	default:
		return t.Format("Jan 2")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatMonth returns a 3-letter month abbreviation, with the year when it
// differs from ref's.
func FormatMonth(m, ref time.Time) string {
	if m.Year() != ref.Year() {
		return m.Format("Jan 06")
	}
	return m.Format("Jan")
}
