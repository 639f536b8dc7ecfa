package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawLedger is the on-disk shape of one ledger file.
type RawLedger struct {
	Account      *RawAccount      `toml:"account"`
	Categories   []RawCategory    `toml:"categories"`
	Goals        []RawGoal        `toml:"goals"`
	Transactions []RawTransaction `toml:"transactions"`
	Monthly      []RawMonth       `toml:"monthly"`
	Notes        []RawNote        `toml:"notes"`
}

// RawAccount holds the headline account figures.
type RawAccount struct {
	Balance         Amount `toml:"balance"`
	MonthlyIncome   Amount `toml:"monthly_income"`
	MonthlyExpenses Amount `toml:"monthly_expenses"`
}

// RawCategory is a [[categories]] entry.
type RawCategory struct {
	Name  string `toml:"name"`
	Spent Amount `toml:"spent"`
	Limit Amount `toml:"limit"`
	Color string `toml:"color"`
}

// RawGoal is a [[goals]] entry.
type RawGoal struct {
	Name                string `toml:"name"`
	Current             Amount `toml:"current"`
	Target              Amount `toml:"target"`
	MonthlyContribution Amount `toml:"monthly_contribution"`
}

// RawTransaction is a [[transactions]] entry.
type RawTransaction struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Category  string `toml:"category"`
	Amount    Amount `toml:"amount"`
	Date      Date   `toml:"date"`
	Status    string `toml:"status"`
	Recurring bool   `toml:"recurring"`
}

// RawMonth is a [[monthly]] row. Month is "YYYY-MM".
type RawMonth struct {
	Month    string `toml:"month"`
	Income   Amount `toml:"income"`
	Spending Amount `toml:"spending"`
}

// RawNote is a [[notes]] entry.
type RawNote struct {
	Section string `toml:"section"`
	Text    string `toml:"text"`
}

// DiscoveredFile is a ledger file found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // file name without extension, e.g. "fall-2024"
}

// Amount is a money value that may be written as a TOML number or string.
type Amount struct {
	decimal.Decimal
}

// UnmarshalTOML implements toml.Unmarshaler.
func (a *Amount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		a.Decimal = decimal.NewFromInt(x)
	case float64:
		a.Decimal = decimal.NewFromFloat(x)
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(x), "$"))
		s = strings.ReplaceAll(s, ",", "")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid amount %q", x)
		}
		a.Decimal = d
	default:
		return fmt.Errorf("invalid amount type %T", v)
	}
	return nil
}

// Date accepts a TOML date, datetime, or a "2006-01-02" string.
type Date struct {
	time.Time
}

// tomlLocalZones are the zone names BurntSushi/toml gives to values
// written without an offset.
var tomlLocalZones = map[string]bool{
	"datetime-local": true,
	"date-local":     true,
	"time-local":     true,
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Date) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case time.Time:
		if tomlLocalZones[x.Location().String()] {
			x = time.Date(x.Year(), x.Month(), x.Day(), x.Hour(), x.Minute(), x.Second(), x.Nanosecond(), time.Local)
		}
		d.Time = x
	case string:
		t, err := parseDateString(x)
		if err != nil {
			return err
		}
		d.Time = t
	default:
		return fmt.Errorf("invalid date type %T", v)
	}
	return nil
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseMonth parses a "YYYY-MM" month key into the first day of that month, UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return t, nil
}
