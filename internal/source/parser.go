// Package source discovers and parses pennywise TOML ledger files.
package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/pennywise/internal/model"
)

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	Path   string
	Ledger model.Ledger
	// ParseErrors counts entries skipped for an unusable date, month or
	// note section. Bad amounts fail the whole file.
	ParseErrors int
	Err         error
}

// ParseFile reads and decodes one ledger file. Category and goal values are
// passed through as written; range checks happen in the pipeline.
func ParseFile(df DiscoveredFile) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{Path: df.Path, Err: err}
	}
	res := ParseBytes(df.Name, data)
	res.Path = df.Path
	return res
}

// ParseBytes decodes ledger TOML. name seeds generated transaction IDs.
func ParseBytes(name string, data []byte) ParseResult {
	var raw RawLedger
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return ParseResult{Err: fmt.Errorf("decoding ledger: %w", err)}
	}

	var res ParseResult
	l := &res.Ledger

	if raw.Account != nil {
		l.HasAccount = true
		l.Account = model.Account{
			Balance:         raw.Account.Balance.Decimal,
			MonthlyIncome:   raw.Account.MonthlyIncome.Decimal,
			MonthlyExpenses: raw.Account.MonthlyExpenses.Decimal,
		}
	}

	for _, c := range raw.Categories {
		l.Categories = append(l.Categories, model.BudgetCategory{
			Name:  strings.TrimSpace(c.Name),
			Spent: c.Spent.Decimal,
			Limit: c.Limit.Decimal,
			Color: c.Color,
		})
	}

	for _, g := range raw.Goals {
		l.Goals = append(l.Goals, model.SavingsGoal{
			Name:                strings.TrimSpace(g.Name),
			Current:             g.Current.Decimal,
			Target:              g.Target.Decimal,
			MonthlyContribution: g.MonthlyContribution.Decimal,
		})
	}

	for i, t := range raw.Transactions {
		if t.Date.IsZero() {
			res.ParseErrors++
			continue
		}
		status := model.TxCompleted
		switch strings.ToLower(strings.TrimSpace(t.Status)) {
		case "", string(model.TxCompleted):
		case string(model.TxPending):
			status = model.TxPending
		default:
			res.ParseErrors++
			continue
		}
		id := strings.TrimSpace(t.ID)
		if id == "" {
			id = fmt.Sprintf("%s#%d", name, i+1)
		}
		l.Transactions = append(l.Transactions, model.Transaction{
			ID:        id,
			Name:      t.Name,
			Category:  t.Category,
			Amount:    t.Amount.Decimal,
			Date:      t.Date.Time,
			Status:    status,
			Recurring: t.Recurring,
		})
	}

	for _, m := range raw.Monthly {
		month, err := ParseMonth(m.Month)
		if err != nil {
			res.ParseErrors++
			continue
		}
		l.Monthly = append(l.Monthly, model.MonthlyTotals{
			Month:    month,
			Income:   m.Income.Decimal,
			Spending: m.Spending.Decimal,
		})
	}

	for _, n := range raw.Notes {
		section := strings.ToLower(strings.TrimSpace(n.Section))
		switch section {
		case model.NoteBudget, model.NoteGoals, model.NoteSpending:
		default:
			res.ParseErrors++
			continue
		}
		if strings.TrimSpace(n.Text) == "" {
			continue
		}
		l.Notes = append(l.Notes, model.Note{Section: section, Text: n.Text})
	}

	return res
}
