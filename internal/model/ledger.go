// Package model defines domain types for pennywise budgets, goals and ledgers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCategory is one spending category with its monthly limit.
type BudgetCategory struct {
	Name  string
	Spent decimal.Decimal
	Limit decimal.Decimal
	Color string // optional display hint from the ledger
}

// SavingsGoal is a target amount the user is saving towards.
type SavingsGoal struct {
	Name    string
	Current decimal.Decimal
	Target  decimal.Decimal
	// MonthlyContribution overrides the configured default when positive.
	MonthlyContribution decimal.Decimal
}

// TransactionStatus reports whether a transaction has settled.
type TransactionStatus string

// Transaction statuses.
const (
	TxCompleted TransactionStatus = "completed"
	TxPending   TransactionStatus = "pending"
)

// Transaction is a single ledger entry. Negative amounts are expenses.
type Transaction struct {
	ID        string
	Name      string
	Category  string
	Amount    decimal.Decimal
	Date      time.Time
	Status    TransactionStatus
	Recurring bool
}

// IsIncome reports whether the transaction credits the account.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// MonthlyTotals is one row of the literal month-by-month table.
type MonthlyTotals struct {
	Month    time.Time // first day of the month, UTC
	Income   decimal.Decimal
	Spending decimal.Decimal
}

// Savings is what was left over that month.
func (m MonthlyTotals) Savings() decimal.Decimal {
	return m.Income.Sub(m.Spending)
}

// Account holds the literal headline figures shown on the overview cards.
type Account struct {
	Balance         decimal.Decimal
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
}

// Note sections.
const (
	NoteBudget   = "budget"
	NoteGoals    = "goals"
	NoteSpending = "spending"
)

// Note is a static recommendation or insight string attached to a section.
type Note struct {
	Section string
	Text    string
}

// Ledger is the merged content of every ledger file.
type Ledger struct {
	Account      Account
	HasAccount   bool
	Categories   []BudgetCategory
	Goals        []SavingsGoal
	Transactions []Transaction
	Monthly      []MonthlyTotals
	Notes        []Note
}

// NotesFor returns the notes attached to a section, in ledger order.
func (l Ledger) NotesFor(section string) []string {
	var out []string
	for _, n := range l.Notes {
		if n.Section == section {
			out = append(out, n.Text)
		}
	}
	return out
}
