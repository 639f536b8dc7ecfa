package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/tui/components"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// transactionsState holds the transactions tab state.
type transactionsState struct {
	cursor int

	searching   bool
	searchInput textinput.Model
	query       string
	category    string // empty means all categories
}

func (s *transactionsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *transactionsState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name or category"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}

// visibleTransactions returns the ledger transactions, newest first, after
// the category filter and search query.
func (a App) visibleTransactions() []model.Transaction {
	txs := pipeline.RecentTransactions(a.report.Ledger.Transactions, 0)
	txs = pipeline.FilterTransactions(txs, a.txState.category)
	return searchTransactions(txs, a.txState.query)
}

func searchTransactions(txs []model.Transaction, query string) []model.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return txs
	}
	var out []model.Transaction
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Name), q) || strings.Contains(strings.ToLower(tx.Category), q) {
			out = append(out, tx)
		}
	}
	return out
}

// nextCategory cycles the filter through "" and each budget category name.
func nextCategory(current string, categories []model.BudgetCategory) string {
	if len(categories) == 0 {
		return ""
	}
	if current == "" {
		return categories[0].Name
	}
	for i, c := range categories {
		if strings.EqualFold(c.Name, current) {
			if i+1 < len(categories) {
				return categories[i+1].Name
			}
			return ""
		}
	}
	return ""
}

func (a App) updateTransactionsKey(key string) (next App, cmd tea.Cmd, ok bool) {
	n := len(a.visibleTransactions())
	switch key {
	case "j", "down":
		a.txState.move(1, n)
	case "k", "up":
		a.txState.move(-1, n)
	case "g":
		a.txState.cursor = 0
	case "G":
		a.txState.cursor = max(0, n-1)
	case "c":
		a.txState.category = nextCategory(a.txState.category, a.report.Ledger.Categories)
		a.txState.cursor = 0
	case "/":
		a.txState.searching = true
		a.txState.searchInput = newSearchInput()
		a.txState.searchInput.SetValue(a.txState.query)
		a.txState.searchInput.Focus()
		return a, textinput.Blink, true
	case "esc":
		a.txState.query = ""
		a.txState.category = ""
		a.txState.cursor = 0
	default:
		return a, nil, false
	}
	return a, nil, true
}

// updateTransactionSearch handles key events while in search mode.
func (a App) updateTransactionSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.query = strings.TrimSpace(a.txState.searchInput.Value())
		a.txState.searching = false
		a.txState.cursor = 0
		return a, nil
	case "esc":
		a.txState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.txState.searchInput, cmd = a.txState.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	txs := a.visibleTransactions()
	innerW := components.CardInnerWidth(cw)

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const dateW, catW, amtW, statusW = 8, 16, 12, 10
	nameW := max(10, innerW-dateW-catW-amtW-statusW-4)

	var body strings.Builder
	if a.txState.searching {
		body.WriteString(a.txState.searchInput.View())
		body.WriteString("\n")
	}
	body.WriteString(header.Render(fmt.Sprintf("%-*s %-*s %-*s %*s %-*s",
		dateW, "Date", nameW, "Name", catW, "Category", amtW, "Amount", statusW, "Status")))
	body.WriteString("\n")
	body.WriteString(muted.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	if len(txs) == 0 {
		body.WriteString(muted.Render("No transactions match."))
		body.WriteString("\n")
	}

	visible := max(3, h-9)
	offset := 0
	if a.txState.cursor >= visible {
		offset = a.txState.cursor - visible + 1
	}
	end := min(len(txs), offset+visible)

	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if tx.IsIncome() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Neg())
		}
	}

	for i := offset; i < end; i++ {
		tx := txs[i]
		status := string(tx.Status)
		if tx.Recurring {
			status += " ↻"
		}
		line := fmt.Sprintf("%-*s %-*s %-*s %*s %-*s",
			dateW, tx.Date.Format("Jan 02"),
			nameW, truncStr(tx.Name, nameW),
			catW, truncStr(tx.Category, catW),
			amtW, cli.FormatSigned(tx.Amount),
			statusW, status)
		if i == a.txState.cursor {
			body.WriteString(selected.Render(line))
		} else if tx.IsIncome() {
			body.WriteString(row.Foreground(t.Green).Render(line))
		} else {
			body.WriteString(row.Render(line))
		}
		body.WriteString("\n")
	}

	body.WriteString(muted.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(muted.Render(fmt.Sprintf("%d shown · in %s · out %s",
		len(txs), cli.FormatMoney(income), cli.FormatMoney(expenses))))
	body.WriteString("\n")
	body.WriteString(muted.Render("[j/k] navigate  [/] search  [c] category  [Esc] clear"))

	title := "Transactions"
	var filters []string
	if a.txState.category != "" {
		filters = append(filters, a.txState.category)
	}
	if a.txState.query != "" {
		filters = append(filters, fmt.Sprintf("%q", a.txState.query))
	}
	if len(filters) > 0 {
		title += " · " + strings.Join(filters, " · ")
	}
	return components.ContentCard(title, body.String(), cw)
}
