package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/tui/components"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var budgetSortKeys = []string{"ratio", "spent", "name"}

var budgetSortLabels = map[string]string{
	"ratio": "usage",
	"spent": "spent",
	"name":  "name",
}

// budgetState holds the budget tab state.
type budgetState struct {
	cursor  int
	sortIdx int
}

func (s *budgetState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *budgetState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

func (s budgetState) sortKey() string {
	return budgetSortKeys[s.sortIdx%len(budgetSortKeys)]
}

func (a App) sortedUsages() []model.CategoryUsage {
	return pipeline.SortUsageBy(a.report.Budget.Categories, a.budget.sortKey())
}

// updateBudgetKey handles budget tab keys. ok is false when the key
// should fall through to the global bindings.
func (a App) updateBudgetKey(key string) (next App, cmd tea.Cmd, ok bool) {
	n := len(a.report.Budget.Categories)
	switch key {
	case "j", "down":
		a.budget.move(1, n)
	case "k", "up":
		a.budget.move(-1, n)
	case "s":
		a.budget.sortIdx = (a.budget.sortIdx + 1) % len(budgetSortKeys)
		a.budget.cursor = 0
	case "enter":
		usages := a.sortedUsages()
		if a.budget.cursor < len(usages) {
			a.txState.category = usages[a.budget.cursor].Category.Name
			a.txState.cursor = 0
			a.activeTab = tabTransactions
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderBudgetTab(cw, h int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	if !r.HasBudget {
		return components.ContentCard("Budget", mutedText("This ledger has no budget categories."), cw)
	}

	s := r.Budget
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Spent", Value: cli.FormatMoney(s.TotalSpent)},
		{Label: "Budget", Value: cli.FormatMoney(s.TotalLimit)},
		{Label: "Remaining", Value: cli.FormatMoney(s.Remaining()), Color: t.Green},
		{
			Label: "Utilization",
			Value: cli.FormatPercent(s.Utilization),
			Delta: s.Band.String(),
			Color: t.BandColor(s.Band),
		},
	}, cw))
	b.WriteString("\n")

	usages := a.sortedUsages()
	listH := max(5, h-lipgloss.Height(b.String())-4)

	if a.isCompactLayout() {
		b.WriteString(a.renderCategoryList(usages, cw, listH))
	} else {
		leftW := cw * 3 / 5
		b.WriteString(components.CardRow([]string{
			a.renderCategoryList(usages, leftW, listH),
			a.renderCategoryDetail(usages, cw-leftW),
		}))
	}
	b.WriteString("\n")

	if notes := r.Ledger.NotesFor(model.NoteBudget); len(notes) > 0 {
		b.WriteString(components.ContentCard("Recommendations", renderNotes(notes, components.CardInnerWidth(cw)), cw))
	}
	return b.String()
}

func (a App) renderCategoryList(usages []model.CategoryUsage, w, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)
	labelW, barW := barLayout(innerW - 2)

	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Render("▸ ")
	blank := lipgloss.NewStyle().Background(t.Surface).Render("  ")

	visible := max(1, h-3)
	offset := 0
	if a.budget.cursor >= visible {
		offset = a.budget.cursor - visible + 1
	}
	end := min(len(usages), offset+visible)

	var body strings.Builder
	for i := offset; i < end; i++ {
		if i == a.budget.cursor {
			body.WriteString(marker)
		} else {
			body.WriteString(blank)
		}
		body.WriteString(components.BudgetBar(usages[i], labelW, barW))
		body.WriteString("\n")
	}
	body.WriteString(mutedText("[j/k] select  [s] sort  [Enter] transactions"))

	title := fmt.Sprintf("Categories · by %s", budgetSortLabels[a.budget.sortKey()])
	return components.ContentCard(title, body.String(), w)
}

func (a App) renderCategoryDetail(usages []model.CategoryUsage, w int) string {
	if a.budget.cursor >= len(usages) {
		return components.ContentCard("Category", "", w)
	}
	t := theme.Active
	u := usages[a.budget.cursor]
	innerW := components.CardInnerWidth(w)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	status := lipgloss.NewStyle().Foreground(t.StatusColor(u.Status)).Background(t.Surface).Bold(true)

	row := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-11s", k)) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(status.Render(u.Status.String()))
	b.WriteString("\n\n")
	b.WriteString(row("Spent", cli.FormatMoney(u.Category.Spent)))
	b.WriteString(row("Limit", cli.FormatMoney(u.Category.Limit)))
	b.WriteString(row("Used", cli.FormatPercent(u.Ratio)))
	if u.Status == model.StatusOverBudget {
		b.WriteString(label.Render(fmt.Sprintf("%-11s", "Over by")) + status.Render(cli.FormatMoney(u.Overage)) + "\n")
	} else {
		b.WriteString(row("Remaining", cli.FormatMoney(u.Remaining)))
	}

	recent := pipeline.RecentTransactions(pipeline.FilterTransactions(a.report.Ledger.Transactions, u.Category.Name), 5)
	if len(recent) > 0 {
		b.WriteString("\n")
		b.WriteString(label.Render("Recent"))
		b.WriteString("\n")
		now := time.Now()
		for _, tx := range recent {
			amt := cli.FormatSigned(tx.Amount)
			nameW := max(4, innerW-lipgloss.Width(amt)-12)
			b.WriteString(value.Render(fmt.Sprintf("%-*s", nameW, truncStr(tx.Name, nameW))))
			b.WriteString(label.Render(fmt.Sprintf(" %-10s ", truncStr(cli.FormatAge(tx.Date, now), 10))))
			b.WriteString(lipgloss.NewStyle().Foreground(amountColor(tx)).Background(t.Surface).Render(amt))
			b.WriteString("\n")
		}
	}

	return components.ContentCard(u.Category.Name, strings.TrimSuffix(b.String(), "\n"), w)
}

func amountColor(tx model.Transaction) lipgloss.Color {
	t := theme.Active
	if tx.IsIncome() {
		return t.Green
	}
	return t.TextPrimary
}
