package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/tui/components"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// overviewTopN is how many categories and goals the overview previews.
const overviewTopN = 5

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	// Row 1: headline metric cards
	b.WriteString(components.MetricCardRow(overviewMetrics(r), cw))
	b.WriteString("\n")

	// Row 2: monthly history
	if months := pipeline.SortedMonths(r.Ledger.Monthly); len(months) > 0 {
		spending := make([]float64, len(months))
		savings := make([]float64, len(months))
		labels := make([]string, len(months))
		ref := months[len(months)-1].Month
		for i, m := range months {
			spending[i] = m.Spending.InexactFloat64()
			savings[i] = m.Savings().InexactFloat64()
			labels[i] = cli.FormatMonth(m.Month, ref)
		}

		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		if a.isCompactLayout() {
			b.WriteString(components.ContentCard("Monthly Spending",
				components.BarChart(spending, labels, t.Orange, components.CardInnerWidth(cw), chartH), cw))
			b.WriteString("\n")
			b.WriteString(components.ContentCard("Monthly Savings",
				components.Sparkline(savings, t.Green), cw))
		} else {
			halves := components.LayoutRow(cw, 2)
			b.WriteString(components.CardRow([]string{
				components.ContentCard("Monthly Spending",
					components.BarChart(spending, labels, t.Orange, components.CardInnerWidth(halves[0]), chartH),
					halves[0]),
				components.ContentCard("Monthly Savings",
					components.BarChart(savings, labels, t.Green, components.CardInnerWidth(halves[1]), chartH),
					halves[1]),
			}))
		}
		b.WriteString("\n")
	}

	// Row 3: budget and goal previews
	halves := components.LayoutRow(cw, 2)
	var cards []string
	if r.HasBudget {
		cards = append(cards, a.renderBudgetPreview(halves[0]))
	}
	if len(r.Goals) > 0 {
		cards = append(cards, renderGoalsPreview(r.Goals, halves[len(cards)]))
	}
	if len(cards) > 0 {
		b.WriteString(components.CardRow(cards))
		b.WriteString("\n")
	}

	// Row 4: insights
	if notes := r.Ledger.NotesFor(model.NoteSpending); len(notes) > 0 {
		b.WriteString(components.ContentCard("Insights", renderNotes(notes, components.CardInnerWidth(cw)), cw))
	}

	return b.String()
}

func overviewMetrics(r pipeline.Report) []components.Metric {
	t := theme.Active
	ov := r.Overview

	na := "-"
	balance, income, expenses, net := na, na, na, ""
	if ov.HasAccount {
		balance = cli.FormatMoney(ov.Account.Balance)
		income = cli.FormatMoney(ov.Account.MonthlyIncome)
		expenses = cli.FormatMoney(ov.Account.MonthlyExpenses)
		net = "net " + cli.FormatSigned(ov.Net) + "/mo"
	}

	budget := components.Metric{Label: "Budget Used", Value: na}
	if r.HasBudget {
		budget.Value = cli.FormatPercent(ov.BudgetUtilization)
		budget.Delta = fmt.Sprintf("%s of %s", cli.FormatMoneyWhole(r.Budget.TotalSpent), cli.FormatMoneyWhole(r.Budget.TotalLimit))
		budget.Color = t.BandColor(ov.Band)
	}

	return []components.Metric{
		{Label: "Balance", Value: balance},
		{Label: "Monthly Income", Value: income, Color: t.Green},
		{Label: "Monthly Expenses", Value: expenses, Delta: net},
		{Label: "Total Savings", Value: cli.FormatMoney(ov.TotalSavings), Delta: fmt.Sprintf("%d goals", ov.GoalCount), Color: t.Accent},
		budget,
	}
}

func (a App) renderBudgetPreview(w int) string {
	usages := pipeline.SortUsageBy(a.report.Budget.Categories, "ratio")
	if len(usages) > overviewTopN {
		usages = usages[:overviewTopN]
	}

	innerW := components.CardInnerWidth(w)
	labelW, barW := barLayout(innerW)

	var b strings.Builder
	for _, u := range usages {
		b.WriteString(components.BudgetBar(u, labelW, barW))
		b.WriteString("\n")
	}
	s := a.report.Budget
	b.WriteString(mutedText(fmt.Sprintf("%d on track · %d close · %d over", s.OnTrack, s.NearLimit, s.OverBudget)))
	return components.ContentCard("Budget", b.String(), w)
}

func renderGoalsPreview(goals []model.GoalProjection, w int) string {
	innerW := components.CardInnerWidth(w)
	labelW := min(16, innerW/3)
	barW := max(8, innerW-labelW-6)

	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, g := range goals {
		if i == overviewTopN {
			break
		}
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(g.Goal.Name, labelW))))
		b.WriteString(space.Render(" "))
		b.WriteString(components.GoalBar(g, barW))
		b.WriteString("\n")
	}
	return components.ContentCard("Goals", strings.TrimSuffix(b.String(), "\n"), w)
}

// barLayout splits a row into the category label and bar widths, leaving
// room for the percentage and status text.
func barLayout(innerW int) (labelW, barW int) {
	const trailer = 1 + 1 + 4 + 2 + len("Close to Limit")
	labelW = min(16, max(8, innerW/4))
	barW = max(6, innerW-labelW-trailer)
	return labelW, barW
}

func renderNotes(notes []string, innerW int) string {
	t := theme.Active
	bullet := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("• ")
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW - 2)

	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, bullet, text.Render(n))
	}
	return strings.Join(lines, "\n")
}

func mutedText(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}
