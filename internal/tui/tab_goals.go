package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/tui/components"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// tierMessages are the encouragement lines shown under each goal.
var tierMessages = map[model.GoalTier]string{
	model.TierEarly:   "Every deposit counts.",
	model.TierStarted: "Good start, keep it going.",
	model.TierHalfway: "Halfway there!",
	model.TierAlmost:  "Almost there!",
}

func (a App) renderGoalsTab(cw int) string {
	r := a.report
	if len(r.Goals) == 0 {
		return components.ContentCard("Goals", mutedText("This ledger has no savings goals."), cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(goalMetrics(r.Goals), cw))
	b.WriteString("\n")

	cols := 2
	if a.isCompactLayout() {
		cols = 1
	}
	widths := components.LayoutRow(cw, cols)
	for i := 0; i < len(r.Goals); i += cols {
		row := make([]string, 0, cols)
		for j := 0; j < cols && i+j < len(r.Goals); j++ {
			row = append(row, renderGoalCard(r.Goals[i+j], widths[j]))
		}
		b.WriteString(components.CardRow(row))
		b.WriteString("\n")
	}

	if notes := r.Ledger.NotesFor(model.NoteGoals); len(notes) > 0 {
		b.WriteString(components.ContentCard("Tips", renderNotes(notes, components.CardInnerWidth(cw)), cw))
	}
	return b.String()
}

func goalMetrics(goals []model.GoalProjection) []components.Metric {
	t := theme.Active

	saved, target, remaining := decimal.Zero, decimal.Zero, decimal.Zero
	reached := 0
	for _, g := range goals {
		saved = saved.Add(g.Goal.Current)
		target = target.Add(g.Goal.Target)
		remaining = remaining.Add(g.Remaining)
		if g.Met() {
			reached++
		}
	}

	return []components.Metric{
		{Label: "Saved", Value: cli.FormatMoney(saved), Color: t.Accent},
		{Label: "Targets", Value: cli.FormatMoney(target)},
		{Label: "Still to Save", Value: cli.FormatMoney(remaining)},
		{Label: "Reached", Value: fmt.Sprintf("%d of %d", reached, len(goals)), Color: t.Green},
	}
}

func renderGoalCard(p model.GoalProjection, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	tier := lipgloss.NewStyle().Foreground(t.TierColor(p.Tier)).Background(t.Surface)

	var b strings.Builder
	b.WriteString(value.Render(cli.FormatMoney(p.Goal.Current)))
	b.WriteString(label.Render(" of " + cli.FormatMoney(p.Goal.Target)))
	b.WriteString("\n")
	b.WriteString(components.GoalBar(p, max(8, innerW-5)))
	b.WriteString("\n")

	if p.Met() {
		msg := "Goal reached!"
		if p.Exceeded {
			msg = fmt.Sprintf("Goal reached, %s over target", cli.FormatMoney(p.Goal.Current.Sub(p.Goal.Target)))
		}
		b.WriteString(tier.Bold(true).Render(msg))
	} else {
		b.WriteString(value.Render(cli.FormatMonths(p.MonthsRemaining)))
		b.WriteString(label.Render(fmt.Sprintf(" at %s/mo", cli.FormatMoneyWhole(p.Contribution))))
		b.WriteString("\n")
		b.WriteString(label.Render(fmt.Sprintf("%s to go · pace %s/mo",
			cli.FormatMoney(p.Remaining), cli.FormatMoney(p.MonthlyPace))))
		b.WriteString("\n")
		b.WriteString(tier.Render(tierMessages[p.Tier]))
	}

	return components.ContentCard(p.Goal.Name, b.String(), w)
}
