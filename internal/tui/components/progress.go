package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar with a percentage, used while
// ledger files are parsed.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clampUnit(pct)
	filled := int(pct * float64(width))

	barColor := t.Cyan
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(emptyStyle.Render(" "))
	b.WriteString(pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100)))
	return b.String()
}

// RatioBar renders a solid bar filled to ratio (clamped to [0,1]) in the
// given color.
func RatioBar(ratio float64, width int, color lipgloss.Color) string {
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar.ViewAs(clampUnit(ratio))
}

// BudgetBar renders one category row: name, usage bar, percent and status.
// The bar is capped at full, the percentage is not.
func BudgetBar(u model.CategoryUsage, labelW, barW int) string {
	t := theme.Active
	color := t.StatusColor(u.Status)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(u.Category.Name, labelW))) +
		space.Render(" ") +
		RatioBar(u.Ratio.InexactFloat64(), barW, color) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", u.Percent())) +
		space.Render("  ") +
		statusStyle.Render(u.Status.String())
}

// GoalBar renders a goal's progress bar tinted by its tier.
func GoalBar(p model.GoalProjection, barW int) string {
	t := theme.Active
	color := t.TierColor(p.Tier)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	return RatioBar(p.ProgressRatio.InexactFloat64(), barW, color) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", p.Percent()))
}

// CompactBandBar renders a tiny overall-utilization indicator for the
// status bar.
func CompactBandBar(label string, ratio float64, band model.UsageBand, width int) string {
	t := theme.Active
	color := t.BandColor(band)

	barW := max(4, width-lipgloss.Width(label)-6)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		space.Render(" ") +
		RatioBar(ratio, barW, color) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%2.0f%%", ratio*100))
}

func clampUnit(v float64) float64 {
	return max(0, min(v, 1))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
