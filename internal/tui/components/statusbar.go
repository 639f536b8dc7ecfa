package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	// HasBudget gates the utilization indicator.
	HasBudget   bool
	Utilization float64
	Band        model.UsageBand
	Warnings    int
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if info.HasBudget {
		left += base.Render("  ") + CompactBandBar("Budget", info.Utilization, info.Band, 24)
	}
	if info.Warnings > 0 {
		left += warn.Render(fmt.Sprintf("  %d skipped", info.Warnings))
	}

	var right []string
	switch {
	case info.Refreshing:
		right = append(right, "refreshing…")
	case info.AutoRefresh:
		right = append(right, "auto")
	}
	if info.DataAge != "" {
		right = append(right, "Data: "+info.DataAge)
	}
	rightStr := base.Render(strings.Join(right, "  ") + " ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightStr))
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
