package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/pennywise/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Overview"),
		len("Budget"),
		len("Goals"),
		len("Transactions"),
		len("Settings"),
	}

	w := nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx && tabIdx == 4 {
		w += 3 // inactive Settings adds "[x]"
	}
	return w
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newTestApp(t)

	x := tabWidthForTest(0, 0) + 1 + 2 // inside "Budget"
	next, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := next.(App).activeTab; got != tabBudget {
		t.Fatalf("activeTab = %d, want %d", got, tabBudget)
	}
}

func TestMouseWheelMovesBudgetCursor(t *testing.T) {
	a := newTestApp(t)
	a.activeTab = tabBudget

	next, _ := a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	a = next.(App)
	if a.budget.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.budget.cursor)
	}
	next, _ = a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	next, _ = next.(App).Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := next.(App).budget.cursor; got != 0 {
		t.Fatalf("cursor = %d, want 0 (clamped)", got)
	}
}
