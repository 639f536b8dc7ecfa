package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Spent"},
		Rows: [][]string{
			{"Food & Dining", Colorize(ColorRed, "$650")},
			{"Books", "$20"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestRenderRatioBar_Clamps(t *testing.T) {
	for _, ratio := range []float64{-1, 0, 0.5, 1, 1.3} {
		bar := RenderRatioBar(ratio, 10, ColorGreen)
		if w := lipgloss.Width(bar); w != 10 {
			t.Errorf("RenderRatioBar(%.1f) width = %d, want 10", ratio, w)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 50, 100})
	if got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	if got := RenderProgressBar(1, 0, 10); got != "" {
		t.Errorf("zero total = %q, want empty", got)
	}
	got := RenderProgressBar(3, 10, 20)
	if !strings.HasSuffix(got, "3/10") {
		t.Errorf("RenderProgressBar = %q, want count suffix 3/10", got)
	}
	if w := lipgloss.Width(got); w != 27 {
		t.Errorf("width = %d, want 27", w)
	}
}
