package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestChartTickStep(t *testing.T) {
	cases := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{100, 20},
		{3200, 500},
		{60, 10},
	}
	for _, c := range cases {
		if got := chartTickStep(c.max); got != c.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", c.max, got, c.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0.5:     "0.50",
		250:     "250",
		2000:    "2k",
		2500:    "2.5k",
		1000000: "1M",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSparklineLength(t *testing.T) {
	out := Sparkline([]float64{1, 2, 3, 4, -1}, "#ffffff")
	if got := lipgloss.Width(out); got != 5 {
		t.Fatalf("sparkline width = %d, want 5", got)
	}
	if Sparkline(nil, "#ffffff") != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestBarChartLabelsAndAxis(t *testing.T) {
	values := []float64{2400, 2600, 2180, 2900, 2300, 2180}
	labels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

	out := BarChart(values, labels, "#3AA99F", 60, 8)
	if !strings.Contains(out, "└") {
		t.Error("chart should draw an x-axis")
	}
	if !strings.Contains(out, "Jan") || !strings.Contains(out, "Jun") {
		t.Errorf("chart should label the first and last bars:\n%s", out)
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, "#ffffff", 10, 2)
	if strings.Contains(out, "└") {
		t.Error("tiny chart should fall back to a sparkline")
	}
}

func TestSampleSeries(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	got, gotLabels := sampleSeries(values, labels, 3)
	if len(got) != 3 || got[0] != 0 || got[2] != 8 {
		t.Fatalf("sampleSeries values = %v", got)
	}
	if gotLabels[1] != "e" {
		t.Fatalf("sampleSeries labels = %v", gotLabels)
	}
}
