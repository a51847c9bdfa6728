package report

import (
	"strings"
	"testing"
)

func TestChart(t *testing.T) {
	out := Chart("Errors per quiz", []float64{0, 3, 1, 6}, 20, 4, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title plus 4 rows, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Errors per quiz" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "6 ┤ ") {
		t.Fatalf("expected max label on first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "0 ┤ ") {
		t.Fatalf("expected min label on last row: %q", lines[4])
	}
	dots := 0
	for _, line := range lines[1:] {
		for _, r := range line {
			if r > 0x2800 && r <= 0x28FF {
				dots++
			}
		}
	}
	if dots == 0 {
		t.Fatalf("expected braille dots in output:\n%s", out)
	}
}

func TestChartEmptyAndFlat(t *testing.T) {
	if Chart("x", nil, 20, 4, false) != "" {
		t.Fatalf("expected empty chart for no values")
	}
	out := Chart("", []float64{2, 2, 2}, 20, 3, false)
	if !strings.HasPrefix(out, "3 ┤ ") {
		t.Fatalf("flat series should widen the range: %q", out)
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample: %v", got)
	}
}
