package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 8
	chartAxis          = " ┤ "
)

var chartLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))

// Chart draws values as a braille line chart, labelled with the real value
// range on the left axis. Each braille cell packs two columns and four rows.
func Chart(title string, values []float64, width, height int, color bool) string {
	if len(values) == 0 {
		return ""
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}
	labels := axisLabels(lo, hi, height)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}
	plotWidth := width - labelWidth - runewidth.StringWidth(chartAxis)
	if plotWidth < minChartWidth {
		plotWidth = minChartWidth
	}

	c := newCanvas(plotWidth, height)
	points := resample(values, plotWidth)
	prevX, prevY := -1, -1
	for i, v := range points {
		x := i * 2
		y := dotRow(v, lo, hi, height*4)
		if prevX >= 0 {
			c.line(prevX, prevY, x, y)
		} else {
			c.set(x, y)
		}
		prevX, prevY = x, y
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for row := 0; row < height; row++ {
		b.WriteString(fmt.Sprintf("%*s%s", labelWidth, labels[row], chartAxis))
		line := c.row(row)
		if color {
			line = chartLineStyle.Render(line)
		}
		b.WriteString(line)
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

// dot bits of a braille cell, indexed by [column][row].
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleBits[x%2][y%4]
}

// line plots a Bresenham segment between two dots.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func dotRow(v, lo, hi float64, rows int) int {
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatValue(hi)
	if height > 1 {
		labels[height-1] = formatValue(lo)
	}
	if height > 2 {
		labels[height/2] = formatValue((lo + hi) / 2)
	}
	return labels
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
