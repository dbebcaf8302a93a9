package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VStack stacks widgets top to bottom, splitting height by Ratios.
type VStack struct {
	Widgets []Widget
	Spacing int
	Ratios  []float64
}

func (v VStack) Render(width, height int) string {
	if len(v.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	spacingTotal := max(0, v.Spacing*(len(v.Widgets)-1))
	usable := max(1, height-spacingTotal)
	heights := splitSizes(usable, len(v.Widgets), v.Ratios)
	lines := make([]string, 0, len(v.Widgets)*2)
	for i, w := range v.Widgets {
		lines = append(lines, w.Render(width, max(1, heights[i])))
		if i < len(v.Widgets)-1 {
			for s := 0; s < v.Spacing; s++ {
				lines = append(lines, "")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// HStack places widgets side by side, splitting width by Ratios.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	if len(h.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	gapTotal := max(0, h.Gap*(len(h.Widgets)-1))
	usable := max(1, width-gapTotal)
	widths := splitSizes(usable, len(h.Widgets), h.Ratios)
	rendered := make([][]string, len(h.Widgets))
	maxLines := 0
	for i, w := range h.Widgets {
		part := strings.Split(w.Render(max(1, widths[i]), height), "\n")
		rendered[i] = part
		maxLines = max(maxLines, len(part))
	}
	out := make([]string, 0, maxLines)
	for line := 0; line < maxLines; line++ {
		cols := make([]string, len(rendered))
		for i := range rendered {
			if line < len(rendered[i]) {
				cols[i] = padRight(rendered[i][line], widths[i])
			} else {
				cols[i] = strings.Repeat(" ", widths[i])
			}
		}
		out = append(out, strings.Join(cols, strings.Repeat(" ", h.Gap)))
	}
	return strings.Join(out, "\n")
}

// Grid lays widgets out in rows of at most Columns cells. Compact callers
// pass Columns 1 to get a single column.
type Grid struct {
	Widgets    []Widget
	Columns    int
	RowHeight  int
	Gap        int
	RowSpacing int
}

func (g Grid) Render(width, height int) string {
	if len(g.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	cols := max(1, g.Columns)
	rowH := g.RowHeight
	if rowH <= 0 {
		rowH = height
	}
	var rows []string
	used := 0
	for start := 0; start < len(g.Widgets) && used < height; start += cols {
		end := min(start+cols, len(g.Widgets))
		row := HStack{Widgets: g.Widgets[start:end], Gap: g.Gap}
		// Short final rows keep the column width of full rows.
		for len(row.Widgets) < cols {
			row.Widgets = append(append([]Widget(nil), row.Widgets...), Text(""))
		}
		h := min(rowH, height-used)
		rows = append(rows, row.Render(width, h))
		used += h + g.RowSpacing
	}
	return strings.Join(rows, strings.Repeat("\n", g.RowSpacing+1))
}

func splitSizes(total, n int, ratios []float64) []int {
	if n <= 0 {
		return nil
	}
	if len(ratios) != n {
		size := total / n
		out := make([]int, n)
		for i := range out {
			out[i] = size
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}
	sum := 0.0
	for _, r := range ratios {
		if r <= 0 {
			r = 1
		}
		sum += r
	}
	out := make([]int, n)
	used := 0
	for i := range out {
		r := ratios[i]
		if r <= 0 {
			r = 1
		}
		w := int(math.Floor((r / sum) * float64(total)))
		out[i] = w
		used += w
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadRight pads or clips s to exactly width cells, keeping ANSI styling.
func PadRight(s string, width int) string { return padRight(s, width) }

// Truncate clips s to width cells with an ellipsis.
func Truncate(s string, width int) string { return truncate(s, width) }

// CutLeft drops the first cols cells of s, keeping ANSI styling.
func CutLeft(s string, cols int) string { return dropColumns(s, cols) }
