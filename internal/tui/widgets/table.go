package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column describes a table column. Width 0 shares the space left over by
// fixed columns.
type Column struct {
	Title string
	Width int
	Right bool
}

// Table renders rows under a header. Cursor highlights one row when it is
// in range; Offset is the first row shown.
type Table struct {
	Columns     []Column
	Rows        [][]string
	Cursor      int
	Offset      int
	HeaderStyle lipgloss.Style
	CursorStyle lipgloss.Style
	Empty       string
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.Columns) == 0 {
		return "No data"
	}
	widths := t.columnWidths(width)
	lines := []string{t.HeaderStyle.Render(t.row(headerCells(t.Columns), widths))}
	if len(t.Rows) == 0 && t.Empty != "" {
		lines = append(lines, t.Empty)
	}
	for i := t.Offset; i < len(t.Rows) && len(lines) < height; i++ {
		line := t.row(t.Rows[i], widths)
		if i == t.Cursor {
			line = t.CursorStyle.Render(padRight(line, width))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// VisibleRows is the number of data rows that fit under the header.
func VisibleRows(height int) int { return max(1, height-1) }

func headerCells(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title
	}
	return out
}

func (t Table) columnWidths(width int) []int {
	gaps := len(t.Columns) - 1
	fixed, flex := 0, 0
	for _, c := range t.Columns {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flex++
		}
	}
	widths := make([]int, len(t.Columns))
	rest := max(0, width-fixed-gaps)
	for i, c := range t.Columns {
		switch {
		case c.Width > 0:
			widths[i] = c.Width
		case flex > 0:
			widths[i] = max(4, rest/flex)
		}
	}
	return widths
}

func (t Table) row(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		cell = truncate(cell, w)
		if t.Columns[i].Right {
			parts[i] = strings.Repeat(" ", max(0, w-lipgloss.Width(cell))) + cell
		} else {
			parts[i] = padRight(cell, w)
		}
	}
	return strings.Join(parts, " ")
}
