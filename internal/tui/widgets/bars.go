package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
}

// Bars is a horizontal bar chart. Values are scaled to the largest one, or to
// Max when it is set (for example 100 for percentages).
type Bars struct {
	Title      string
	Data       []Bar
	Max        float64
	Unit       string
	Colors     []lipgloss.Color
	TitleStyle lipgloss.Style
	LabelStyle lipgloss.Style
}

func (c Bars) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, 0, len(c.Data)+1)
	if c.Title != "" {
		lines = append(lines, c.TitleStyle.Render(c.Title))
	}
	if len(c.Data) == 0 {
		lines = append(lines, c.LabelStyle.Render("(no data)"))
		return strings.Join(lines, "\n")
	}
	maxV := c.Max
	labelW := 0
	for _, p := range c.Data {
		if c.Max <= 0 && p.Value > maxV {
			maxV = p.Value
		}
		labelW = max(labelW, lipgloss.Width(p.Label))
	}
	if maxV <= 0 {
		maxV = 1
	}
	labelW = min(labelW, max(4, width/3))
	for i, p := range c.Data {
		if len(lines) >= height {
			break
		}
		value := fmt.Sprintf(" %s%s", formatValue(p.Value), c.Unit)
		room := max(1, width-labelW-1-lipgloss.Width(value))
		w := int((p.Value / maxV) * float64(room))
		w = min(max(w, 1), room)
		bar := strings.Repeat("█", w)
		if len(c.Colors) > 0 {
			bar = lipgloss.NewStyle().Foreground(c.Colors[i%len(c.Colors)]).Render(bar)
		}
		label := padRight(truncate(p.Label, labelW), labelW)
		lines = append(lines, c.LabelStyle.Render(label)+" "+bar+c.LabelStyle.Render(value))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
