package widgets

import (
	"fmt"
	"math"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

// PeriodLayout is the layout of monthly periods on the x axis.
const PeriodLayout = "2006-01"

// LinePoint is one monthly value.
type LinePoint struct {
	Period string
	Value  float64
}

// LineSeries is one named line.
type LineSeries struct {
	Name   string
	Points []LinePoint
	Color  lipgloss.Color
}

// LineChart draws monthly series as braille lines with ntcharts.
type LineChart struct {
	Series     []LineSeries
	AxisStyle  lipgloss.Style
	LabelStyle lipgloss.Style
}

func (c LineChart) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	start, end, maxVal, ok := c.bounds()
	if !ok {
		return c.LabelStyle.Render("No data.")
	}
	if height < 4 {
		return c.LabelStyle.Render(fmt.Sprintf("%d series", len(c.Series)))
	}

	chart := tslc.New(width, height)
	chart.AxisStyle = c.AxisStyle
	chart.LabelStyle = c.LabelStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	yMax := niceCeil(maxVal)
	chart.SetYRange(0, yMax)
	chart.SetViewYRange(0, yMax)
	chart.Model.XLabelFormatter = monthLabelFormatter()
	chart.Model.YLabelFormatter = axisTickFormatter()

	for _, s := range c.Series {
		chart.SetDataSetStyle(s.Name, lipgloss.NewStyle().Foreground(s.Color))
		for _, p := range s.Points {
			t, err := time.Parse(PeriodLayout, p.Period)
			if err != nil {
				continue
			}
			chart.PushDataSet(s.Name, tslc.TimePoint{Time: t, Value: p.Value})
		}
	}
	chart.DrawBrailleAll()
	return chart.View()
}

// Legend renders the series names in their colors.
func (c LineChart) Legend() string {
	parts := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		parts = append(parts, lipgloss.NewStyle().Foreground(s.Color).Render("━ ")+c.LabelStyle.Render(s.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWith(parts, "   ")...)
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func (c LineChart) bounds() (start, end time.Time, maxVal float64, ok bool) {
	for _, s := range c.Series {
		for _, p := range s.Points {
			t, err := time.Parse(PeriodLayout, p.Period)
			if err != nil {
				continue
			}
			if !ok || t.Before(start) {
				start = t
			}
			if !ok || t.After(end) {
				end = t
			}
			maxVal = math.Max(maxVal, p.Value)
			ok = true
		}
	}
	if ok && !end.After(start) {
		end = start.AddDate(0, 1, 0)
	}
	return start, end, maxVal, ok
}

func monthLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		return time.Unix(int64(v), 0).UTC().Format("Jan")
	}
}

func axisTickFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		switch {
		case v >= 1000:
			return fmt.Sprintf("%.1fk", v/1000)
		case v == math.Trunc(v):
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
}

func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*exp >= v {
			return m * exp
		}
	}
	return 10 * exp
}
