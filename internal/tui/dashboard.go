package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

type dashboardScreen struct {
	env    *env
	data   service.Dashboard
	loaded bool
}

var keyRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))

func newDashboardScreen(e *env) *dashboardScreen { return &dashboardScreen{env: e} }

func (s *dashboardScreen) Init() tea.Cmd { return s.load() }

func (s *dashboardScreen) load() tea.Cmd {
	ctx, svc := s.env.ctx, s.env.svc.Insights
	return func() tea.Msg {
		d, err := svc.Dashboard(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg(d)
	}
}

func (s *dashboardScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case dashboardMsg:
		s.data, s.loaded = service.Dashboard(m), true
	case tea.KeyMsg:
		if key.Matches(m, keyRefresh) {
			return tea.Batch(s.load(), func() tea.Msg { return statusMsg("dashboard refreshed") })
		}
	}
	return nil
}

func (s *dashboardScreen) Bindings() []key.Binding { return []key.Binding{keyRefresh} }
func (s *dashboardScreen) Capturing() bool         { return false }

func (s *dashboardScreen) View(width, height int) string {
	st := s.env.styles
	title := st.Title.Render("Dashboard Overview")
	if !s.loaded {
		return title + "\n" + st.Muted.Render("loading...")
	}
	cards := make([]widgets.Widget, 0, len(s.data.Cards))
	for _, c := range s.data.Cards {
		cards = append(cards, metricCard(s.env, c.Title, formatNumber(c.Value), c.Change))
	}
	cols := max(1, len(cards))
	if width < 60 {
		cols = 1
	}
	cardRows := (len(cards) + cols - 1) / max(1, cols)
	cardsH := cardRows * 4
	rest := max(6, height-1-cardsH)

	charts := make([]widgets.Widget, 0, len(s.data.Charts))
	for _, ch := range s.data.Charts {
		charts = append(charts, chartBox(s.env, ch))
	}
	chartCols, chartH := len(charts), rest
	if width < 100 {
		chartCols = 1
		chartH = max(6, rest/max(1, len(charts)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		widgets.Grid{Widgets: cards, Columns: cols, RowHeight: 4, Gap: 1}.Render(width, cardsH),
		widgets.Grid{Widgets: charts, Columns: chartCols, RowHeight: chartH, Gap: 1}.Render(width, rest),
	)
}

// metricCard is a titled number with its change against the previous period.
func metricCard(e *env, title, value string, change float64) widgets.Widget {
	st := e.styles
	return widgets.Func(func(width, height int) string {
		arrow, style := "▲", st.Up
		if change < 0 {
			arrow, style = "▼", st.Down
		}
		content := st.CardValue.Render(value) + "  " + style.Render(fmt.Sprintf("%s %.1f%%", arrow, abs(change)))
		return widgets.Box{Title: title, Content: content, Style: lipgloss.NewStyle().BorderForeground(e.theme.Palette.Border), TitleStyle: &st.CardTitle}.Render(width, height)
	})
}

// chartBox draws one service chart with a legend.
func chartBox(e *env, ch service.Chart) widgets.Widget {
	colors := e.theme.SeriesColors()
	lc := widgets.LineChart{AxisStyle: e.styles.Muted, LabelStyle: e.styles.Muted}
	for i, sr := range ch.Series {
		ls := widgets.LineSeries{Name: sr.Label, Color: colors[i%len(colors)]}
		for _, p := range sr.Points {
			ls.Points = append(ls.Points, widgets.LinePoint{Period: p.Period, Value: p.Value})
		}
		lc.Series = append(lc.Series, ls)
	}
	return widgets.Func(func(width, height int) string {
		inner := max(1, width-2)
		chartH := max(1, height-4)
		content := lc.Render(inner, chartH) + "\n" + widgets.Truncate(lc.Legend(), inner)
		return widgets.Box{Title: ch.Title, Content: content, Style: lipgloss.NewStyle().BorderForeground(e.theme.Palette.Border), TitleStyle: &e.styles.Subtitle}.Render(width, height)
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// formatNumber prints whole numbers with thousands separators.
func formatNumber(v float64) string {
	if v != float64(int64(v)) {
		return fmt.Sprintf("%.1f", v)
	}
	return groupThousands(int64(v))
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
