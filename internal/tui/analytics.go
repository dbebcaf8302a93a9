package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

var (
	keyRange   = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "date range"))
	keyNextTab = key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab"))
	keyPrevTab = key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab"))
)

type analyticsScreen struct {
	env    *env
	rng    service.Range
	tab    int
	data   service.Analytics
	loaded bool
}

func newAnalyticsScreen(e *env) *analyticsScreen {
	return &analyticsScreen{env: e, rng: service.RangeLast30Days}
}

func (s *analyticsScreen) Init() tea.Cmd { return s.load() }

func (s *analyticsScreen) load() tea.Cmd {
	ctx, svc, r := s.env.ctx, s.env.svc.Insights, s.rng
	return func() tea.Msg {
		a, err := svc.Analytics(ctx, r)
		if err != nil {
			return errMsg{err}
		}
		return analyticsMsg(a)
	}
}

func (s *analyticsScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case analyticsMsg:
		// Drop answers to a range that is no longer selected.
		if m.Range != s.rng {
			return nil
		}
		s.data, s.loaded = service.Analytics(m), true
		s.tab = min(s.tab, max(0, len(s.data.Tabs)-1))
	case tea.KeyMsg:
		switch {
		case key.Matches(m, keyRange):
			s.rng = nextRange(s.rng)
			return s.load()
		case key.Matches(m, keyNextTab):
			if n := len(s.data.Tabs); n > 0 {
				s.tab = (s.tab + 1) % n
			}
		case key.Matches(m, keyPrevTab):
			if n := len(s.data.Tabs); n > 0 {
				s.tab = (s.tab - 1 + n) % n
			}
		}
	}
	return nil
}

func nextRange(r service.Range) service.Range {
	ranges := service.Ranges()
	for i, x := range ranges {
		if x == r {
			return ranges[(i+1)%len(ranges)]
		}
	}
	return ranges[0]
}

func (s *analyticsScreen) Bindings() []key.Binding {
	return []key.Binding{keyRange, keyNextTab, keyPrevTab}
}

func (s *analyticsScreen) Capturing() bool { return false }

func (s *analyticsScreen) View(width, height int) string {
	st := s.env.styles
	head := st.Title.Render("Analytics") + "  " + st.Muted.Render("Range: ") + st.Key.Render(s.rng.Label())
	if !s.loaded {
		return head + "\n" + st.Muted.Render("loading...")
	}

	cards := make([]widgets.Widget, 0, len(s.data.Summary))
	for _, stat := range s.data.Summary {
		cards = append(cards, metricCard(s.env, stat.Title, stat.Value, stat.Change))
	}
	cols := max(1, len(cards))
	if width < 80 {
		cols = 2
	}
	cardRows := (len(cards) + cols - 1) / cols
	cardsH := cardRows * 4

	tabs := make([]string, 0, len(s.data.Tabs))
	for i, t := range s.data.Tabs {
		if i == s.tab {
			tabs = append(tabs, st.NavActive.Render(t.Title))
		} else {
			tabs = append(tabs, st.NavInactive.Render(t.Title))
		}
	}
	tabBar := strings.Join(tabs, " ")

	topH := min(len(s.data.TopContent)+3, max(4, height/3))
	chartH := max(6, height-1-cardsH-1-topH)
	var chart string
	if s.tab < len(s.data.Tabs) {
		chart = chartBox(s.env, s.data.Tabs[s.tab]).Render(width, chartH)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		widgets.Grid{Widgets: cards, Columns: cols, RowHeight: 4, Gap: 1}.Render(width, cardsH),
		widgets.Truncate(tabBar, width),
		chart,
		s.topContent().Render(width, topH),
	)
}

func (s *analyticsScreen) topContent() widgets.Widget {
	st := s.env.styles
	rows := make([][]string, 0, len(s.data.TopContent))
	for _, c := range s.data.TopContent {
		trend := st.Up.Render("▲")
		if !c.TrendUp {
			trend = st.Down.Render("▼")
		}
		rows = append(rows, []string{
			c.Title,
			c.Type,
			groupThousands(int64(c.Views)),
			c.Engagement,
			fmt.Sprintf("%.1f%%", c.Conversion),
			trend,
		})
	}
	t := widgets.Table{
		Columns: []widgets.Column{
			{Title: "Top Content"},
			{Title: "Type", Width: 12},
			{Title: "Views", Width: 8, Right: true},
			{Title: "Engagement", Width: 10, Right: true},
			{Title: "Conv.", Width: 6, Right: true},
			{Title: "", Width: 2},
		},
		Rows:        rows,
		Cursor:      -1,
		HeaderStyle: st.Subtitle,
	}
	return t
}
