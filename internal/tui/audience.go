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

var keySegments = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "breakdowns/segments"))

type audienceScreen struct {
	env      *env
	data     service.Audience
	loaded   bool
	segments bool
}

func newAudienceScreen(e *env) *audienceScreen { return &audienceScreen{env: e} }

func (s *audienceScreen) Init() tea.Cmd {
	ctx, svc := s.env.ctx, s.env.svc.Insights
	return func() tea.Msg {
		a, err := svc.Audience(ctx)
		if err != nil {
			return errMsg{err}
		}
		return audienceMsg(a)
	}
}

func (s *audienceScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case audienceMsg:
		s.data, s.loaded = service.Audience(m), true
	case tea.KeyMsg:
		if key.Matches(m, keySegments) {
			s.segments = !s.segments
		}
	}
	return nil
}

func (s *audienceScreen) Bindings() []key.Binding { return []key.Binding{keySegments} }
func (s *audienceScreen) Capturing() bool         { return false }

func (s *audienceScreen) View(width, height int) string {
	st := s.env.styles
	head := st.Title.Render("Audience Insights")
	if !s.loaded {
		return head + "\n" + st.Muted.Render("loading...")
	}
	if s.segments {
		return lipgloss.JoinVertical(lipgloss.Left, head, s.segmentView(width, height-1))
	}

	colors := s.env.theme.SeriesColors()
	boxes := make([]widgets.Widget, 0, len(s.data.Breakdowns))
	for _, b := range s.data.Breakdowns {
		bars := widgets.Bars{Max: 100, Unit: "%", Colors: colors, LabelStyle: st.Muted}
		for _, v := range b.Values {
			bars.Data = append(bars.Data, widgets.Bar{Label: v.Label, Value: v.Value})
		}
		title := b.Title
		boxes = append(boxes, widgets.Func(func(w, h int) string {
			return widgets.Box{Title: title, Content: bars.Render(max(1, w-2), max(1, h-3)), TitleStyle: &st.Subtitle}.Render(w, h)
		}))
	}
	cols := 3
	switch {
	case width < 70:
		cols = 1
	case width < 110:
		cols = 2
	}
	rows := (len(boxes) + cols - 1) / cols
	rowH := max(5, (height-1)/max(1, rows))
	grid := widgets.Grid{Widgets: boxes, Columns: cols, RowHeight: rowH, Gap: 1}
	return lipgloss.JoinVertical(lipgloss.Left, head, grid.Render(width, height-1))
}

func (s *audienceScreen) segmentView(width, height int) string {
	st := s.env.styles
	var lines []string
	for _, seg := range s.data.Segments {
		lines = append(lines,
			st.Subtitle.Render(seg.Name)+"  "+st.Muted.Render(fmt.Sprintf("%.0f%% of audience · engagement %s", seg.Share, seg.Engagement)),
			"  "+st.Muted.Render("Interests: ")+strings.Join(seg.Interests, ", "),
			"  "+st.Muted.Render("Behaviors: ")+strings.Join(seg.Behaviors, ", "),
			"",
		)
	}
	return widgets.Text(strings.Join(lines, "\n")).Render(width, height)
}
