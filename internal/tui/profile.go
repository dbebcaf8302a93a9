package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

var keyReset = key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset mock data"))

type profileScreen struct {
	env        *env
	items      []library.ContentItem
	loaded     bool
	confirming bool
}

func newProfileScreen(e *env) *profileScreen { return &profileScreen{env: e} }

func (s *profileScreen) Init() tea.Cmd {
	ctx, svc := s.env.ctx, s.env.svc.Library
	return func() tea.Msg {
		items, err := svc.Catalog(ctx)
		if err != nil {
			return errMsg{err}
		}
		return catalogMsg(items)
	}
}

func (s *profileScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case catalogMsg:
		s.items, s.loaded = []library.ContentItem(m), true
	case catalogChangedMsg:
		return s.Init()
	case resetDoneMsg:
		return tea.Batch(s.Init(), func() tea.Msg { return statusMsg("mock data restored") })
	case tea.KeyMsg:
		if s.confirming {
			switch {
			case key.Matches(m, keyConfirm):
				s.confirming = false
				return s.reset()
			case key.Matches(m, keyCancel):
				s.confirming = false
			}
			return nil
		}
		if key.Matches(m, keyReset) && s.env.svc.Maintenance != nil {
			s.confirming = true
		}
	}
	return nil
}

func (s *profileScreen) reset() tea.Cmd {
	ctx, svc := s.env.ctx, s.env.svc.Maintenance
	return func() tea.Msg {
		if err := svc.Reset(ctx); err != nil {
			return errMsg{err}
		}
		return resetDoneMsg{}
	}
}

func (s *profileScreen) Bindings() []key.Binding {
	if s.confirming {
		return []key.Binding{keyConfirm, keyCancel}
	}
	if s.env.svc.Maintenance == nil {
		return nil
	}
	return []key.Binding{keyReset}
}

func (s *profileScreen) Capturing() bool { return false }

func (s *profileScreen) View(width, height int) string {
	st := s.env.styles
	cfg := s.env.cfg
	lines := []string{
		st.Title.Render("Profile"),
		"",
		st.Subtitle.Render("Content Creator"),
		st.Muted.Render("Marketing team workspace"),
		"",
	}
	if s.loaded {
		opts := library.Options(s.items)
		statusCounts := map[string]int{}
		typeCounts := map[string]int{}
		for _, it := range s.items {
			statusCounts[it.Status]++
			typeCounts[it.Type]++
		}
		lines = append(lines, st.Subtitle.Render("Catalog"), fmt.Sprintf("%d items", len(s.items)))
		for _, v := range opts.Statuses {
			lines = append(lines, fmt.Sprintf("  %s %d", s.env.theme.Badge(v), statusCounts[v]))
		}
		for _, v := range opts.Types {
			lines = append(lines, fmt.Sprintf("  %s %d", st.Muted.Render(v), typeCounts[v]))
		}
		lines = append(lines, "")
	}
	settings := [][2]string{
		{"Database", cfg.Database.Path},
		{"Compact below", fmt.Sprintf("%d columns", cfg.UI.CompactWidth)},
		{"Keep manual menu", fmt.Sprintf("%t", cfg.UI.KeepManualPanel)},
		{"Default sort", fmt.Sprintf("%s %s", cfg.Library.DefaultSort, cfg.Library.DefaultDirection)},
		{"Timezone", cfg.UI.Timezone},
		{"Animations", fmt.Sprintf("%t", cfg.UI.Animations)},
	}
	lines = append(lines, st.Subtitle.Render("Settings"))
	for _, kv := range settings {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("%-18s", kv[0]))+kv[1])
	}
	body := widgets.Text(strings.Join(lines, "\n")).Render(width, height)
	if s.confirming {
		text := "Reset all content, metrics and drafts to the starter data?\n\n" + st.Muted.Render("y: reset   n: cancel")
		return widgets.RenderPopup(body, text, width, height, s.env.theme.Palette.Warning)
	}
	return body
}
