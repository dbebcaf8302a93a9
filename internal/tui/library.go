package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

type libraryMode int

const (
	libBrowse libraryMode = iota
	libSearch
	libFilter
	libConfirmDelete
	libDetail
)

var (
	keySearch     = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	keyFilter     = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	keySortNext   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort"))
	keySortFlip   = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse"))
	keyClear      = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear"))
	keyDuplicate  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate"))
	keyDelete     = key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete"))
	keyToggle     = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle"))
	keySuggestion = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "use suggestion"))
	keyConfirm    = key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm"))
	keyCancel     = key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel"))
)

// filterEntry is one row of the filter menu.
type filterEntry struct {
	status bool
	value  string
}

// libraryScreen owns the query state for as long as the library is mounted.
type libraryScreen struct {
	env    *env
	query  library.QueryState
	items  []library.ContentItem
	view   service.LibraryView
	loaded bool
	mode   libraryMode
	cursor int
	search textinput.Model
	filter int
}

func newLibraryScreen(e *env) *libraryScreen {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "Search content..."
	in.CharLimit = 120
	in.PromptStyle = e.styles.Key
	_ = in.Cursor.SetMode(e.cursorMode())
	return &libraryScreen{
		env:    e,
		query:  service.DefaultQuery(e.cfg.Library),
		search: in,
	}
}

func (s *libraryScreen) Init() tea.Cmd { return s.load() }

func (s *libraryScreen) load() tea.Cmd {
	ctx, svc := s.env.ctx, s.env.svc.Library
	return func() tea.Msg {
		items, err := svc.Catalog(ctx)
		if err != nil {
			return errMsg{err}
		}
		return catalogMsg(items)
	}
}

// recompute rebuilds the view from the catalog and the current query.
func (s *libraryScreen) recompute() {
	s.view = s.env.svc.Library.ViewOf(s.items, s.query)
	s.cursor = min(s.cursor, max(0, len(s.view.Items)-1))
	s.filter = max(0, min(s.filter, len(s.filterEntries())-1))
}

func (s *libraryScreen) selected() (library.ContentItem, bool) {
	if s.cursor < 0 || s.cursor >= len(s.view.Items) {
		return library.ContentItem{}, false
	}
	return s.view.Items[s.cursor], true
}

func (s *libraryScreen) filterEntries() []filterEntry {
	out := make([]filterEntry, 0, len(s.view.Options.Types)+len(s.view.Options.Statuses))
	for _, t := range s.view.Options.Types {
		out = append(out, filterEntry{value: t})
	}
	for _, st := range s.view.Options.Statuses {
		out = append(out, filterEntry{status: true, value: st})
	}
	return out
}

func (s *libraryScreen) Capturing() bool { return s.mode == libSearch }

func (s *libraryScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case catalogMsg:
		s.items, s.loaded = []library.ContentItem(m), true
		s.recompute()
	case catalogChangedMsg:
		return s.load()
	case itemDuplicatedMsg:
		return tea.Batch(s.load(), func() tea.Msg { return statusMsg(fmt.Sprintf("duplicated as %q", m.item.Title)) })
	case itemDeletedMsg:
		return tea.Batch(s.load(), func() tea.Msg { return statusMsg(fmt.Sprintf("deleted %q", m.title)) })
	case tea.KeyMsg:
		switch s.mode {
		case libSearch:
			return s.updateSearch(m)
		case libFilter:
			return s.updateFilter(m)
		case libConfirmDelete:
			return s.updateConfirm(m)
		case libDetail:
			if key.Matches(m, keyEsc, keyEnter) {
				s.mode = libBrowse
			}
			return nil
		}
		return s.updateBrowse(m)
	}
	return nil
}

func (s *libraryScreen) updateSearch(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEnter:
		s.search.Blur()
		s.mode = libBrowse
		return nil
	case tea.KeyEsc:
		s.search.SetValue("")
		s.search.Blur()
		s.mode = libBrowse
		s.query = s.query.WithSearch("")
		s.recompute()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(m)
	s.query = s.query.WithSearch(s.search.Value())
	s.recompute()
	return cmd
}

func (s *libraryScreen) updateFilter(m tea.KeyMsg) tea.Cmd {
	entries := s.filterEntries()
	switch {
	case key.Matches(m, keyUp):
		s.filter = max(0, s.filter-1)
	case key.Matches(m, keyDown):
		s.filter = max(0, min(len(entries)-1, s.filter+1))
	case key.Matches(m, keyToggle):
		if s.filter >= 0 && s.filter < len(entries) {
			e := entries[s.filter]
			if e.status {
				s.query = s.query.ToggleStatus(e.value)
			} else {
				s.query = s.query.ToggleType(e.value)
			}
			s.recompute()
		}
	case key.Matches(m, keyClear):
		s.query = s.query.ClearFilters()
		s.recompute()
	case key.Matches(m, keyEsc, keyFilter):
		s.mode = libBrowse
	}
	return nil
}

func (s *libraryScreen) updateConfirm(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, keyConfirm):
		s.mode = libBrowse
		item, ok := s.selected()
		if !ok {
			return nil
		}
		ctx, svc := s.env.ctx, s.env.svc.Library
		return func() tea.Msg {
			removed, err := svc.Delete(ctx, item.ID)
			if err != nil {
				return errMsg{err}
			}
			if !removed {
				return statusMsg("item was already gone")
			}
			return itemDeletedMsg{id: item.ID, title: item.Title}
		}
	case key.Matches(m, keyCancel):
		s.mode = libBrowse
	}
	return nil
}

func (s *libraryScreen) updateBrowse(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, keyUp):
		s.cursor = max(0, s.cursor-1)
	case key.Matches(m, keyDown):
		s.cursor = min(max(0, len(s.view.Items)-1), s.cursor+1)
	case key.Matches(m, keySearch):
		s.mode = libSearch
		return s.search.Focus()
	case key.Matches(m, keyFilter):
		s.mode = libFilter
		s.filter = 0
	case key.Matches(m, keySortNext):
		s.query = s.query.ApplyPreset(nextPreset(s.query))
		s.recompute()
	case key.Matches(m, keySortFlip):
		dir := library.Ascending
		if s.query.SortDirection == library.Ascending {
			dir = library.Descending
		}
		s.query = s.query.WithSort(s.query.SortKey, dir)
		s.recompute()
	case key.Matches(m, keyClear):
		s.search.SetValue("")
		s.query = s.query.ClearFilters().WithSearch("")
		s.recompute()
	case key.Matches(m, keySuggestion):
		if len(s.view.Suggestions) > 0 {
			s.search.SetValue(s.view.Suggestions[0])
			s.query = s.query.WithSearch(s.view.Suggestions[0])
			s.recompute()
		}
	case key.Matches(m, keyEnter):
		if _, ok := s.selected(); ok {
			s.mode = libDetail
		}
	case key.Matches(m, keyDuplicate):
		item, ok := s.selected()
		if !ok {
			return nil
		}
		ctx, svc := s.env.ctx, s.env.svc.Library
		return func() tea.Msg {
			cp, err := svc.Duplicate(ctx, item.ID)
			if err != nil {
				return errMsg{err}
			}
			if cp == nil {
				return statusMsg("item no longer exists")
			}
			return itemDuplicatedMsg{item: *cp}
		}
	case key.Matches(m, keyDelete):
		if _, ok := s.selected(); ok {
			s.mode = libConfirmDelete
		}
	}
	return nil
}

// nextPreset cycles the sort menu; a custom sort starts again at the first entry.
func nextPreset(q library.QueryState) library.SortPreset {
	presets := library.Presets()
	cur, ok := q.ActivePreset()
	if !ok {
		return presets[0]
	}
	for i, p := range presets {
		if p == cur {
			return presets[(i+1)%len(presets)]
		}
	}
	return presets[0]
}

func (s *libraryScreen) Bindings() []key.Binding {
	switch s.mode {
	case libSearch:
		return []key.Binding{keyEnter, keyEsc}
	case libFilter:
		return []key.Binding{keyUp, keyDown, keyToggle, keyClear, keyEsc}
	case libConfirmDelete:
		return []key.Binding{keyConfirm, keyCancel}
	case libDetail:
		return []key.Binding{keyEsc}
	}
	out := []key.Binding{keySearch, keyFilter, keySortNext, keySortFlip, keyDuplicate, keyDelete}
	if len(s.view.Suggestions) > 0 {
		out = append(out, keySuggestion)
	}
	return out
}

func (s *libraryScreen) sortLabel() string {
	if p, ok := s.query.ActivePreset(); ok {
		return p.Label
	}
	return fmt.Sprintf("%s %s", s.query.SortKey, s.query.SortDirection)
}

func (s *libraryScreen) View(width, height int) string {
	st := s.env.styles
	if !s.loaded {
		return st.Title.Render("Content Library") + "\n" + st.Muted.Render("loading...")
	}
	head := st.Title.Render("Content Library") + "  " +
		st.Muted.Render(fmt.Sprintf("%d of %d items", len(s.view.Items), s.view.Total))

	searchLine := s.search.View()
	if s.mode != libSearch && s.query.SearchText == "" {
		searchLine = st.Muted.Render("/ Search content...")
	}

	chips := []string{"Sort: " + s.sortLabel()}
	if v := s.query.Types.Values(); len(v) > 0 {
		chips = append(chips, "Type: "+strings.Join(v, ", "))
	}
	if v := s.query.Statuses.Values(); len(v) > 0 {
		chips = append(chips, "Status: "+strings.Join(v, ", "))
	}
	chipLine := st.Muted.Render(strings.Join(chips, "  ·  "))

	lines := []string{head, widgets.Truncate(searchLine, width), widgets.Truncate(chipLine, width), ""}
	if len(s.view.Items) == 0 && len(s.view.Suggestions) > 0 {
		lines = append(lines, st.Subtitle.Render("Did you mean: ")+strings.Join(s.view.Suggestions, ", "))
	}
	tableH := max(2, height-len(lines))
	lines = append(lines, s.tableWithOffset(width, tableH).Render(width, tableH))
	body := strings.Join(lines, "\n")

	switch s.mode {
	case libFilter:
		return widgets.RenderPopup(body, s.filterMenu(), width, height, s.env.theme.Palette.Primary)
	case libConfirmDelete:
		item, _ := s.selected()
		text := fmt.Sprintf("Delete %q?\n\n%s", item.Title, st.Muted.Render("y: delete   n: cancel"))
		return widgets.RenderPopup(body, text, width, height, s.env.theme.Palette.Error)
	case libDetail:
		return widgets.RenderPopup(body, s.detail(), width, height, s.env.theme.Palette.Secondary)
	}
	return body
}

func (s *libraryScreen) table(width int) widgets.Table {
	st := s.env.styles
	compact := width < 70
	cols := []widgets.Column{{Title: "Title"}}
	if !compact {
		cols = append(cols, widgets.Column{Title: "Type", Width: 12}, widgets.Column{Title: "Date", Width: 13})
	}
	cols = append(cols, widgets.Column{Title: "Status", Width: 10}, widgets.Column{Title: "Views", Width: 7, Right: true})

	rows := make([][]string, 0, len(s.view.Items))
	for _, it := range s.view.Items {
		views := "-"
		if it.ShowsViews() {
			views = groupThousands(int64(it.Views))
		}
		row := []string{it.Title}
		if !compact {
			row = append(row, it.Type, it.Date.Format(s.env.cfg.UI.DateFormat))
		}
		row = append(row, s.env.theme.Badge(it.Status), views)
		rows = append(rows, row)
	}
	return widgets.Table{
		Columns:     cols,
		Rows:        rows,
		Cursor:      s.cursor,
		HeaderStyle: st.Subtitle,
		CursorStyle: st.Selected,
		Empty:       st.Muted.Render("No content matches your search and filters."),
	}
}

// tableWithOffset scrolls the table so the cursor row stays visible.
func (s *libraryScreen) tableWithOffset(width, height int) widgets.Table {
	t := s.table(width)
	visible := widgets.VisibleRows(height)
	if s.cursor >= visible {
		t.Offset = s.cursor - visible + 1
	}
	return t
}

func (s *libraryScreen) filterMenu() string {
	st := s.env.styles
	lines := []string{st.Title.Render("Filter")}
	prevStatus := false
	for i, e := range s.filterEntries() {
		if i == 0 || e.status != prevStatus {
			heading := "Content Type"
			if e.status {
				heading = "Status"
			}
			lines = append(lines, "", st.Subtitle.Render(heading))
			prevStatus = e.status
		}
		checked := s.query.Types.Has(e.value)
		if e.status {
			checked = s.query.Statuses.Has(e.value)
		}
		box := "[ ]"
		if checked {
			box = "[x]"
		}
		line := box + " " + e.value
		if i == s.filter {
			line = st.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", st.Muted.Render("space: toggle  c: clear  esc: close"))
	return strings.Join(lines, "\n")
}

func (s *libraryScreen) detail() string {
	st := s.env.styles
	it, _ := s.selected()
	views := "-"
	if it.ShowsViews() {
		views = groupThousands(int64(it.Views))
	}
	rows := [][2]string{
		{"Type", it.Type},
		{"Date", it.Date.Format(s.env.cfg.UI.DateFormat)},
		{"Status", s.env.theme.Badge(it.Status)},
		{"Views", views},
	}
	if it.Thumbnail != "" {
		rows = append(rows, [2]string{"Thumbnail", it.Thumbnail})
	}
	lines := []string{st.Title.Render(it.Title), ""}
	for _, r := range rows {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("%-10s", r[0]))+r[1])
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
