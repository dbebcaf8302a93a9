package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

// Generator form fields in focus order.
const (
	fieldType = iota
	fieldTone
	fieldLength
	fieldBrief
	fieldCount
)

var (
	keyNextField = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field"))
	keyPrevField = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field"))
	keyGenerate  = key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate"))
	keySaveDraft = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save draft"))
)

// feature is a home page shortcut to another section.
type feature struct {
	key   key.Binding
	title string
	desc  string
	path  string
}

var features = []feature{
	{key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "library")), "Content Library", "Browse, filter and sort everything you have published or drafted.", "/content-library"},
	{key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "analytics")), "Analytics", "Traffic, engagement and conversions over time.", "/analytics"},
	{key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "audience")), "Audience Insights", "Who your readers are and where they come from.", "/audience-insights"},
}

type homeScreen struct {
	env *env

	req     service.GenerateRequest
	focus   int
	brief   textarea.Model
	spin    spinner.Model
	busy    bool
	seq     int
	cancel  context.CancelFunc
	result  *service.GenerateResult
	saved   bool
	drafts  []repository.Draft
	lastErr string
}

func newHomeScreen(e *env) *homeScreen {
	ta := textarea.New()
	ta.Placeholder = "Describe what the content should cover..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 1000
	_ = ta.Cursor.SetMode(e.cursorMode())
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(e.styles.Key))
	return &homeScreen{env: e, req: service.DefaultRequest(), brief: ta, spin: sp}
}

func (s *homeScreen) Init() tea.Cmd { return s.loadDrafts() }

func (s *homeScreen) loadDrafts() tea.Cmd {
	ctx, gen := s.env.ctx, s.env.svc.Generator
	return func() tea.Msg {
		ds, err := gen.RecentDrafts(ctx, 3)
		if err != nil {
			return errMsg{err}
		}
		return draftsMsg(ds)
	}
}

// Close cancels a generation still waiting.
func (s *homeScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *homeScreen) Capturing() bool { return s.focus == fieldBrief }

func (s *homeScreen) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case draftsMsg:
		s.drafts = []repository.Draft(m)
	case spinner.TickMsg:
		if !s.busy {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(m)
		return cmd
	case generatedMsg:
		if m.seq != s.seq {
			return nil
		}
		s.busy = false
		s.cancel = nil
		if m.err != nil {
			if errors.Is(m.err, context.Canceled) {
				return nil
			}
			s.lastErr = m.err.Error()
			return nil
		}
		s.result, s.saved, s.lastErr = &m.result, false, ""
		return func() tea.Msg { return statusMsg("draft generated") }
	case draftSavedMsg:
		s.saved = true
		return tea.Batch(s.loadDrafts(), func() tea.Msg { return statusMsg("draft saved") })
	case tea.KeyMsg:
		return s.updateKey(m)
	}
	return nil
}

func (s *homeScreen) updateKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, keyGenerate):
		return s.generate()
	case key.Matches(m, keySaveDraft):
		return s.saveDraft()
	case key.Matches(m, keyNextField):
		return s.setFocus((s.focus + 1) % fieldCount)
	case key.Matches(m, keyPrevField):
		return s.setFocus((s.focus - 1 + fieldCount) % fieldCount)
	}
	if s.focus == fieldBrief {
		if m.Type == tea.KeyEsc {
			return s.setFocus(fieldType)
		}
		var cmd tea.Cmd
		s.brief, cmd = s.brief.Update(m)
		s.req.Brief = s.brief.Value()
		return cmd
	}
	for _, f := range features {
		if key.Matches(m, f.key) {
			return navigate(f.path)
		}
	}
	switch {
	case key.Matches(m, keyUp):
		return s.setFocus(max(0, s.focus-1))
	case key.Matches(m, keyDown):
		return s.setFocus(min(fieldCount-1, s.focus+1))
	case key.Matches(m, keyLeft):
		s.step(-1)
	case key.Matches(m, keyRight):
		s.step(1)
	case key.Matches(m, keyEnter):
		return s.generate()
	}
	return nil
}

func (s *homeScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	if f == fieldBrief {
		return s.brief.Focus()
	}
	s.brief.Blur()
	return nil
}

// step moves the focused selector by dir.
func (s *homeScreen) step(dir int) {
	switch s.focus {
	case fieldType:
		s.req.ContentType = cycleOption(service.ContentTypes(), s.req.ContentType, dir)
	case fieldTone:
		s.req.Tone = cycleOption(service.Tones(), s.req.Tone, dir)
	case fieldLength:
		n := s.req.Length + dir*service.LengthStep
		s.req.Length = min(service.MaxLength, max(service.MinLength, n))
	}
}

func cycleOption(opts []service.Option, cur string, dir int) string {
	for i, o := range opts {
		if o.Value == cur {
			return opts[(i+dir+len(opts))%len(opts)].Value
		}
	}
	return opts[0].Value
}

func (s *homeScreen) generate() tea.Cmd {
	if s.busy {
		return nil
	}
	req := s.req
	if err := req.Validate(); err != nil {
		s.lastErr = err.Error()
		return nil
	}
	s.seq++
	s.busy, s.lastErr = true, ""
	ctx, cancel := context.WithCancel(s.env.ctx)
	s.cancel = cancel
	seq, gen := s.seq, s.env.svc.Generator
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		res, err := gen.Generate(ctx, req)
		return generatedMsg{seq: seq, result: res, err: err}
	})
}

func (s *homeScreen) saveDraft() tea.Cmd {
	if s.result == nil || s.saved {
		return nil
	}
	ctx, gen, res := s.env.ctx, s.env.svc.Generator, *s.result
	return func() tea.Msg {
		d, err := gen.SaveDraft(ctx, res.Request, res.Body)
		if err != nil {
			return errMsg{err}
		}
		return draftSavedMsg{draft: d}
	}
}

func (s *homeScreen) Bindings() []key.Binding {
	if s.focus == fieldBrief {
		return []key.Binding{keyNextField, keyGenerate, keySaveDraft, keyEsc}
	}
	out := []key.Binding{keyNextField, keyLeft, keyRight, keyGenerate}
	if s.result != nil && !s.saved {
		out = append(out, keySaveDraft)
	}
	for _, f := range features {
		out = append(out, f.key)
	}
	return out
}

func (s *homeScreen) View(width, height int) string {
	st := s.env.styles
	head := st.Title.Render("Welcome back") + "\n" + st.Muted.Render("Plan, create and measure your content from one place.")

	cards := make([]widgets.Widget, 0, len(features))
	for _, f := range features {
		h := f.key.Help()
		content := st.Muted.Render(f.desc) + "\n" + st.Key.Render(h.Key) + " " + st.HelpDesc.Render("open")
		cards = append(cards, widgets.Box{Title: f.title, Content: content, TitleStyle: &st.Subtitle})
	}
	cols := len(cards)
	if width < 90 {
		cols = 1
	}
	featureH := 5
	featureRows := (len(cards) + cols - 1) / cols

	formW := width
	side := ""
	if width >= 100 {
		formW = width * 3 / 5
		side = s.draftList(width - formW - 1)
	}
	form := s.form(formW)
	lower := form
	if side != "" {
		lower = lipgloss.JoinHorizontal(lipgloss.Top, form, " ", side)
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		head,
		widgets.Grid{Widgets: cards, Columns: cols, RowHeight: featureH, Gap: 1}.Render(width, featureRows*featureH),
		lower,
	)
	return widgets.Text(out).Render(width, height)
}

func (s *homeScreen) form(width int) string {
	st := s.env.styles
	typeLabel := optionLabel(service.ContentTypes(), s.req.ContentType)
	toneLabel := optionLabel(service.Tones(), s.req.Tone)
	field := func(i int, label, value string) string {
		line := fmt.Sprintf("%-14s ‹ %s ›", label, value)
		if s.focus == i {
			return st.Selected.Render(line)
		}
		return line
	}
	s.brief.SetWidth(max(10, width-4))
	lines := []string{
		st.Subtitle.Render("Content Generator"),
		field(fieldType, "Content type", typeLabel),
		field(fieldTone, "Tone", toneLabel),
		field(fieldLength, "Length", fmt.Sprintf("%d words", s.req.Length)),
		st.Muted.Render("Brief"),
		s.brief.View(),
	}
	switch {
	case s.busy:
		lines = append(lines, s.spin.View()+" Generating...")
	case s.lastErr != "":
		lines = append(lines, st.Down.Render(s.lastErr))
	case s.result != nil:
		status := st.Muted.Render("ctrl+s to save")
		if s.saved {
			status = st.Up.Render("saved")
		}
		lines = append(lines, "", strings.TrimRight(s.result.Body, "\n"), status)
	}
	return widgets.Box{Content: strings.Join(lines, "\n")}.Render(width, len(lines)+2)
}

func (s *homeScreen) draftList(width int) string {
	st := s.env.styles
	lines := []string{st.Subtitle.Render("Recent drafts")}
	if len(s.drafts) == 0 {
		lines = append(lines, st.Muted.Render("No drafts yet."))
	}
	for _, d := range s.drafts {
		lines = append(lines,
			widgets.Truncate(d.Brief, width-2),
			st.Muted.Render(fmt.Sprintf("%s · %s · %s", optionLabel(service.ContentTypes(), d.ContentType), d.Tone, d.CreatedAt.In(s.env.cfg.Location()).Format(s.env.cfg.UI.DateFormat))),
		)
	}
	return widgets.Box{Content: strings.Join(lines, "\n")}.Render(width, len(lines)+2)
}

func optionLabel(opts []service.Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
