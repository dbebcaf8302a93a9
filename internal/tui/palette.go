package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rangmanch/internal/nav"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

// command is one entry of the command palette.
type command struct {
	ID          string
	Name        string
	Description string
	Disabled    func(a *App) (bool, string)
	Execute     func(a *App) tea.Cmd
}

type commandResult struct {
	ID       string
	Name     string
	Desc     string
	Disabled bool
	Reason   string
}

type commandRegistry struct {
	commands map[string]command
}

func newCommandRegistry(cmds []command) *commandRegistry {
	reg := &commandRegistry{commands: map[string]command{}}
	for _, c := range cmds {
		reg.Register(c)
	}
	return reg
}

func (r *commandRegistry) Register(c command) {
	if c.ID == "" {
		return
	}
	r.commands[c.ID] = c
}

// Search matches query against name, description and id. Enabled commands
// come first, then by name.
func (r *commandRegistry) Search(query string, a *App) []commandResult {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]commandResult, 0, len(r.commands))
	for _, c := range r.commands {
		h := strings.ToLower(c.Name + " " + c.Description + " " + c.ID)
		if q != "" && !strings.Contains(h, q) {
			continue
		}
		disabled, reason := false, ""
		if c.Disabled != nil {
			disabled, reason = c.Disabled(a)
		}
		results = append(results, commandResult{
			ID:       c.ID,
			Name:     c.Name,
			Desc:     c.Description,
			Disabled: disabled,
			Reason:   reason,
		})
	}
	slices.SortFunc(results, func(x, y commandResult) int {
		if x.Disabled != y.Disabled {
			if !x.Disabled {
				return -1
			}
			return 1
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return results
}

func (r *commandRegistry) Execute(id string, a *App) tea.Cmd {
	c, ok := r.commands[id]
	if !ok {
		return statusCmd("unknown command: " + id)
	}
	if c.Disabled != nil {
		if disabled, reason := c.Disabled(a); disabled {
			if reason == "" {
				reason = "command is disabled"
			}
			return statusCmd(reason)
		}
	}
	if c.Execute == nil {
		return nil
	}
	return c.Execute(a)
}

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

func defaultCommands() []command {
	var cmds []command
	for _, it := range nav.Items() {
		cmds = append(cmds, command{
			ID:          "go:" + it.Path,
			Name:        "Go to " + it.Label,
			Description: string(it.Group),
			Disabled: func(a *App) (bool, string) {
				return a.nav.Section == it.Section, "already here"
			},
			Execute: func(a *App) tea.Cmd { return a.dispatch(nav.ItemSelected{Path: it.Path}) },
		})
	}
	return append(cmds,
		command{
			ID:          "panel:toggle",
			Name:        "Toggle side panel",
			Description: "show or hide the navigation menu",
			Execute:     func(a *App) tea.Cmd { return a.dispatch(nav.PanelToggled{}) },
		},
		command{
			ID:          "help",
			Name:        "Show key bindings",
			Description: "help",
			Execute: func(a *App) tea.Cmd {
				a.showHelp = true
				return nil
			},
		},
		command{
			ID:          "data:reset",
			Name:        "Reset mock data",
			Description: "restore the sample catalog and analytics",
			Disabled: func(a *App) (bool, string) {
				return a.svc.Maintenance == nil, "maintenance unavailable"
			},
			Execute: func(a *App) tea.Cmd {
				ctx, m := a.ctx, a.svc.Maintenance
				return func() tea.Msg {
					if err := m.Reset(ctx); err != nil {
						return errMsg{fmt.Errorf("reset data: %w", err)}
					}
					return dataResetMsg{}
				}
			},
		},
		command{
			ID:          "quit",
			Name:        "Quit",
			Description: "exit rangmanch",
			Execute:     func(*App) tea.Cmd { return tea.Quit },
		},
	)
}

// palette is the open command palette.
type palette struct {
	input   textinput.Model
	results []commandResult
	cursor  int
}

const paletteRows = 8

var (
	keyPaletteUp   = key.NewBinding(key.WithKeys("up", "ctrl+p"))
	keyPaletteDown = key.NewBinding(key.WithKeys("down", "ctrl+n"))
)

func (a *App) openPalette() tea.Cmd {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Type a command"
	in.PromptStyle = a.styles.Key
	_ = in.Cursor.SetMode(a.cursorMode())
	a.palette = &palette{input: in}
	a.refreshPalette()
	return a.palette.input.Focus()
}

func (a *App) refreshPalette() {
	p := a.palette
	p.results = a.commands.Search(p.input.Value(), a)
	p.cursor = min(p.cursor, max(0, len(p.results)-1))
}

func (a *App) updatePalette(m tea.KeyMsg) tea.Cmd {
	p := a.palette
	switch {
	case key.Matches(m, keyEsc):
		a.palette = nil
		return nil
	case key.Matches(m, keyEnter):
		a.palette = nil
		if len(p.results) == 0 {
			return nil
		}
		return a.commands.Execute(p.results[p.cursor].ID, a)
	case key.Matches(m, keyPaletteUp):
		p.cursor = max(0, p.cursor-1)
		return nil
	case key.Matches(m, keyPaletteDown):
		p.cursor = min(len(p.results)-1, p.cursor+1)
		p.cursor = max(0, p.cursor)
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(m)
	p.cursor = 0
	a.refreshPalette()
	return cmd
}

func (a *App) renderPalette() string {
	p := a.palette
	lines := []string{a.styles.Title.Render("Command Palette"), p.input.View(), ""}
	if len(p.results) == 0 {
		lines = append(lines, a.styles.Muted.Render("No matching commands"))
	}
	start := max(0, p.cursor-paletteRows+1)
	for i := start; i < len(p.results) && i < start+paletteRows; i++ {
		r := p.results[i]
		label := widgets.PadRight(r.Name, 26) + " " + r.Desc
		if r.Disabled && r.Reason != "" {
			label = widgets.PadRight(r.Name, 26) + " (" + r.Reason + ")"
		}
		switch {
		case i == p.cursor:
			lines = append(lines, a.styles.Selected.Render("▸ "+label))
		case r.Disabled:
			lines = append(lines, a.styles.Muted.Render("  "+label))
		default:
			lines = append(lines, "  "+label)
		}
	}
	return strings.Join(lines, "\n")
}
