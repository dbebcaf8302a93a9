// Package tui is the bubbletea front end: a navigation shell with a sidebar,
// a header and one screen per section.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/rangmanch/internal/catalog"
	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/nav"
	"github.com/jask/rangmanch/internal/service"
	"github.com/jask/rangmanch/internal/theme"
)

// Services are the backends the screens call. Watcher is optional.
type Services struct {
	Library     *service.LibraryService
	Insights    *service.InsightsService
	Generator   *service.GeneratorService
	Maintenance *service.MaintenanceService
	Watcher     *catalog.Watcher
}

// App is the root bubbletea model.
type App struct {
	env
	cancel context.CancelFunc
	logger *log.Logger

	keys        keyMap
	help        help.Model
	shell       *nav.Shell
	unsubscribe func()
	nav         nav.State
	screen      screen
	anim        *transition
	pending     []tea.Cmd
	commands    *commandRegistry
	palette     *palette

	width     int
	height    int
	status    string
	statusErr bool
	showHelp  bool

	initialPath string
	watchCh     chan catalogFileMsg
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the app and its nav shell.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithInitialPath starts the app on the section routed at path.
func WithInitialPath(path string) Option {
	return func(a *App) { a.initialPath = path }
}

// New builds the app. Call Close once the program has exited.
func New(ctx context.Context, cfg config.Config, svc Services, opts ...Option) *App {
	ctx, cancel := context.WithCancel(ctx)
	th := theme.FromConfig(cfg.Theme)
	a := &App{
		env: env{
			ctx:    ctx,
			svc:    svc,
			cfg:    cfg,
			theme:  th,
			styles: theme.NewStyles(th),
		},
		cancel:   cancel,
		logger:   log.New(io.Discard),
		keys:     newKeyMap(),
		help:     help.New(),
		anim:     newTransition(cfg.UI.Animations),
		commands: newCommandRegistry(defaultCommands()),
	}
	a.initialPath = "/"
	for _, opt := range opts {
		opt(a)
	}
	a.help.Styles.ShortKey = a.styles.Key
	a.help.Styles.FullKey = a.styles.Key
	a.help.Styles.ShortDesc = a.styles.HelpDesc
	a.help.Styles.FullDesc = a.styles.HelpDesc

	a.shell = nav.NewShell(a.initialPath,
		nav.WithPolicy(nav.Policy{CompactWidth: cfg.UI.CompactWidth, KeepManual: cfg.UI.KeepManualPanel}),
		nav.WithLogger(a.logger.WithPrefix("nav")),
	)
	a.nav = a.shell.State()
	a.unsubscribe = a.shell.Subscribe(a.onNav)
	a.screen = a.newScreen(a.nav.Section)
	return a
}

// onNav mirrors the shell state and remounts the screen when the section
// changes. Commands are collected and returned from the Update that
// dispatched the event.
func (a *App) onNav(prev, next nav.State, _ nav.Event) {
	a.nav = next
	if prev.Section != next.Section {
		a.pending = append(a.pending, a.mount(next.Section))
	}
}

func (a *App) mount(section nav.Section) tea.Cmd {
	if c, ok := a.screen.(closer); ok {
		c.Close()
	}
	a.screen = a.newScreen(section)
	a.status, a.statusErr = "", false
	return tea.Batch(a.screen.Init(), a.anim.Animate(animationFor(section), 240))
}

func animationFor(section nav.Section) AnimationKind {
	switch section {
	case nav.SectionDashboard, nav.SectionAnalytics:
		return AnimGrow
	case nav.SectionContentLibrary, nav.SectionAudienceInsights:
		return AnimSlide
	}
	return AnimFade
}

func (a *App) newScreen(section nav.Section) screen {
	switch section {
	case nav.SectionHome:
		return newHomeScreen(&a.env)
	case nav.SectionContentLibrary:
		return newLibraryScreen(&a.env)
	case nav.SectionAnalytics:
		return newAnalyticsScreen(&a.env)
	case nav.SectionAudienceInsights:
		return newAudienceScreen(&a.env)
	case nav.SectionProfile:
		return newProfileScreen(&a.env)
	case nav.SectionSignOut:
		return newSignOutScreen(&a.env)
	}
	return newDashboardScreen(&a.env)
}

func (a *App) dispatch(ev nav.Event) tea.Cmd {
	a.shell.Dispatch(ev)
	cmds := a.pending
	a.pending = nil
	return tea.Batch(cmds...)
}

// Section is the active section.
func (a *App) Section() nav.Section { return a.nav.Section }

// Close releases the nav subscription, stops background work and closes the
// shell. It is safe to call more than once.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if c, ok := a.screen.(closer); ok {
		c.Close()
	}
	a.shell.Close()
	a.cancel()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.screen.Init(), a.startWatcher())
}

func (a *App) startWatcher() tea.Cmd {
	w := a.svc.Watcher
	if w == nil {
		return nil
	}
	a.watchCh = make(chan catalogFileMsg, 1)
	ctx, ch := a.ctx, a.watchCh
	go func() {
		err := w.Run(ctx, func(items []library.ContentItem, err error) {
			select {
			case ch <- catalogFileMsg{items: items, err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			a.logger.Error("catalog watcher", "err", err)
		}
	}()
	return a.waitCatalogFile()
}

func (a *App) waitCatalogFile() tea.Cmd {
	ctx, ch := a.ctx, a.watchCh
	return func() tea.Msg {
		select {
		case m := <-ch:
			return m
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		cmd := a.dispatch(nav.ViewportResized{Width: m.Width})
		return a, tea.Batch(cmd, a.screen.Update(m))
	case animFrameMsg:
		return a, a.anim.advance(m)
	case navigateMsg:
		return a, a.dispatch(nav.ItemSelected{Path: m.path})
	case statusMsg:
		a.status, a.statusErr = string(m), false
		return a, a.screen.Update(m)
	case errMsg:
		a.status, a.statusErr = "error: "+m.Error(), true
		a.logger.Error("tui", "err", m.error)
		return a, a.screen.Update(m)
	case catalogFileMsg:
		return a, tea.Batch(a.applyCatalogFile(m), a.waitCatalogFile())
	case dataResetMsg:
		return a, tea.Batch(a.mount(a.nav.Section), statusCmd("mock data restored"))
	case tea.KeyMsg:
		return a, a.handleKey(m)
	}
	return a, a.screen.Update(msg)
}

func (a *App) applyCatalogFile(m catalogFileMsg) tea.Cmd {
	if m.err != nil {
		return cmdErr(fmt.Errorf("catalog file: %w", m.err))
	}
	ctx, lib, items := a.ctx, a.svc.Library, m.items
	return func() tea.Msg {
		if err := lib.Replace(ctx, items); err != nil {
			return errMsg{err}
		}
		return catalogChangedMsg{}
	}
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if m.String() == "ctrl+c" {
		return tea.Quit
	}
	if a.palette != nil {
		return a.updatePalette(m)
	}
	if a.screen.Capturing() {
		return a.screen.Update(m)
	}
	if a.showHelp {
		if key.Matches(m, a.keys.Quit) {
			return tea.Quit
		}
		a.showHelp = false
		return nil
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.TogglePanel):
		return a.dispatch(nav.PanelToggled{})
	case key.Matches(m, a.keys.Help):
		a.showHelp = true
		return nil
	case key.Matches(m, a.keys.Palette):
		return a.openPalette()
	}
	if path, ok := a.keys.sectionPath(m.String()); ok {
		return a.dispatch(nav.ItemSelected{Path: path})
	}
	return a.screen.Update(m)
}
