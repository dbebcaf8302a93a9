package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/rangmanch/internal/catalog"
	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/database"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/nav"
	"github.com/jask/rangmanch/internal/service"
)

func testServices(t *testing.T) (config.Config, Services) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RANGMANCH_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.UI.Animations = false
	cfg.Generator.Delay = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := database.OpenAndMigrate(ctx, filepath.Join(dir, "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	content := repository.NewContentRepo(db)
	return cfg, Services{
		Library:     &service.LibraryService{Content: content, Engine: service.NewEngine(cfg.Library)},
		Insights:    &service.InsightsService{Insights: repository.NewInsightRepo(db)},
		Generator:   &service.GeneratorService{Drafts: repository.NewDraftRepo(db)},
		Maintenance: &service.MaintenanceService{DB: db},
	}
}

func newTestApp(t *testing.T, width int, opts ...Option) *App {
	t.Helper()
	cfg, svc := testServices(t)
	a := New(context.Background(), cfg, svc, opts...)
	t.Cleanup(a.Close)
	drain(t, a, a.Init())
	send(t, a, tea.WindowSizeMsg{Width: width, Height: 40})
	return a
}

// drain runs cmd and every command its messages produce, feeding the
// messages back into the app. Timer-driven messages are dropped.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case nil, tea.QuitMsg, spinner.TickMsg, animFrameMsg:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			_, next := a.Update(m)
			queue = append(queue, next)
		}
	}
}

func send(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	drain(t, a, cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		send(t, a, keyMsg(k))
	}
}

func typeText(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		send(t, a, keyMsg(string(r)))
	}
}

func libraryOf(t *testing.T, a *App) *libraryScreen {
	t.Helper()
	s, ok := a.screen.(*libraryScreen)
	require.True(t, ok, "active screen is %T", a.screen)
	return s
}

func viewIDs(s *libraryScreen) []int {
	out := make([]int, 0, len(s.view.Items))
	for _, it := range s.view.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestAppStartsOnDashboard(t *testing.T) {
	a := newTestApp(t, 140)
	require.Equal(t, nav.SectionDashboard, a.Section())
	require.True(t, a.nav.PanelOpen)

	out := a.View()
	require.Contains(t, out, "Dashboard Overview")
	require.Contains(t, out, "Content Views")
	require.Contains(t, out, "Audience Insights", "sidebar lists every section")
}

func TestInitialPathSelectsSection(t *testing.T) {
	a := newTestApp(t, 140, WithInitialPath("/analytics"))
	require.Equal(t, nav.SectionAnalytics, a.Section())
	require.Contains(t, a.View(), "Last 30 days")
}

func TestSectionKeysNavigate(t *testing.T) {
	a := newTestApp(t, 140)

	press(t, a, "3")
	require.Equal(t, nav.SectionContentLibrary, a.Section())
	require.Contains(t, a.View(), "6 of 6 items")

	press(t, a, "5")
	require.Equal(t, nav.SectionAudienceInsights, a.Section())
	require.Contains(t, a.View(), "Referrer Sources")

	press(t, a, "6")
	require.Equal(t, nav.SectionProfile, a.Section())
	require.Contains(t, a.View(), "6 items")
}

func TestViewportDrivesPanel(t *testing.T) {
	a := newTestApp(t, 140)
	require.True(t, a.nav.PanelOpen)

	send(t, a, tea.WindowSizeMsg{Width: 80, Height: 40})
	require.True(t, a.nav.Compact)
	require.False(t, a.nav.PanelOpen)

	press(t, a, "\\")
	require.True(t, a.nav.PanelOpen)
	require.Contains(t, a.View(), "Sign Out", "drawer is drawn while open")

	// Selecting an item on a compact viewport closes the drawer.
	press(t, a, "4")
	require.Equal(t, nav.SectionAnalytics, a.Section())
	require.False(t, a.nav.PanelOpen)

	press(t, a, "\\")
	send(t, a, tea.WindowSizeMsg{Width: 90, Height: 40})
	require.False(t, a.nav.PanelOpen, "resize re-derives the panel")

	send(t, a, tea.WindowSizeMsg{Width: 150, Height: 40})
	require.True(t, a.nav.PanelOpen)
}

func TestLibrarySearchCapturesKeys(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "/")
	lib := libraryOf(t, a)
	require.True(t, lib.Capturing())

	typeText(t, a, "seo")
	require.Equal(t, []int{3}, viewIDs(lib))

	// Digits go to the search box, not to navigation.
	typeText(t, a, "3")
	require.Equal(t, nav.SectionContentLibrary, a.Section())
	require.Empty(t, lib.view.Items)

	press(t, a, "esc")
	require.False(t, lib.Capturing())
	require.Equal(t, "", lib.query.SearchText)
	require.Len(t, lib.view.Items, 6)
}

func TestLibrarySuggestionsApply(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "/")
	typeText(t, a, "analitics")
	press(t, a, "enter")

	lib := libraryOf(t, a)
	require.Empty(t, lib.view.Items)
	require.Equal(t, "Analytics Deep Dive", lib.view.Suggestions[0])
	require.Contains(t, a.View(), "Did you mean")

	press(t, a, "tab")
	require.Equal(t, []int{6}, viewIDs(lib))
}

func TestLibraryFilterMenu(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "f")
	lib := libraryOf(t, a)
	require.Contains(t, a.View(), "Content Type")

	// Entries: Blog Post, Video, Infographic, Case Study, Published, Draft, Scheduled.
	press(t, a, "j", " ")
	require.True(t, lib.query.Types.Has(library.TypeVideo))
	require.Equal(t, []int{2, 5}, viewIDs(lib))

	press(t, a, "j", "j", "j", " ")
	require.True(t, lib.query.Statuses.Has(library.StatusPublished))
	require.Equal(t, []int{5}, viewIDs(lib))

	press(t, a, " ")
	require.True(t, lib.query.Statuses.IsEmpty(), "second toggle removes the value")

	press(t, a, "c", "esc")
	require.Equal(t, libBrowse, lib.mode)
	require.Len(t, lib.view.Items, 6)
}

func TestLibraryFilterMenuOnEmptyCatalog(t *testing.T) {
	a := newTestApp(t, 140)
	require.NoError(t, a.svc.Library.Replace(context.Background(), nil))
	press(t, a, "3", "f", "down", "enter", " ")
	lib := libraryOf(t, a)
	require.Equal(t, 0, lib.filter)
	require.Empty(t, lib.view.Items)
	require.True(t, lib.query.Types.IsEmpty())
	require.True(t, lib.query.Statuses.IsEmpty())
}

func TestLibraryFilterMenuSurvivesCatalogShrink(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "f", "j", "j", "j", "j", "j", "j")
	lib := libraryOf(t, a)
	require.Equal(t, 6, lib.filter)

	require.NoError(t, a.svc.Library.Replace(context.Background(), nil))
	send(t, a, catalogChangedMsg{})
	require.Equal(t, 0, lib.filter)
	press(t, a, "down", " ")
	require.True(t, lib.query.Statuses.IsEmpty())
	require.Equal(t, libFilter, lib.mode)
}

func TestLibrarySortKeys(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3")
	lib := libraryOf(t, a)
	require.Equal(t, []int{6, 4, 2, 5, 1, 3}, viewIDs(lib))

	press(t, a, "s")
	require.Equal(t, "Oldest First", lib.sortLabel())
	require.Equal(t, []int{3, 1, 5, 2, 4, 6}, viewIDs(lib))

	press(t, a, "s", "s")
	require.Equal(t, "Most Views", lib.sortLabel())
	require.Equal(t, []int{5, 3, 1, 2, 4, 6}, viewIDs(lib))

	press(t, a, "r")
	require.Equal(t, "views asc", lib.sortLabel())
	press(t, a, "s")
	require.Equal(t, "Newest First", lib.sortLabel(), "custom sort restarts the preset cycle")
}

func TestLibraryStateIsDiscardedOnLeave(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "f", " ", "esc", "s")
	require.False(t, libraryOf(t, a).query.Types.IsEmpty())

	press(t, a, "1", "3")
	lib := libraryOf(t, a)
	require.True(t, lib.query.Types.IsEmpty())
	require.Equal(t, "Newest First", lib.sortLabel())
}

func TestLibraryDuplicateAndDelete(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "d")
	lib := libraryOf(t, a)
	require.Len(t, lib.view.Items, 7)
	require.Equal(t, `duplicated as "Analytics Deep Dive (Copy)"`, a.status)

	press(t, a, "j")
	item, ok := lib.selected()
	require.True(t, ok)
	require.Equal(t, 7, item.ID)

	press(t, a, "x")
	require.Contains(t, a.View(), `Delete "Analytics Deep Dive (Copy)"?`)
	press(t, a, "n")
	require.Len(t, lib.view.Items, 7)

	press(t, a, "x", "y")
	require.Len(t, lib.view.Items, 6)
	require.NotContains(t, viewIDs(lib), 7)
}

func TestLibraryDetailPopup(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "enter")
	out := a.View()
	require.Contains(t, out, "Thumbnail")
	require.Contains(t, out, "analytics")
	press(t, a, "esc")
	require.Equal(t, libBrowse, libraryOf(t, a).mode)
}

func TestAnalyticsRangeAndTabs(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "4")
	s, ok := a.screen.(*analyticsScreen)
	require.True(t, ok)
	require.Len(t, s.data.Tabs, 4)
	require.Len(t, s.data.Tabs[0].Series[0].Points, 4)

	press(t, a, "r")
	require.Equal(t, service.RangeLast90Days, s.rng)
	require.Len(t, s.data.Tabs[0].Series[0].Points, 7)

	press(t, a, "tab")
	require.Equal(t, 1, s.tab)
	press(t, a, "shift+tab", "shift+tab")
	require.Equal(t, 3, s.tab)
	require.Contains(t, a.View(), "Top Content")
}

func TestGeneratorProducesAndSavesDraft(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "2")
	home, ok := a.screen.(*homeScreen)
	require.True(t, ok)

	press(t, a, "l")
	require.Equal(t, "email", home.req.ContentType)

	press(t, a, "ctrl+g")
	require.Contains(t, home.lastErr, "brief is required")

	press(t, a, "tab", "tab", "l", "l", "tab")
	require.Equal(t, 700, home.req.Length)
	require.True(t, home.Capturing())
	typeText(t, a, "Spring launch")

	press(t, a, "ctrl+g")
	require.False(t, home.busy)
	require.NotNil(t, home.result)
	require.Contains(t, home.result.Body, "Brief: Spring launch")
	require.Equal(t, "draft generated", a.status)

	press(t, a, "ctrl+s")
	require.True(t, home.saved)
	require.Len(t, home.drafts, 1)
	require.Equal(t, "Spring launch", home.drafts[0].Brief)
}

func TestHomeFeatureShortcutNavigates(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "2", "U")
	require.Equal(t, nav.SectionAudienceInsights, a.Section())
}

func TestSignOutReturnsToDashboard(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "7")
	require.Equal(t, nav.SectionSignOut, a.Section())
	require.Contains(t, a.View(), "Signed out")

	press(t, a, "enter")
	require.Equal(t, nav.SectionDashboard, a.Section())
}

func TestProfileResetRestoresCatalog(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "x", "y")
	require.Len(t, libraryOf(t, a).view.Items, 5)

	press(t, a, "6", "R")
	require.Contains(t, a.View(), "Reset all content")
	press(t, a, "y")
	require.Equal(t, "mock data restored", a.status)

	press(t, a, "3")
	require.Len(t, libraryOf(t, a).view.Items, 6)
}

func TestHelpOverlay(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "?")
	require.True(t, a.showHelp)
	require.Contains(t, a.View(), "toggle menu")

	press(t, a, "3")
	require.False(t, a.showHelp)
	require.Equal(t, nav.SectionDashboard, a.Section(), "the key that closes help is swallowed")
}

func TestPaletteRunsNavigationCommand(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, ":")
	require.NotNil(t, a.palette)
	require.Contains(t, a.View(), "Command Palette")

	// Keys go to the palette input while it is open.
	typeText(t, a, "3")
	require.Equal(t, nav.SectionDashboard, a.Section())
	press(t, a, "esc")
	require.Nil(t, a.palette)

	press(t, a, "ctrl+k")
	typeText(t, a, "analytics")
	require.Equal(t, "Go to Analytics", a.palette.results[0].Name)
	press(t, a, "enter")
	require.Nil(t, a.palette)
	require.Equal(t, nav.SectionAnalytics, a.Section())
}

func TestPaletteDisabledCommandReportsReason(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, ":")
	typeText(t, a, "dashboard")
	require.Len(t, a.palette.results, 1)
	require.True(t, a.palette.results[0].Disabled)
	press(t, a, "enter")
	require.Equal(t, "already here", a.status)
	require.Equal(t, nav.SectionDashboard, a.Section())
}

func TestPaletteOrdersEnabledFirst(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, ":")
	res := a.palette.results
	require.NotEmpty(t, res)
	require.False(t, res[0].Disabled)
	require.True(t, res[len(res)-1].Disabled, "the current section sorts last")
	press(t, a, "down", "down", "up")
	require.Equal(t, 1, a.palette.cursor)
}

func TestPaletteResetReloadsScreen(t *testing.T) {
	a := newTestApp(t, 140)
	press(t, a, "3", "x", "y")
	require.Len(t, libraryOf(t, a).view.Items, 5)

	press(t, a, ":")
	typeText(t, a, "reset")
	press(t, a, "enter")
	require.Equal(t, "mock data restored", a.status)
	require.Equal(t, nav.SectionContentLibrary, a.Section())
	require.Len(t, libraryOf(t, a).view.Items, 6)
}

func TestQuitKeys(t *testing.T) {
	a := newTestApp(t, 140)
	_, cmd := a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	press(t, a, "3", "/")
	_, cmd = a.Update(keyMsg("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		require.False(t, isQuit, "q is typed into the search box")
	}
	_, cmd = a.Update(keyMsg("ctrl+c"))
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCloseReleasesShell(t *testing.T) {
	a := newTestApp(t, 140)
	a.Close()
	a.Close()
	a.shell.Dispatch(nav.ItemSelected{Path: "/analytics"})
	require.Equal(t, nav.SectionDashboard, a.Section())
	require.Error(t, a.ctx.Err())
}

func TestCatalogWatcherReloadsLibrary(t *testing.T) {
	cfg, svc := testServices(t)
	// The sqlite pool goroutines belong to the test fixture.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	svc.Watcher = catalog.NewWatcher(path, nil)
	a := New(context.Background(), cfg, svc, WithInitialPath("/content-library"))
	defer a.Close()
	drain(t, a, a.screen.Init())
	send(t, a, tea.WindowSizeMsg{Width: 140, Height: 40})
	wait := a.startWatcher()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		body := "- id: 1\n  title: Only Item\n  type: Video\n  date: 2024-01-02\n  status: Draft\n  views: 0\n"
		for {
			_ = os.WriteFile(path, []byte(body), 0o644)
			select {
			case <-stop:
				return
			case <-time.After(400 * time.Millisecond):
			}
		}
	}()

	got := make(chan tea.Msg, 1)
	go func() { got <- wait() }()
	var msg tea.Msg
	select {
	case msg = <-got:
	case <-time.After(10 * time.Second):
		t.Fatal("catalog change was not reported")
	}
	m, ok := msg.(catalogFileMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, m.err)
	// Update would also wait for the next reload; run only the apply step.
	drain(t, a, a.applyCatalogFile(m))

	lib := libraryOf(t, a)
	require.Equal(t, []int{1}, viewIDs(lib))
	require.Equal(t, "Only Item", lib.view.Items[0].Title)
	require.True(t, strings.Contains(a.View(), "1 of 1 items"))
}
