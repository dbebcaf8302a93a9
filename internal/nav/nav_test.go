package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionForPath(t *testing.T) {
	cases := map[string]Section{
		"/":                  SectionDashboard,
		"/dashboard":         SectionDashboard,
		"/home":              SectionHome,
		"/content-library":   SectionContentLibrary,
		"/analytics":         SectionAnalytics,
		"/audience-insights": SectionAudienceInsights,
		"/profile":           SectionProfile,
		"/login":             SectionSignOut,
	}
	for path, want := range cases {
		got, ok := SectionForPath(path)
		require.True(t, ok, path)
		require.Equal(t, want, got, path)
	}
	for _, path := range []string{"", "/analytics/", "/Analytics", "/unknown-path", "/analytics?x=1"} {
		_, ok := SectionForPath(path)
		require.False(t, ok, path)
	}
}

func TestUnknownPathIsSticky(t *testing.T) {
	sh := NewShell("/analytics")
	sh.Dispatch(RouteChanged{Path: "/unknown-path"})
	require.Equal(t, SectionAnalytics, sh.State().Section)

	sh = NewShell("/")
	sh.Dispatch(RouteChanged{Path: "/unknown-path"})
	sh.Dispatch(RouteChanged{Path: "/analytics"})
	require.Equal(t, SectionAnalytics, sh.State().Section)
}

func TestNewShellDefaultsToDashboard(t *testing.T) {
	st := NewShell("/nowhere").State()
	require.Equal(t, SectionDashboard, st.Section)
	require.True(t, st.PanelOpen)
}

func TestViewportDerivesPanel(t *testing.T) {
	require.True(t, IsCompact(99, 100))
	require.False(t, IsCompact(100, 100))
	require.True(t, IsCompact(60, 0))
	require.False(t, PanelOpenForViewport(true))
	require.True(t, PanelOpenForViewport(false))

	sh := NewShell("/")
	sh.Dispatch(ViewportResized{Width: 80})
	require.False(t, sh.State().PanelOpen)
	require.True(t, sh.State().Compact)
	sh.Dispatch(ViewportResized{Width: 160})
	require.True(t, sh.State().PanelOpen)
	require.False(t, sh.State().Compact)
}

func TestToggleIsSupersededByNextResize(t *testing.T) {
	sh := NewShell("/")
	sh.Dispatch(ViewportResized{Width: 160})
	sh.Dispatch(PanelToggled{})
	require.False(t, sh.State().PanelOpen)

	sh.Dispatch(ViewportResized{Width: 150})
	require.True(t, sh.State().PanelOpen, "a resize re-derives the panel state")
}

func TestKeepManualSurvivesSameClassResize(t *testing.T) {
	sh := NewShell("/", WithPolicy(Policy{CompactWidth: 100, KeepManual: true}))
	sh.Dispatch(ViewportResized{Width: 160})
	sh.Dispatch(PanelToggled{})
	sh.Dispatch(ViewportResized{Width: 150})
	require.False(t, sh.State().PanelOpen)

	sh.Dispatch(ViewportResized{Width: 70})
	require.False(t, sh.State().PanelOpen)
	sh.Dispatch(PanelToggled{})
	require.True(t, sh.State().PanelOpen)
	sh.Dispatch(ViewportResized{Width: 140})
	require.True(t, sh.State().PanelOpen)
	sh.Dispatch(ViewportResized{Width: 60})
	require.False(t, sh.State().PanelOpen, "crossing the breakpoint re-derives")
}

func TestItemSelectedClosesPanelWhenCompact(t *testing.T) {
	sh := NewShell("/")
	sh.Dispatch(ViewportResized{Width: 80})
	sh.Dispatch(PanelToggled{})
	require.True(t, sh.State().PanelOpen)
	sh.Dispatch(ItemSelected{Path: "/profile"})
	require.Equal(t, SectionProfile, sh.State().Section)
	require.False(t, sh.State().PanelOpen)

	sh.Dispatch(ViewportResized{Width: 140})
	sh.Dispatch(ItemSelected{Path: "/home"})
	require.True(t, sh.State().PanelOpen)
}

func TestReentrantDispatchIsQueued(t *testing.T) {
	sh := NewShell("/")
	var seen []Section
	sh.Subscribe(func(prev, next State, ev Event) {
		seen = append(seen, next.Section)
		if next.Section == SectionAnalytics {
			sh.Dispatch(RouteChanged{Path: "/profile"})
			require.Equal(t, SectionAnalytics, sh.State().Section, "queued event must not apply mid-notification")
		}
	})
	var second []Section
	sh.Subscribe(func(prev, next State, ev Event) {
		second = append(second, next.Section)
	})

	sh.Dispatch(RouteChanged{Path: "/analytics"})
	require.Equal(t, []Section{SectionAnalytics, SectionProfile}, seen)
	require.Equal(t, []Section{SectionAnalytics, SectionProfile}, second)
	require.Equal(t, SectionProfile, sh.State().Section)
}

func TestUnchangedStateDoesNotNotify(t *testing.T) {
	sh := NewShell("/")
	calls := 0
	sh.Subscribe(func(State, State, Event) { calls++ })
	sh.Dispatch(RouteChanged{Path: "/dashboard"})
	sh.Dispatch(RouteChanged{Path: "/missing"})
	require.Zero(t, calls)
	sh.Dispatch(PanelToggled{})
	require.Equal(t, 1, calls)
}

func TestUnsubscribeAndClose(t *testing.T) {
	sh := NewShell("/")
	a, b := 0, 0
	unsubA := sh.Subscribe(func(State, State, Event) { a++ })
	sh.Subscribe(func(State, State, Event) { b++ })

	sh.Dispatch(PanelToggled{})
	unsubA()
	unsubA()
	sh.Dispatch(PanelToggled{})
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)

	before := sh.State()
	sh.Close()
	sh.Dispatch(RouteChanged{Path: "/analytics"})
	require.Equal(t, before, sh.State())
	require.Equal(t, 2, b)
	sh.Subscribe(func(State, State, Event) { b++ })()
}

func TestItemsAndPaths(t *testing.T) {
	all := Items()
	require.Len(t, all, 7)
	require.Equal(t, GroupMain, all[0].Group)
	require.Equal(t, GroupAccount, all[len(all)-1].Group)
	for _, it := range all {
		got, ok := SectionForPath(it.Path)
		require.True(t, ok)
		require.Equal(t, it.Section, got)
		p, ok := PathFor(it.Section)
		require.True(t, ok)
		require.Equal(t, it.Path, p)
	}
	require.Equal(t, "Content Library", SectionContentLibrary.Title())
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("audience-insights")
	require.True(t, ok)
	require.Equal(t, SectionAudienceInsights, s)
	_, ok = ParseSection("/analytics")
	require.False(t, ok)
}
