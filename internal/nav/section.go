package nav

// Section identifies the screen the dashboard shows.
type Section string

const (
	SectionDashboard        Section = "dashboard"
	SectionHome             Section = "home"
	SectionContentLibrary   Section = "content-library"
	SectionAnalytics        Section = "analytics"
	SectionAudienceInsights Section = "audience-insights"
	SectionProfile          Section = "profile"
	SectionSignOut          Section = "sign-out"
)

// routes is matched exactly; no prefix or pattern matching.
var routes = map[string]Section{
	"/":                  SectionDashboard,
	"/dashboard":         SectionDashboard,
	"/home":              SectionHome,
	"/content-library":   SectionContentLibrary,
	"/analytics":         SectionAnalytics,
	"/audience-insights": SectionAudienceInsights,
	"/profile":           SectionProfile,
	"/login":             SectionSignOut,
}

// SectionForPath maps a route path to its section. ok is false for any path
// outside the table; callers keep their current section in that case.
func SectionForPath(path string) (Section, bool) {
	s, ok := routes[path]
	return s, ok
}

// ResolveSection returns the section for path, or current when path is unknown.
func ResolveSection(current Section, path string) Section {
	if s, ok := SectionForPath(path); ok {
		return s
	}
	return current
}

// Group labels a block of sidebar items.
type Group string

const (
	GroupMain    Group = "Main"
	GroupAccount Group = "Account"
)

// Item is one sidebar entry.
type Item struct {
	Group   Group
	Label   string
	Path    string
	Section Section
	// Key is the single-key shortcut shown next to the label.
	Key string
}

var items = []Item{
	{Group: GroupMain, Label: "Dashboard", Path: "/", Section: SectionDashboard, Key: "1"},
	{Group: GroupMain, Label: "Home", Path: "/home", Section: SectionHome, Key: "2"},
	{Group: GroupMain, Label: "Content Library", Path: "/content-library", Section: SectionContentLibrary, Key: "3"},
	{Group: GroupMain, Label: "Analytics", Path: "/analytics", Section: SectionAnalytics, Key: "4"},
	{Group: GroupMain, Label: "Audience Insights", Path: "/audience-insights", Section: SectionAudienceInsights, Key: "5"},
	{Group: GroupAccount, Label: "Profile", Path: "/profile", Section: SectionProfile, Key: "6"},
	{Group: GroupAccount, Label: "Sign Out", Path: "/login", Section: SectionSignOut, Key: "7"},
}

// Items returns the sidebar entries in display order.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// PathFor returns the canonical path of a section.
func PathFor(s Section) (string, bool) {
	for _, it := range items {
		if it.Section == s {
			return it.Path, true
		}
	}
	return "", false
}

// ParseSection accepts a section name such as "content-library".
func ParseSection(name string) (Section, bool) {
	for _, it := range items {
		if string(it.Section) == name {
			return it.Section, true
		}
	}
	return "", false
}

// Title returns the sidebar label of a section, or the raw section name.
func (s Section) Title() string {
	for _, it := range items {
		if it.Section == s {
			return it.Label
		}
	}
	return string(s)
}
