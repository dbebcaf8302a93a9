package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles derived from a Theme. Build them once per
// theme and pass them to renderers.
type Styles struct {
	App         lipgloss.Style
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Muted       lipgloss.Style
	HeaderBar   lipgloss.Style
	Sidebar     lipgloss.Style
	NavActive   lipgloss.Style
	NavInactive lipgloss.Style
	NavGroup    lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	CardValue   lipgloss.Style
	Up          lipgloss.Style
	Down        lipgloss.Style
	Selected    lipgloss.Style
	Status      lipgloss.Style
	StatusErr   lipgloss.Style
	Key         lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewStyles derives the style set for t.
func NewStyles(t Theme) Styles {
	p := t.Palette
	pad := t.Spacing
	return Styles{
		App:      lipgloss.NewStyle().Foreground(p.Text),
		Title:    lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
		HeaderBar: lipgloss.NewStyle().
			Background(p.Mantle).
			Foreground(p.Text).
			Padding(0, pad),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.Border).
			Padding(0, pad),
		NavActive: lipgloss.NewStyle().
			Background(p.Surface).
			Foreground(p.Primary).
			Bold(true).
			Padding(0, pad),
		NavInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, pad),
		NavGroup: lipgloss.NewStyle().Foreground(Overlay1).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, pad),
		CardTitle: lipgloss.NewStyle().Foreground(p.Muted),
		CardValue: lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Up:        lipgloss.NewStyle().Foreground(p.Success),
		Down:      lipgloss.NewStyle().Foreground(p.Error),
		Selected:  lipgloss.NewStyle().Background(p.Surface).Foreground(p.Primary),
		Status: lipgloss.NewStyle().
			Foreground(p.Success).
			Background(p.Surface),
		StatusErr: lipgloss.NewStyle().
			Foreground(p.Error).
			Background(p.Surface),
		Key:      lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// Badge renders a status label in its status color.
func (t Theme) Badge(status string) string {
	return lipgloss.NewStyle().Foreground(t.StatusColor(status)).Bold(true).Render(status)
}
