// Package theme is the explicit theme object passed to every renderer.
package theme

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/library"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	Rosewater lipgloss.Color = "#f5e0dc"
	Flamingo  lipgloss.Color = "#f2cdcd"
	Pink      lipgloss.Color = "#f5c2e7"
	Mauve     lipgloss.Color = "#cba6f7"
	Red       lipgloss.Color = "#f38ba8"
	Maroon    lipgloss.Color = "#eba0ac"
	Peach     lipgloss.Color = "#fab387"
	Yellow    lipgloss.Color = "#f9e2af"
	Green     lipgloss.Color = "#a6e3a1"
	Teal      lipgloss.Color = "#94e2d5"
	Sky       lipgloss.Color = "#89dceb"
	Sapphire  lipgloss.Color = "#74c7ec"
	Blue      lipgloss.Color = "#89b4fa"
	Lavender  lipgloss.Color = "#b4befe"

	Text     lipgloss.Color = "#cdd6f4"
	Subtext1 lipgloss.Color = "#bac2de"
	Subtext0 lipgloss.Color = "#a6adc8"
	Overlay2 lipgloss.Color = "#9399b2"
	Overlay1 lipgloss.Color = "#7f849c"
	Overlay0 lipgloss.Color = "#6c7086"
	Surface2 lipgloss.Color = "#585b70"
	Surface1 lipgloss.Color = "#45475a"
	Surface0 lipgloss.Color = "#313244"
	Base     lipgloss.Color = "#1e1e2e"
	Mantle   lipgloss.Color = "#181825"
	Crust    lipgloss.Color = "#11111b"
)

// Palette maps semantic roles to colors.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Surface   lipgloss.Color
	Base      lipgloss.Color
	Mantle    lipgloss.Color
}

// Theme is the palette plus the spacing unit in cells.
type Theme struct {
	Palette Palette
	Spacing int
}

// Default is Catppuccin Mocha with pink as the brand color.
func Default() Theme {
	return Theme{
		Palette: Palette{
			Primary:   Pink,
			Secondary: Lavender,
			Success:   Green,
			Warning:   Yellow,
			Info:      Teal,
			Error:     Red,
			Text:      Text,
			Muted:     Subtext0,
			Border:    Surface2,
			Surface:   Surface0,
			Base:      Base,
			Mantle:    Mantle,
		},
		Spacing: 1,
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// FromConfig applies config overrides on top of Default. Values that are not
// #rrggbb hex colors are ignored.
func FromConfig(c config.ThemeConfig) Theme {
	t := Default()
	override := func(dst *lipgloss.Color, v string) {
		if hexColor.MatchString(v) {
			*dst = lipgloss.Color(v)
		}
	}
	override(&t.Palette.Primary, c.Primary)
	override(&t.Palette.Secondary, c.Secondary)
	override(&t.Palette.Success, c.Success)
	override(&t.Palette.Warning, c.Warning)
	override(&t.Palette.Info, c.Info)
	override(&t.Palette.Error, c.Error)
	if c.Spacing >= 0 && c.Spacing <= 4 {
		t.Spacing = c.Spacing
	}
	return t
}

// StatusColor maps a content status to its badge color.
func (t Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case library.StatusPublished:
		return t.Palette.Success
	case library.StatusDraft:
		return t.Palette.Warning
	case library.StatusScheduled:
		return t.Palette.Info
	}
	return t.Palette.Primary
}

// SeriesColors returns the colors used for chart series, in order.
func (t Theme) SeriesColors() []lipgloss.Color {
	return []lipgloss.Color{t.Palette.Primary, t.Palette.Info, t.Palette.Warning, t.Palette.Secondary, Peach, Sapphire}
}

// AllPaletteColors returns every Catppuccin Mocha color for testing purposes.
func AllPaletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		Rosewater, Flamingo, Pink, Mauve,
		Red, Maroon, Peach, Yellow,
		Green, Teal, Sky, Sapphire,
		Blue, Lavender,
		Text, Subtext1, Subtext0,
		Overlay2, Overlay1, Overlay0,
		Surface2, Surface1, Surface0,
		Base, Mantle, Crust,
	}
}
