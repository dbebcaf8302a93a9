package widgets

import "github.com/charmbracelet/lipgloss"

// Box draws Content inside a rounded border with Title on the first line.
type Box struct {
	Title   string
	Content string
	Style   lipgloss.Style
	// TitleStyle is applied to Title when set.
	TitleStyle *lipgloss.Style
}

func (b Box) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	style := b.Style.
		Border(lipgloss.RoundedBorder()).
		Width(max(1, width-2)).
		MaxHeight(height)
	if height > 2 {
		style = style.Height(height - 2)
	}
	title := b.Title
	if b.TitleStyle != nil {
		title = b.TitleStyle.Render(title)
	}
	if b.Title == "" {
		return style.Render(b.Content)
	}
	return style.Render(title + "\n" + b.Content)
}
