package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/rangmanch/internal/nav"
	"github.com/jask/rangmanch/internal/tui/widgets"
)

const (
	appName      = "Rangmanch"
	sidebarWidth = 24
)

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading..."
	}
	header := a.renderHeader()
	status := a.renderStatus()
	footer := a.renderFooter()
	bodyH := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))

	contentW := a.width
	if a.nav.PanelOpen && !a.nav.Compact {
		contentW = max(1, a.width-sidebarWidth)
	}
	content := a.anim.Apply(a.screen.View(contentW, bodyH), a.styles.Muted)
	content = lipgloss.NewStyle().Width(contentW).Height(bodyH).MaxHeight(bodyH).Render(content)

	body := content
	if a.nav.PanelOpen {
		side := a.renderSidebar(bodyH)
		if a.nav.Compact {
			body = overlayLeft(content, side, a.width)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, side, content)
		}
	}
	if a.showHelp {
		body = widgets.RenderPopup(body, a.help.FullHelpView(a.keys.FullHelp()), a.width, bodyH, a.theme.Palette.Primary)
	}
	if a.palette != nil {
		body = widgets.RenderPopup(body, a.renderPalette(), a.width, bodyH, a.theme.Palette.Secondary)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

func (a *App) renderHeader() string {
	name := a.styles.Title.Render(appName)
	section := a.styles.Subtitle.Render(a.nav.Section.Title())
	menu := "☰"
	if a.nav.PanelOpen {
		menu = "✕"
	}
	left := menu + "  " + name + "  " + section
	now := time.Now().In(a.cfg.Location()).Format("Mon " + a.cfg.UI.DateFormat)
	right := a.styles.Muted.Render(now)
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2*a.theme.Spacing)
	return a.styles.HeaderBar.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) renderSidebar(height int) string {
	var lines []string
	var group nav.Group
	for _, it := range nav.Items() {
		if it.Group != group {
			if group != "" {
				lines = append(lines, "")
			}
			group = it.Group
			lines = append(lines, a.styles.NavGroup.Render(string(group)))
		}
		label := it.Key + " " + it.Label
		if it.Section == a.nav.Section {
			lines = append(lines, a.styles.NavActive.Width(sidebarWidth-2).Render(label))
		} else {
			lines = append(lines, a.styles.NavInactive.Render(label))
		}
	}
	return a.styles.Sidebar.
		Width(sidebarWidth - 1).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatus() string {
	text := strings.ReplaceAll(a.status, "\n", " ")
	style := a.styles.Status
	if a.statusErr {
		style = a.styles.StatusErr
	}
	return style.Width(a.width).Render(widgets.Truncate(text, a.width))
}

func (a *App) renderFooter() string {
	bindings := append(a.screen.Bindings(), a.keys.ShortHelp()...)
	return a.renderHelpLine(bindings)
}

func (a *App) renderHelpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, a.styles.Key.Render(h.Key)+" "+a.styles.HelpDesc.Render(h.Desc))
	}
	return widgets.Truncate(strings.Join(parts, "  "), a.width)
}

// overlayLeft draws side over the left edge of base, like a drawer.
func overlayLeft(base, side string, width int) string {
	baseLines := strings.Split(base, "\n")
	sideLines := strings.Split(side, "\n")
	sideW := lipgloss.Width(side)
	for i := range baseLines {
		if i >= len(sideLines) {
			break
		}
		rest := ""
		if w := lipgloss.Width(baseLines[i]); w > sideW {
			rest = widgets.CutLeft(baseLines[i], sideW)
		}
		baseLines[i] = widgets.PadRight(widgets.PadRight(sideLines[i], sideW)+rest, width)
	}
	return strings.Join(baseLines, "\n")
}
