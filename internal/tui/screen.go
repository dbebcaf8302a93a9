package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/theme"
)

// screen is one section's content area. The app owns exactly one at a time
// and builds a fresh one each time a section is entered.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Bindings are shown in the footer next to the global keys.
	Bindings() []key.Binding
	// Capturing reports a focused text input; global keys are not
	// interpreted while it is true.
	Capturing() bool
}

// closer is implemented by screens holding work that must stop on unmount.
type closer interface {
	Close()
}

// env is what screens share with the app.
type env struct {
	ctx    context.Context
	svc    Services
	cfg    config.Config
	theme  theme.Theme
	styles theme.Styles
}

func cmdErr(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// cursorMode keeps text cursors still when animations are off.
func (e *env) cursorMode() cursor.Mode {
	if e.cfg.UI.Animations {
		return cursor.CursorBlink
	}
	return cursor.CursorStatic
}
