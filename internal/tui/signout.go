package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var keySignIn = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in"))

// signOutScreen stands in for the login page; there is no real session.
type signOutScreen struct{ env *env }

func newSignOutScreen(e *env) *signOutScreen { return &signOutScreen{env: e} }

func (s *signOutScreen) Init() tea.Cmd { return nil }

func (s *signOutScreen) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.KeyMsg); ok && key.Matches(m, keySignIn) {
		return navigate("/")
	}
	return nil
}

func (s *signOutScreen) Bindings() []key.Binding { return []key.Binding{keySignIn} }
func (s *signOutScreen) Capturing() bool         { return false }

func (s *signOutScreen) View(width, height int) string {
	st := s.env.styles
	card := st.Card.Render(st.Title.Render("Signed out") + "\n\n" +
		st.Muted.Render("You have been signed out of "+appName+".") + "\n" +
		st.Key.Render("enter") + " " + st.HelpDesc.Render("sign in again"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
