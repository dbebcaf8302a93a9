package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/rangmanch/internal/nav"
)

// keyMap holds the bindings that work on every screen.
type keyMap struct {
	Quit        key.Binding
	TogglePanel key.Binding
	Help        key.Binding
	Palette     key.Binding
	Sections    []key.Binding
}

func newKeyMap() keyMap {
	km := keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		TogglePanel: key.NewBinding(key.WithKeys("ctrl+b", "\\"), key.WithHelp("\\", "toggle menu")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:     key.NewBinding(key.WithKeys("ctrl+k", ":"), key.WithHelp(":", "commands")),
	}
	for _, it := range nav.Items() {
		km.Sections = append(km.Sections, key.NewBinding(key.WithKeys(it.Key), key.WithHelp(it.Key, it.Label)))
	}
	return km
}

// sectionPath returns the nav path bound to a key press, if any.
func (k keyMap) sectionPath(msg string) (string, bool) {
	items := nav.Items()
	for i, b := range k.Sections {
		for _, want := range b.Keys() {
			if msg == want {
				return items[i].Path, true
			}
		}
	}
	return "", false
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePanel, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Sections, {k.TogglePanel, k.Palette, k.Help, k.Quit}}
}

// Bindings shared by the list-style screens.
var (
	keyUp    = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keyDown  = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev"))
	keyRight = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next"))
	keyEnter = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	keyEsc   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
)
