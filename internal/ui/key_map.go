package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = keyMap{}

// keyMap holds the bindings every view draws its help line from.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func newKeyMap() keyMap {
	return keyMap{
		up:      binding("↑/k", "up", "up", "k"),
		down:    binding("↓/j", "down", "down", "j"),
		enter:   binding("enter", "open", "enter"),
		back:    binding("esc", "back", "esc"),
		yes:     binding("y", "export", "y"),
		no:      binding("n", "cancel", "n"),
		restart: binding("r", "pick another", "r"),
		quit:    binding("q", "quit", "q", "ctrl+c"),
	}
}

// ShortHelp implements [help.KeyMap].
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

// FullHelp implements [help.KeyMap].
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.yes, k.no},
		{k.restart, k.quit},
	}
}
