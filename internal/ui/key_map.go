package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	toggle   key.Binding
	create   key.Binding
	add      key.Binding
	play     key.Binding
	next     key.Binding
	previous key.Binding
	focus    key.Binding
	switchTo key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick/unpick")),
		create:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add picks here")),
		play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		previous: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous")),
		focus:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		switchTo: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.toggle, k.create, k.add},
		{k.play, k.next, k.previous},
		{k.focus, k.switchTo, k.quit},
	}
}
