package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	enter     key.Binding
	back      key.Binding
	yes       key.Binding
	no        key.Binding
	toggle    key.Binding
	selectAll key.Binding
	clear     key.Binding
	remove    key.Binding
	move      key.Binding
	save      key.Binding
	grab      key.Binding
	edit      key.Binding
	add       key.Binding
	refresh   key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		selectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		remove:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		grab:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit album")),
		add:       key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add photos")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.remove, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.enter},
		{k.toggle, k.selectAll, k.clear, k.remove, k.move, k.save},
		{k.grab, k.edit, k.add, k.refresh, k.back, k.quit},
	}
}
