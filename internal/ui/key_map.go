package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	pause key.Binding
	left  key.Binding
	right key.Binding
	open  key.Binding
	edit  key.Binding
	enter key.Binding
	tab   key.Binding
	back  key.Binding
	retry key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		open:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open council page")),
		edit:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit data")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "save and next")),
		back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pause, k.left, k.right},
		{k.edit, k.enter, k.tab},
		{k.back, k.retry, k.quit},
	}
}
