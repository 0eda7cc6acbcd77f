package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Copy      key.Binding
	Clear     key.Binding
	Help      key.Binding
	Backspace key.Binding
	Newline   key.Binding
	// Backward covers every key that would move the insertion point away
	// from the end of the text.
	Backward key.Binding
	// Forward keys are accepted, the cursor is already at the end.
	Forward key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "more"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		Newline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "newline"),
		),
		Backward: key.NewBinding(
			key.WithKeys("left", "up", "home", "pgup", "ctrl+a", "ctrl+b", "ctrl+p", "alt+left", "alt+b", "ctrl+left"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "down", "end", "pgdown", "ctrl+e", "ctrl+f", "ctrl+n"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Copy, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Newline, k.Backspace, k.Clear},
		{k.Copy, k.Help, k.Quit},
	}
}
