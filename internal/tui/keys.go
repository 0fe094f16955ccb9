package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the timer bindings and feeds the help bar
type keyMap struct {
	Stop  key.Binding
	Leave key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Stop: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "stop & save"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "exit (keep running)"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Leave, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
