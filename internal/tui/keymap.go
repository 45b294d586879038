package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the entry form keyboard shortcuts.
type KeyMap struct {
	// Navigation
	NextField key.Binding
	PrevField key.Binding
	PrevType  key.Binding
	NextType  key.Binding

	// Actions
	Save    key.Binding
	TripEnd key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab/↓", "다음 항목"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab/↑", "이전 항목"),
		),
		PrevType: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "이전 종류"),
		),
		NextType: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "다음 종류"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "저장"),
		),
		TripEnd: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "운행 종료"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "종료"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "강제 종료"),
		),
	}
}

// ShortHelp returns key bindings for the help footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Save, k.TripEnd, k.Quit}
}

// FullHelp returns all key bindings grouped by concern.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.PrevType, k.NextType},
		{k.Save, k.TripEnd, k.Quit, k.ForceQuit},
	}
}
