package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Select     key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Wider      key.Binding
	Tighter    key.Binding
	Labels     key.Binding
	Extended   key.Binding
	Reset      key.Binding
	Fullscreen key.Binding
	Tab        key.Binding
	Close      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next node")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "prev node")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Wider:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "more spacing")),
		Tighter:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "less spacing")),
		Labels:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
		Extended:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "projects & experience")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Tab:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "connections/details")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close panel")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Select, k.ZoomIn, k.ZoomOut, k.Extended, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Select, k.Close, k.Tab},
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Fullscreen},
		{k.Wider, k.Tighter, k.Labels, k.Extended},
		{k.Help, k.Quit},
	}
}
