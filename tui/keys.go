package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

type keyMap struct {
	Submit      key.Binding
	Newline     key.Binding
	CycleMode   key.Binding
	LoadTile    key.Binding
	Clear       key.Binding
	Palette     key.Binding
	ModeHelp    key.Binding
	Focus       key.Binding
	Copy        key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Close       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send / details")),
		Newline:     key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "newline")),
		CycleMode:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "mode")),
		LoadTile:    key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4", "f5"), key.WithHelp("F1-F5", "load")),
		Clear:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
		Palette:     key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "commands")),
		ModeHelp:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "mode info")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "grid/chat")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		HistoryPrev: key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑", "prev prompt")),
		HistoryNext: key.NewBinding(key.WithKeys("alt+down"), key.WithHelp("alt+↓", "next prompt")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CycleMode, k.LoadTile, k.Focus, k.Palette, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.HistoryPrev, k.HistoryNext},
		{k.CycleMode, k.ModeHelp, k.LoadTile, k.Focus},
		{k.Clear, k.Copy, k.ScrollUp, k.ScrollDown},
		{k.Palette, k.Close, k.Quit},
	}
}

// tileKeys maps the function keys to the dataset tiles in order.
var tileKeys = map[string]domain.Dataset{
	"f1": domain.DatasetCustomers,
	"f2": domain.DatasetTopCustomers,
	"f3": domain.DatasetProducts,
	"f4": domain.DatasetTopProducts,
	"f5": domain.DatasetOrders,
}
