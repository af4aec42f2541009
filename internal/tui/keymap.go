package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all key bindings for the TUI.
// Groups:
//   - Navigation: Up, Down (list), Tab/ShiftTab (app cycling)
//   - Action:     Enter (select/activate), Esc (back/exit)
//   - Record ops: Add, Edit, Delete, Duplicate, MoveUp, MoveDown
//   - Extras:     Probe, Copy, Failover, Filter
//   - Utility:    Help, Quit, ForceQuit
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// App cycling on list screens
	Tab      key.Binding
	ShiftTab key.Binding

	Enter key.Binding
	Esc   key.Binding

	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding

	Probe    key.Binding
	Copy     key.Binding
	Failover key.Binding
	Filter   key.Binding

	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// ShortHelp returns bindings shown in the compact helpline.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Esc, k.Help}
}

// FullHelp returns all bindings grouped into columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.ShiftTab, k.Enter, k.Esc, k.Filter},
		{k.Add, k.Edit, k.Delete, k.Duplicate, k.MoveUp, k.MoveDown},
		{k.Probe, k.Copy, k.Failover, k.Help, k.Quit, k.ForceQuit},
	}
}

// Keys is the default key map used throughout the TUI.
var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next app"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev app"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select/activate"),
	),
	Esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move item up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move item down"),
	),
	Probe: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "probe endpoint"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy to clipboard"),
	),
	Failover: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "toggle failover"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "f1"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}
