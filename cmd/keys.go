package cmd

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/padedit-cli/internal/editor"
)

// keyMap gamepad eşleşmesinin klavye karşılığıdır.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Shrink  key.Binding
	Grow    key.Binding
	First   key.Binding
	Last    key.Binding
	Confirm key.Binding
	Back    key.Binding
	Preview key.Binding
	Reset   key.Binding
	Apply   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "yukarı"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "aşağı"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "geri kaydır"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "ileri kaydır"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "daralt"),
		),
		Grow: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "genişlet"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "pgup", "g"),
			key.WithHelp("home", "ilk / adım küçült"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "pgdown", "G"),
			key.WithHelp("end", "son / adım büyüt"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "seç"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "geri"),
		),
		Preview: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "önizle"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "sıfırla"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "uygula"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "çıkış"),
		),
	}
}

// action tuşu makine eylemine çevirir. Eşleşme yoksa ActionNone döner.
func (k keyMap) action(msg tea.KeyMsg) editor.Action {
	switch {
	case key.Matches(msg, k.Up):
		return editor.ActionUp
	case key.Matches(msg, k.Down):
		return editor.ActionDown
	case key.Matches(msg, k.Left):
		return editor.ActionLeft
	case key.Matches(msg, k.Right):
		return editor.ActionRight
	case key.Matches(msg, k.Shrink):
		return editor.ActionShrink
	case key.Matches(msg, k.Grow):
		return editor.ActionGrow
	case key.Matches(msg, k.First):
		return editor.ActionFirst
	case key.Matches(msg, k.Last):
		return editor.ActionLast
	case key.Matches(msg, k.Confirm):
		return editor.ActionConfirm
	case key.Matches(msg, k.Back):
		return editor.ActionBack
	case key.Matches(msg, k.Preview):
		return editor.ActionPreview
	case key.Matches(msg, k.Reset):
		return editor.ActionReset
	case key.Matches(msg, k.Apply):
		return editor.ActionApply
	}
	return editor.ActionNone
}

func (k keyMap) selectionHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.First, k.Last, k.Confirm, k.Quit}
}

func (k keyMap) editingHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Shrink, k.Grow, k.Preview, k.Reset, k.Apply, k.Back}
}
