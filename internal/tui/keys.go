package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	Search   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Add      key.Binding
	Save     key.Binding
	Reload   key.Binding

	// entry editor, active while an input has focus
	Commit      key.Binding
	Cancel      key.Binding
	SwitchField key.Binding
	Undo        key.Binding
	Clean       key.Binding
	LineBreak   key.Binding
	Toggle      key.Binding
	CustomHex   key.Binding
	Delete      key.Binding
	Presets     []key.Binding
	Confirm     key.Binding
	Deny        key.Binding
}

func newKeyMap(presets []string) keyMap {
	km := keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right column")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		Commit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "apply")),
		Cancel:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
		SwitchField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "key/value")),
		Undo:        key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Clean:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clean tags")),
		LineBreak:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "line break")),
		Toggle:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "preview/source")),
		CustomHex:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "custom color")),
		Delete:      key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Confirm:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Deny:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
	}

	for i := range presets {
		if i >= 9 {
			break
		}
		k := "alt+" + string(rune('1'+i))
		km.Presets = append(km.Presets, key.NewBinding(key.WithKeys(k), key.WithHelp(k, presets[i])))
	}
	return km
}

// presetIndex returns which preset binding msg matches, or -1.
func (k keyMap) presetIndex(msg tea.KeyMsg) int {
	for i, b := range k.Presets {
		if key.Matches(msg, b) {
			return i
		}
	}
	return -1
}
