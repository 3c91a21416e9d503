package tui

import (
	"errors"
	"fmt"
	"strings"

	"lang-editor/internal/langfile"
	"lang-editor/internal/markup"
	"lang-editor/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type editorField int

const (
	fieldKey editorField = iota
	fieldValue
	fieldHex
)

// editor edits one entry through a session. The value input holds the
// display form of the draft, with real line breaks.
type editor struct {
	sess          *session.Session
	keyInput      textinput.Model
	valueInput    textarea.Model
	hexInput      textinput.Model
	focus         editorField
	confirmDelete bool
}

func newEditor(sess *session.Session, width, height int) editor {
	ki := textinput.New()
	ki.Prompt = ""
	ki.Placeholder = "entry.key"
	ki.SetValue(sess.DraftKey())

	va := textarea.New()
	va.ShowLineNumbers = false
	va.Placeholder = "Value"
	va.SetValue(sess.DisplayValue())

	hi := textinput.New()
	hi.Prompt = "#"
	hi.Placeholder = "rrggbb"
	hi.CharLimit = 7

	e := editor{sess: sess, keyInput: ki, valueInput: va, hexInput: hi}
	e.resize(width, height)
	if sess.IsNew() {
		e.focusField(fieldKey)
	} else {
		e.focusField(fieldValue)
	}
	return e
}

// resize fits the inputs to the terminal. It is a no-op until an entry is
// opened, as the zero editor has no inputs yet.
func (e *editor) resize(width, height int) {
	if e.sess == nil || width <= 0 {
		return
	}
	e.keyInput.Width = max(width-10, 10)
	e.valueInput.SetWidth(max(width-4, 20))
	e.valueInput.SetHeight(min(max(height/3, 3), 12))
}

func (e *editor) focusField(f editorField) tea.Cmd {
	e.focus = f
	e.keyInput.Blur()
	e.valueInput.Blur()
	e.hexInput.Blur()
	switch f {
	case fieldKey:
		return e.keyInput.Focus()
	case fieldHex:
		e.hexInput.SetValue("")
		return e.hexInput.Focus()
	default:
		return e.valueInput.Focus()
	}
}

// syncFromSession copies a value changed by the session into the input.
func (e *editor) syncFromSession() {
	e.valueInput.SetValue(e.sess.DisplayValue())
}

// syncToSession copies what was typed into the session draft.
func (e *editor) syncToSession() {
	e.sess.SetDraftKey(strings.TrimSpace(e.keyInput.Value()))
	e.sess.SetDisplayValue(e.valueInput.Value())
}

func (m *Model) openEditor(entry *langfile.Entry) tea.Cmd {
	m.editor = newEditor(session.Open(entry), m.width, m.height)
	m.page = editorPage
	m.status = ""
	return m.editor.focusField(m.editor.focus)
}

func (m *Model) closeEditor() {
	m.page = browserPage
	m.browser.refresh(m.doc, m.opts.PageSize)
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor

	if e.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			target := e.sess.Target().Key()
			if err := e.sess.Delete(m.doc); err != nil {
				e.confirmDelete = false
				m.setError(err)
				return m, nil
			}
			m.closeEditor()
			m.setStatus("Deleted %s (unsaved)", target)
		case key.Matches(msg, m.keys.Deny):
			e.confirmDelete = false
		}
		return m, nil
	}

	if e.focus == fieldHex {
		switch msg.String() {
		case "enter":
			hex, ok := markup.NormalizeHex(e.hexInput.Value())
			if !ok {
				m.setError(fmt.Errorf("%q is not a #RRGGBB color", e.hexInput.Value()))
				return m, nil
			}
			e.syncToSession()
			e.sess.InsertColorTag(hex)
			e.syncFromSession()
			return m, e.focusField(fieldValue)
		case "esc":
			return m, e.focusField(fieldValue)
		}
		var cmd tea.Cmd
		e.hexInput, cmd = e.hexInput.Update(msg)
		return m, cmd
	}

	if i := m.keys.presetIndex(msg); i >= 0 {
		e.syncToSession()
		e.sess.InsertColorTag(m.opts.Presets[i])
		e.syncFromSession()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Commit):
		return m.commitEditor()

	case key.Matches(msg, m.keys.Cancel):
		e.sess.Cancel()
		m.closeEditor()
		return m, nil

	case key.Matches(msg, m.keys.SwitchField):
		if e.focus == fieldKey {
			return m, e.focusField(fieldValue)
		}
		return m, e.focusField(fieldKey)

	case key.Matches(msg, m.keys.Delete):
		if e.sess.IsNew() {
			m.setError(session.ErrNewEntry)
			return m, nil
		}
		e.confirmDelete = true
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		e.syncToSession()
		res := e.sess.Undo()
		e.syncFromSession()
		m.setStatus("%s", capitalize(res.String()))
		return m, nil

	case key.Matches(msg, m.keys.Clean):
		e.syncToSession()
		e.sess.ApplyCleanTags()
		e.syncFromSession()
		return m, nil

	case key.Matches(msg, m.keys.LineBreak):
		e.syncToSession()
		e.sess.InsertLineBreak()
		e.syncFromSession()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		e.sess.ToggleViewMode()
		return m, nil

	case key.Matches(msg, m.keys.CustomHex):
		return m, e.focusField(fieldHex)
	}

	var cmd tea.Cmd
	if e.focus == fieldKey {
		e.keyInput, cmd = e.keyInput.Update(msg)
	} else {
		e.valueInput, cmd = e.valueInput.Update(msg)
	}
	e.syncToSession()
	return m, cmd
}

func (m Model) commitEditor() (tea.Model, tea.Cmd) {
	e := &m.editor
	e.syncToSession()

	draftKey := e.sess.DraftKey()
	isNew := e.sess.IsNew()
	if err := e.sess.Commit(m.doc); err != nil {
		switch {
		case errors.Is(err, langfile.ErrDuplicateKey):
			m.setError(fmt.Errorf("key %q already exists", draftKey))
		case errors.Is(err, langfile.ErrEmptyKey):
			m.setError(errors.New("key must not be empty"))
		default:
			m.setError(err)
		}
		return m, nil
	}

	m.closeEditor()
	if isNew {
		m.setStatus("Added %s (unsaved)", draftKey)
	} else {
		m.setStatus("Updated %s (unsaved)", draftKey)
	}
	return m, nil
}

func (m Model) viewEditor() (string, []key.Binding) {
	e := m.editor
	var b strings.Builder

	title := "Edit entry"
	if e.sess.IsNew() {
		title = "New entry"
	}
	b.WriteString(titleStyle.Render(title) + " " + dimStyle.Render(e.sess.Mode().String()) + "\n\n")

	b.WriteString(labelStyle.Render("Key") + "\n")
	b.WriteString(e.keyInput.View() + "\n\n")
	b.WriteString(labelStyle.Render("Value") + "\n")
	b.WriteString(e.valueInput.View() + "\n")

	var presets []string
	for i, c := range m.opts.Presets {
		if i >= len(m.keys.Presets) {
			break
		}
		presets = append(presets, fmt.Sprintf("%d%s", i+1, swatch(c)))
	}
	b.WriteString(dimStyle.Render("alt+") + strings.Join(presets, " ") + "\n")
	if e.focus == fieldHex {
		b.WriteString(labelStyle.Render("Color ") + e.hexInput.View() + "\n")
	}
	b.WriteString("\n")

	if e.sess.Mode() == session.ModePreview {
		var lines []string
		for _, l := range e.sess.Preview() {
			lines = append(lines, m.render.Line(l))
		}
		b.WriteString(panelStyle.Render(strings.Join(lines, "\n")) + "\n")
	} else {
		b.WriteString(panelStyle.Render(e.sess.DraftValue()) + "\n")
	}

	if e.confirmDelete {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Delete %q? y/n", e.sess.Target().Key())) + "\n")
		return b.String(), []key.Binding{m.keys.Confirm, m.keys.Deny}
	}

	bindings := []key.Binding{m.keys.Commit, m.keys.Cancel, m.keys.SwitchField, m.keys.Undo, m.keys.Clean, m.keys.LineBreak, m.keys.CustomHex, m.keys.Toggle}
	if !e.sess.IsNew() {
		bindings = append(bindings, m.keys.Delete)
	}
	return b.String(), bindings
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
