package tui

import (
	"fmt"
	"strings"

	"lang-editor/internal/browse"
	"lang-editor/internal/langfile"
	"lang-editor/internal/textutil"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// browser is the searchable, paged entry list of the open document.
type browser struct {
	search  textinput.Model
	results []*langfile.Entry
	page    browse.Page[*langfile.Entry]
	number  int
	// cursor indexes page.Items.
	cursor int
}

func newBrowser() browser {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search keys and values"
	return browser{search: ti}
}

func (b *browser) reset() {
	b.search.SetValue("")
	b.search.Blur()
	b.number = 0
	b.cursor = 0
}

func (b *browser) refresh(doc *langfile.Document, size int) {
	b.results = doc.Search(b.search.Value())
	b.page = browse.Paginate(b.results, b.number, size)
	b.number = b.page.Number
	b.cursor = min(max(b.cursor, 0), max(len(b.page.Items)-1, 0))
}

func (b *browser) selected() (*langfile.Entry, bool) {
	if b.cursor < 0 || b.cursor >= len(b.page.Items) {
		return nil, false
	}
	return b.page.Items[b.cursor], true
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.browser
	size := m.opts.PageSize

	if b.search.Focused() {
		if key.Matches(msg, m.keys.Back, m.keys.Select) {
			b.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		b.search, cmd = b.search.Update(msg)
		b.number, b.cursor = 0, 0
		b.refresh(m.doc, size)
		return m, cmd
	}

	half := (len(b.page.Items) + 1) / 2

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, b.search.Focus()

	case key.Matches(msg, m.keys.Up):
		b.cursor = max(b.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		b.cursor = min(b.cursor+1, max(len(b.page.Items)-1, 0))
	case key.Matches(msg, m.keys.Right):
		if b.cursor < half && b.cursor+half < len(b.page.Items) {
			b.cursor += half
		}
	case key.Matches(msg, m.keys.Left):
		if b.cursor >= half {
			b.cursor -= half
		}

	case key.Matches(msg, m.keys.NextPage):
		if b.page.HasNext() {
			b.number++
			b.cursor = 0
			b.refresh(m.doc, size)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if b.page.HasPrev() {
			b.number--
			b.cursor = 0
			b.refresh(m.doc, size)
		}

	case key.Matches(msg, m.keys.Select):
		if e, ok := b.selected(); ok {
			return m, m.openEditor(e)
		}
	case key.Matches(msg, m.keys.Add):
		return m, m.openEditor(nil)

	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Reload):
		if m.guardUnsaved("reload", "reload and discard them") {
			m.reload()
		}

	case key.Matches(msg, m.keys.Back):
		if !m.guardUnsaved("back", "leave this file") {
			return m, nil
		}
		if m.picker.mods == nil {
			if err := m.picker.loadMods(m.opts.ModsDir, m.opts.LanguagePaths); err != nil {
				m.setError(err)
				return m, nil
			}
		}
		m.page = pickerPage

	case key.Matches(msg, m.keys.Quit):
		if m.guardUnsaved("quit", "quit") {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) viewBrowser() (string, []key.Binding) {
	b := m.browser
	var out strings.Builder

	header := titleStyle.Render(m.doc.FileName()) + " " +
		dimStyle.Render(fmt.Sprintf("%d %s", m.doc.Len(), textutil.Plural(m.doc.Len(), "entry")))
	if m.doc.Dirty() {
		header += " " + dirtyStyle.Render("● unsaved")
	}
	out.WriteString(header + "\n")
	out.WriteString(b.search.View() + "\n")
	out.WriteString(dimStyle.Render(b.page.Label()+" - "+b.page.ResultLabel()) + "\n\n")

	if len(b.page.Items) == 0 {
		out.WriteString(dimStyle.Render("No results") + "\n")
	} else {
		left, right := browse.Columns(b.page.Items)
		half := len(left)
		var lcol, rcol []string
		for i, e := range left {
			lcol = append(lcol, browserRow(e, i == b.cursor))
		}
		for i, e := range right {
			rcol = append(rcol, browserRow(e, half+i == b.cursor))
		}
		colWidth := browse.KeyWidth + 4
		out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(colWidth).Render(strings.Join(lcol, "\n")),
			lipgloss.NewStyle().Width(colWidth).Render(strings.Join(rcol, "\n")),
		))
		out.WriteString("\n")

		if e, ok := b.selected(); ok {
			lines := m.render.Value(e.Value())
			if len(lines) > 3 {
				lines = append(lines[:3], dimStyle.Render("…"))
			}
			out.WriteString("\n" + panelStyle.Render(strings.Join(lines, "\n")) + "\n")
		}
	}

	bindings := []key.Binding{m.keys.Search, m.keys.Select, m.keys.Add, m.keys.NextPage, m.keys.PrevPage, m.keys.Save, m.keys.Reload, m.keys.Back, m.keys.Quit}
	return out.String(), bindings
}

func browserRow(e *langfile.Entry, selected bool) string {
	label := browse.Row(e)
	style := cleanStyle
	if e.Dirty() {
		style = dirtyStyle
	}
	if selected {
		return "> " + selectedStyle.Inherit(style).Render(label)
	}
	return "  " + style.Render(label)
}
