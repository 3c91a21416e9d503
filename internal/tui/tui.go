// Package tui is the interactive lang editor: a mod and file picker, an
// entry browser with search and paging, and an entry editor with colored
// preview.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lang-editor/internal/browse"
	"lang-editor/internal/journal"
	"lang-editor/internal/langfile"
	"lang-editor/internal/preview"
	"lang-editor/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Options configure an editor run.
type Options struct {
	// File opens a lang file directly. When empty the picker starts on
	// ModsDir.
	File          string
	ModsDir       string
	LanguagePaths []string
	Presets       []string
	PageSize      int
	Journal       journal.Recorder
}

type page int

const (
	pickerPage page = iota
	browserPage
	editorPage
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	opts   Options
	keys   keyMap
	help   help.Model
	render *preview.Renderer

	page          page
	width, height int

	picker  picker
	browser browser
	editor  editor

	doc      *langfile.Document
	snapshot map[string]string
	watcher  *watch.Watcher

	status    string
	statusErr bool
	// armed holds the action waiting for a second keypress because it
	// would drop unsaved changes. Any other key disarms it.
	armed    string
	wasArmed string
}

// New prepares the editor, loading opts.File or scanning the mods
// directory.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.PageSize < 1 {
		opts.PageSize = browse.DefaultPageSize
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}

	m := Model{
		ctx:     ctx,
		opts:    opts,
		keys:    newKeyMap(opts.Presets),
		help:    help.New(),
		render:  preview.New(os.Stdout),
		browser: newBrowser(),
	}

	if opts.File != "" {
		if err := m.openFile(opts.File); err != nil {
			return Model{}, err
		}
		return m, nil
	}

	if err := m.picker.loadMods(opts.ModsDir, opts.LanguagePaths); err != nil {
		return Model{}, err
	}
	m.page = pickerPage
	return m, nil
}

// Run starts the editor and blocks until it quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.watcher != nil {
		fm.watcher.Close()
	}
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

// fileChangedMsg is sent when the open file is touched by someone else.
type fileChangedMsg struct {
	watcher *watch.Watcher
}

// waitForChange blocks until w fires. A closed watcher ends the chain.
func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return fileChangedMsg{watcher: w}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.watcher)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.resize(msg.Width, msg.Height)
		m.browser.search.Width = max(msg.Width-12, 10)
		return m, nil

	case fileChangedMsg:
		// a notification from the watcher of a file no longer open
		if msg.watcher != m.watcher {
			return m, nil
		}
		if changed, err := m.doc.ChangedOnDisk(); err == nil && changed {
			m.status = fmt.Sprintf("%s changed on disk, press r in the list to reload", m.doc.FileName())
			m.statusErr = true
		}
		return m, waitForChange(m.watcher)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.page != editorPage {
			return m, tea.Quit
		}
		m.wasArmed, m.armed = m.armed, ""
		switch m.page {
		case pickerPage:
			return m.updatePicker(msg)
		case browserPage:
			return m.updateBrowser(msg)
		case editorPage:
			return m.updateEditor(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	var bindings []key.Binding

	switch m.page {
	case pickerPage:
		body, bindings = m.viewPicker()
	case browserPage:
		body, bindings = m.viewBrowser()
	case editorPage:
		body, bindings = m.viewEditor()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	log.Debug().Err(err).Msg("Editor action failed")
}

// guardUnsaved reports whether action may run. With unsaved changes the
// first request only arms it and warns.
func (m *Model) guardUnsaved(action, what string) bool {
	if m.doc == nil || !m.doc.Dirty() || m.wasArmed == action {
		return true
	}
	m.armed = action
	m.status = fmt.Sprintf("Unsaved changes, press again to %s", what)
	m.statusErr = true
	return false
}

// openFile loads path and switches to the browser.
func (m *Model) openFile(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	doc := langfile.New()
	if err := doc.Load(path); err != nil {
		return err
	}
	m.doc = doc
	m.snapshot = journal.Snapshot(doc)
	m.watchFile()
	m.browser.reset()
	m.browser.refresh(doc, m.opts.PageSize)
	m.page = browserPage
	m.setStatus("Loaded %s", doc.FileName())
	return nil
}

// watchFile replaces the watcher with one on the open document. Without a
// watcher the editor only notices outside changes when saving.
func (m *Model) watchFile() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	w, err := watch.New(m.doc.Path())
	if err != nil {
		log.Warn().Err(err).Str("path", m.doc.Path()).Msg("Cannot watch lang file")
		return
	}
	m.watcher = w
}

func (m *Model) save() {
	after, err := journal.SaveAndRecord(m.ctx, m.opts.Journal, m.doc, m.snapshot)
	if err != nil {
		m.setError(err)
		return
	}
	m.snapshot = after
	m.browser.refresh(m.doc, m.opts.PageSize)
	m.setStatus("Saved %s", m.doc.FileName())
}

func (m *Model) reload() {
	if err := m.doc.Reload(); err != nil {
		m.setError(err)
		return
	}
	m.snapshot = journal.Snapshot(m.doc)
	m.browser.refresh(m.doc, m.opts.PageSize)
	m.setStatus("Reloaded %s", m.doc.FileName())
}
