package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"lang-editor/internal/filewalker"
	"lang-editor/internal/textutil"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// picker lists mods, then the lang files of the chosen mod.
type picker struct {
	modsDir string
	mods    []filewalker.ModInfo
	files   []filewalker.FileInfo
	// inMod is the index of the open mod, -1 while listing mods.
	inMod  int
	cursor int
}

func (p *picker) loadMods(modsDir string, languagePaths []string) error {
	mods, err := filewalker.ScanMods(modsDir, languagePaths)
	if err != nil {
		return err
	}
	p.modsDir = modsDir
	p.mods = mods
	p.files = nil
	p.inMod = -1
	p.cursor = 0
	return nil
}

func (p *picker) openMod(i int) error {
	files, err := filewalker.Browse(p.mods[i].Path)
	if err != nil {
		return err
	}
	p.files = files
	p.inMod = i
	p.cursor = 0

	preferred := p.mods[i].PreferredFile()
	if preferred == "" {
		return nil
	}
	if abs, err := filepath.Abs(preferred); err == nil {
		preferred = abs
	}
	for idx, f := range files {
		if f.Path == preferred {
			p.cursor = idx
			break
		}
	}
	return nil
}

func (p *picker) size() int {
	if p.inMod < 0 {
		return len(p.mods)
	}
	return len(p.files)
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.picker

	switch {
	case key.Matches(msg, m.keys.Up):
		p.cursor = max(p.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		p.cursor = min(p.cursor+1, max(p.size()-1, 0))

	case key.Matches(msg, m.keys.Select):
		if p.size() == 0 {
			return m, nil
		}
		if p.inMod < 0 {
			if err := p.openMod(p.cursor); err != nil {
				m.setError(err)
			}
			return m, nil
		}
		if !m.guardUnsaved("open", "open another file") {
			return m, nil
		}
		if err := m.openFile(p.files[p.cursor].Path); err != nil {
			m.setError(err)
			return m, nil
		}
		return m, waitForChange(m.watcher)

	case key.Matches(msg, m.keys.Back):
		if p.inMod >= 0 {
			p.cursor = p.inMod
			p.inMod = -1
			p.files = nil
		} else if m.doc != nil {
			m.page = browserPage
		}

	case key.Matches(msg, m.keys.Reload):
		if err := p.loadMods(p.modsDir, m.opts.LanguagePaths); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, m.keys.Quit):
		if m.guardUnsaved("quit", "quit") {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) viewPicker() (string, []key.Binding) {
	p := m.picker
	var b strings.Builder
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back, m.keys.Reload, m.keys.Quit}

	if p.inMod < 0 {
		b.WriteString(titleStyle.Render("Mods in " + p.modsDir))
		b.WriteString("\n\n")
		if len(p.mods) == 0 {
			b.WriteString(dimStyle.Render("No mods with lang files found"))
			return b.String(), bindings
		}
		for i, mod := range p.mods {
			line := fmt.Sprintf("%-32s %s", textutil.Truncate(mod.Name, 32), dimStyle.Render("["+strings.Join(mod.LanguageLabels(), ",")+"]"))
			b.WriteString(pickerRow(line, i == p.cursor))
		}
		return b.String(), bindings
	}

	mod := p.mods[p.inMod]
	b.WriteString(titleStyle.Render(mod.Name))
	b.WriteString("\n\n")
	if len(p.files) == 0 {
		b.WriteString(dimStyle.Render("No lang files in this mod"))
		return b.String(), bindings
	}
	for i, f := range p.files {
		name := f.RelPath
		if f.IsServerLang() {
			name = labelStyle.Render(name)
		}
		line := fmt.Sprintf("%s %s", name, dimStyle.Render(fmt.Sprintf("(%d %s)", f.Entries, textutil.Plural(f.Entries, "entry"))))
		b.WriteString(pickerRow(line, i == p.cursor))
	}
	return b.String(), bindings
}

func pickerRow(line string, selected bool) string {
	if selected {
		return "> " + selectedStyle.Render(line) + "\n"
	}
	return "  " + line + "\n"
}
