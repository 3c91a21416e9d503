package filewalker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// LangExt is the extension of translation files.
const LangExt = ".lang"

const (
	// modScanDepth bounds how deep a mod directory is searched for lang files.
	modScanDepth = 4
	// browseDepth bounds the file browser below a mod directory.
	browseDepth = 5
)

// DefaultLanguagePaths are the locations, relative to a mod directory, where
// a mod's main lang file usually lives. Earlier paths are preferred.
var DefaultLanguagePaths = []string{
	"Server/Languages/en-US/server.lang",
	"Server/Languages/fr-FR/server.lang",
	"Common/Languages/en-US/server.lang",
	"Languages/en-US/server.lang",
}

// FindLangFiles returns every lang file below root, sorted.
func FindLangFiles(root string) ([]string, error) {
	return findFiles(root, 0)
}

// findFiles globs root for lang files. A maxDepth above zero limits how many
// path segments below root a file may sit at.
func findFiles(root string, maxDepth int) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*"+LangExt, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob lang files: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if maxDepth > 0 && strings.Count(m, "/")+1 > maxDepth {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(files)

	log.Debug().Int("count", len(files)).Str("root", root).Msg("Discovered lang files")
	return files, nil
}

// ModInfo describes a mod directory that ships lang files.
type ModInfo struct {
	Name string
	Path string
	// Languages holds the matching preferred language paths, relative to Path.
	Languages []string
	// LangFiles counts every lang file found in the mod.
	LangFiles int
}

// PreferredFile returns the lang file to open by default: an en-US file if
// one of the preferred paths has it, else the first preferred path found.
// It returns "" when the mod has no file at a preferred path.
func (m ModInfo) PreferredFile() string {
	if len(m.Languages) == 0 {
		return ""
	}
	for _, rel := range m.Languages {
		if strings.Contains(rel, "en-US") {
			return filepath.Join(m.Path, filepath.FromSlash(rel))
		}
	}
	return filepath.Join(m.Path, filepath.FromSlash(m.Languages[0]))
}

// LanguageLabels returns short labels (EN, FR) for the preferred paths found.
func (m ModInfo) LanguageLabels() []string {
	labels := make([]string, 0, len(m.Languages))
	for _, rel := range m.Languages {
		switch {
		case strings.Contains(rel, "en-US"):
			labels = append(labels, "EN")
		case strings.Contains(rel, "fr-FR"):
			labels = append(labels, "FR")
		default:
			labels = append(labels, "?")
		}
	}
	return labels
}

// ScanMods lists the direct subdirectories of modsDir that contain lang
// files. languagePaths are checked in order for each mod; nil uses
// DefaultLanguagePaths. A missing modsDir yields no mods.
func ScanMods(modsDir string, languagePaths []string) ([]ModInfo, error) {
	if languagePaths == nil {
		languagePaths = DefaultLanguagePaths
	}

	dirEntries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("dir", modsDir).Msg("Mods directory does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("read mods dir: %w", err)
	}

	var mods []ModInfo
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		modPath := filepath.Join(modsDir, de.Name())

		var found []string
		for _, rel := range languagePaths {
			if _, err := os.Stat(filepath.Join(modPath, filepath.FromSlash(rel))); err == nil {
				found = append(found, rel)
			}
		}

		files, err := findFiles(modPath, modScanDepth)
		if err != nil {
			log.Warn().Err(err).Str("mod", de.Name()).Msg("Error scanning mod")
			continue
		}

		if len(files) == 0 && len(found) == 0 {
			continue
		}
		mods = append(mods, ModInfo{
			Name:      de.Name(),
			Path:      modPath,
			Languages: found,
			LangFiles: len(files),
		})
	}

	log.Info().Int("count", len(mods)).Str("dir", modsDir).Msg("Scanned mods")
	return mods, nil
}

// FileInfo is one lang file shown by the mod file browser.
type FileInfo struct {
	Name    string
	RelPath string
	Path    string
	Entries int
}

// IsServerLang reports whether this is a mod's main server.lang file.
func (f FileInfo) IsServerLang() bool {
	return f.Name == "server.lang"
}

// Browse lists the lang files of a mod directory with a quick entry count.
func Browse(baseDir string) ([]FileInfo, error) {
	files, err := findFiles(baseDir, browseDepth)
	if err != nil {
		return nil, err
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}

	infos := make([]FileInfo, 0, len(files))
	for _, path := range files {
		rel, err := filepath.Rel(absBase, path)
		if err != nil {
			rel = path
		}
		infos = append(infos, FileInfo{
			Name:    filepath.Base(path),
			RelPath: rel,
			Path:    path,
			Entries: countEntries(path),
		})
	}
	return infos, nil
}

// countEntries is a cheap estimate used for listings: non-blank lines that
// are not # comments and contain "=". Unreadable files count as zero.
func countEntries(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" && !strings.HasPrefix(line, "#") && strings.Contains(line, "=") {
			n++
		}
	}
	return n
}
