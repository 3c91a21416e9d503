// Package langfile loads, edits and saves line-oriented key=value lang files
// while keeping comments, blank lines and line numbers intact.
package langfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"lang-editor/internal/filewalker"
	"lang-editor/internal/textutil"

	"github.com/rs/zerolog/log"
)

// maxLineSize bounds a single lang line. Values with long rich-text markup
// easily exceed bufio's 64KB default.
const maxLineSize = 1024 * 1024

// Document is the currently loaded lang file.
//
// rawLines is an arena indexed by Entry.line. It is never reordered and
// never shrinks: deletions blank a slot instead of removing it, so the line
// of every other entry stays valid. Document is not safe for concurrent use.
type Document struct {
	path     string
	hash     string
	rawLines []string
	entries  []*Entry
	// deleted counts deletions since the last load or save.
	deleted int
}

// New returns an empty document with no file attached.
func New() *Document {
	return &Document{}
}

// Load reads path and replaces the document content with it. On failure the
// previous content is left as it was.
func (d *Document) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	rawLines, err := splitLines(data)
	if err != nil {
		return fmt.Errorf("%w: scan %s: %v", ErrIO, path, err)
	}

	d.path = path
	d.hash = textutil.Hash(data)
	d.rawLines = rawLines
	d.entries = parseEntries(rawLines)
	d.deleted = 0

	log.Debug().Str("path", path).Int("lines", len(rawLines)).Int("entries", len(d.entries)).Msg("Loaded lang file")
	return nil
}

// Reload reads the current file again, discarding unsaved changes.
func (d *Document) Reload() error {
	if d.path == "" {
		return ErrNoDocument
	}
	return d.Load(d.path)
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func parseEntries(rawLines []string) []*Entry {
	var entries []*Entry
	for i, line := range rawLines {
		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Lines without a key stay opaque.
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}

		entries = append(entries, &Entry{
			line:  i,
			key:   line[:eq],
			value: line[eq+1:],
		})
	}
	return entries
}

// Search returns the entries whose key or value contains query, ignoring
// case, in document order. An empty query returns every entry.
func (d *Document) Search(query string) []*Entry {
	results := make([]*Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if e.Matches(query) {
			results = append(results, e)
		}
	}
	return results
}

// Get returns the entry with exactly this key.
func (d *Document) Get(key string) (*Entry, bool) {
	idx := d.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	return d.entries[idx], true
}

// At returns the entry at position index in document order.
func (d *Document) At(index int) (*Entry, bool) {
	if index < 0 || index >= len(d.entries) {
		return nil, false
	}
	return d.entries[index], true
}

func (d *Document) indexOf(key string) int {
	for i, e := range d.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Add appends a new, not yet written entry.
func (d *Document) Add(key, value string) (*Entry, error) {
	if err := checkRecord(key, value); err != nil {
		return nil, fmt.Errorf("add %q: %w", key, err)
	}
	if _, exists := d.Get(key); exists {
		return nil, fmt.Errorf("add %q: %w", key, ErrDuplicateKey)
	}

	e := &Entry{line: NoLine, key: key, value: value, dirty: true}
	d.entries = append(d.entries, e)
	return e, nil
}

// Update changes the key and value of the entry named originalKey in place.
// Renaming onto another existing key is rejected.
func (d *Document) Update(originalKey, newKey, newValue string) error {
	e, ok := d.Get(originalKey)
	if !ok {
		return fmt.Errorf("update %q: %w", originalKey, ErrEntryNotFound)
	}
	return d.Set(e, newKey, newValue)
}

// Set changes the key and value of e, which must belong to d. Unlike Update
// it addresses one entry even when the file repeats its key.
func (d *Document) Set(e *Entry, key, value string) error {
	if d.position(e) < 0 {
		return fmt.Errorf("set %q: %w", e.key, ErrEntryNotFound)
	}
	if err := checkRecord(key, value); err != nil {
		return fmt.Errorf("set %q: %w", e.key, err)
	}
	if key != e.key {
		if _, taken := d.Get(key); taken {
			return fmt.Errorf("rename %q to %q: %w", e.key, key, ErrDuplicateKey)
		}
	}

	e.key = key
	e.value = value
	e.dirty = true
	return nil
}

// Delete removes the entry named key. Its raw line, if any, is blanked so
// that no other entry moves.
func (d *Document) Delete(key string) error {
	e, ok := d.Get(key)
	if !ok {
		return fmt.Errorf("delete %q: %w", key, ErrEntryNotFound)
	}
	return d.Remove(e)
}

// Remove deletes e, which must belong to d, the same way Delete does.
func (d *Document) Remove(e *Entry) error {
	idx := d.position(e)
	if idx < 0 {
		return fmt.Errorf("remove %q: %w", e.key, ErrEntryNotFound)
	}

	d.entries = append(d.entries[:idx:idx], d.entries[idx+1:]...)
	if e.line >= 0 && e.line < len(d.rawLines) {
		d.rawLines[e.line] = ""
	}
	d.deleted++
	return nil
}

func (d *Document) position(e *Entry) int {
	for i, candidate := range d.entries {
		if candidate == e {
			return i
		}
	}
	return -1
}

// checkRecord rejects a key or value that would read back differently
// after a save.
func checkRecord(key, value string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.ContainsAny(key, "=\r\n"),
		strings.HasPrefix(key, "#"),
		strings.HasPrefix(key, "//"):
		return ErrInvalidKey
	case strings.ContainsAny(value, "\r\n"):
		return ErrInvalidValue
	}
	return nil
}

// Save writes the document back to its file. Entries with a line rewrite
// that line; new entries are appended in the order they were added and take
// ownership of the line they were written to. Nothing in memory changes
// unless the write succeeds.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoDocument
	}

	lines := make([]string, len(d.rawLines), len(d.rawLines)+len(d.entries))
	copy(lines, d.rawLines)

	appended := make(map[*Entry]int)
	for _, e := range d.entries {
		if e.line >= 0 && e.line < len(lines) {
			lines[e.line] = e.Render()
		}
	}
	for _, e := range d.entries {
		if e.line == NoLine {
			appended[e] = len(lines)
			lines = append(lines, e.Render())
		}
	}

	d.warnIfChangedOnDisk()

	data := joinLines(lines)
	if err := writeFileAtomic(d.path, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, d.path, err)
	}

	d.rawLines = lines
	d.hash = textutil.Hash(data)
	d.deleted = 0
	for _, e := range d.entries {
		if idx, ok := appended[e]; ok {
			e.line = idx
		}
		e.dirty = false
	}

	log.Info().Str("path", d.path).Int("entries", len(d.entries)).Int("appended", len(appended)).Msg("Saved lang file")
	return nil
}

func (d *Document) warnIfChangedOnDisk() {
	if changed, err := d.ChangedOnDisk(); err == nil && changed {
		log.Warn().Str("path", d.path).Msg("Lang file changed on disk since it was loaded, overwriting")
	}
}

// ChangedOnDisk reports whether the file no longer holds what was last
// loaded or saved. A file that was removed counts as changed.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.path == "" {
		return false, ErrNoDocument
	}
	current, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrIO, d.path, err)
	}
	return textutil.Hash(current) != d.hash, nil
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Path is the loaded file, or "" before any load.
func (d *Document) Path() string { return d.path }

// FileName is the base name of the loaded file, or "".
func (d *Document) FileName() string {
	if d.path == "" {
		return ""
	}
	return filepath.Base(d.path)
}

// Len is the number of entries.
func (d *Document) Len() int { return len(d.entries) }

// Entries returns all entries in document order.
func (d *Document) Entries() []*Entry {
	out := make([]*Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// RawLines returns a copy of the raw line arena.
func (d *Document) RawLines() []string {
	out := make([]string, len(d.rawLines))
	copy(out, d.rawLines)
	return out
}

// Dirty reports whether there are unsaved edits, additions or deletions.
func (d *Document) Dirty() bool {
	return d.deleted > 0 || d.DirtyCount() > 0
}

// DirtyCount is the number of entries with unsaved changes.
func (d *Document) DirtyCount() int {
	n := 0
	for _, e := range d.entries {
		if e.dirty {
			n++
		}
	}
	return n
}

// FindFiles lists the lang files below root.
func FindFiles(root string) ([]string, error) {
	return filewalker.FindLangFiles(root)
}

// DuplicateKeys lists keys that appear on more than one line of the loaded
// file, in order of first appearance. Only the first occurrence of such a
// key is reachable through Get.
func (d *Document) DuplicateKeys() []string {
	seen := make(map[string]int, len(d.entries))
	var dups []string
	for _, e := range d.entries {
		seen[e.key]++
		if seen[e.key] == 2 {
			dups = append(dups, e.key)
		}
	}
	return dups
}
