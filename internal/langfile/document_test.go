package langfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioLines is the sample file used throughout these tests.
var scenarioLines = []string{"#comment", "greeting=Hello", "", "farewell=Bye"}

func writeLangFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.lang")
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadScenario(t *testing.T) (*Document, string) {
	t.Helper()
	path := writeLangFile(t, scenarioLines...)
	doc := New()
	require.NoError(t, doc.Load(path))
	return doc, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func keys(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key())
	}
	return out
}

func TestLoad_Scenario(t *testing.T) {
	doc, path := loadScenario(t)

	require.Equal(t, 2, doc.Len())
	greeting, _ := doc.At(0)
	farewell, _ := doc.At(1)

	assert.Equal(t, 1, greeting.Line())
	assert.Equal(t, "greeting", greeting.Key())
	assert.Equal(t, "Hello", greeting.Value())
	assert.Equal(t, 3, farewell.Line())
	assert.Equal(t, "farewell", farewell.Key())
	assert.Equal(t, "Bye", farewell.Value())

	assert.Equal(t, scenarioLines, doc.RawLines())
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, "server.lang", doc.FileName())
	assert.False(t, doc.Dirty())
}

func TestLoad_SkipsCommentsAndOpaqueLines(t *testing.T) {
	path := writeLangFile(t,
		"// header",
		"# another",
		"no delimiter here",
		"=empty key",
		"url=https://example.com/?a=b",
		"  spaced = value ",
	)
	doc := New()
	require.NoError(t, doc.Load(path))

	require.Equal(t, []string{"url", "  spaced "}, keys(doc.Entries()))
	e, ok := doc.Get("url")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/?a=b", e.Value())
	assert.Equal(t, 4, e.Line())
	assert.Len(t, doc.RawLines(), 6)
}

func TestLoad_CRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.lang")
	require.NoError(t, os.WriteFile(path, []byte("a=1\r\nb=2\r\n"), 0o644))

	doc := New()
	require.NoError(t, doc.Load(path))
	e, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", e.Value())
}

func TestLoad_MissingFile(t *testing.T) {
	doc, path := loadScenario(t)

	err := doc.Load(filepath.Join(t.TempDir(), "missing.lang"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))

	// previous content survives a failed load
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, 2, doc.Len())
}

func TestReload(t *testing.T) {
	doc := New()
	assert.ErrorIs(t, doc.Reload(), ErrNoDocument)

	doc, _ = loadScenario(t)
	require.NoError(t, doc.Update("greeting", "greeting", "Changed"))
	require.NoError(t, doc.Reload())

	e, _ := doc.Get("greeting")
	assert.Equal(t, "Hello", e.Value())
	assert.False(t, doc.Dirty())
}

func TestSearch(t *testing.T) {
	doc, _ := loadScenario(t)

	assert.Equal(t, []string{"greeting", "farewell"}, keys(doc.Search("")))
	assert.Equal(t, []string{"farewell"}, keys(doc.Search("by")))
	assert.Equal(t, []string{"greeting"}, keys(doc.Search("GREET")))
	assert.Empty(t, doc.Search("nothing matches"))

	// searching does not mutate
	assert.Equal(t, keys(doc.Search("e")), keys(doc.Search("e")))
	assert.False(t, doc.Dirty())
}

func TestAdd(t *testing.T) {
	doc, _ := loadScenario(t)

	_, err := doc.Add("greeting", "Hi")
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, []string{"greeting", "farewell"}, keys(doc.Entries()))
	e, _ := doc.Get("greeting")
	assert.Equal(t, "Hello", e.Value())

	_, err = doc.Add("", "x")
	assert.ErrorIs(t, err, ErrEmptyKey)

	added, err := doc.Add("welcome", "Welcome!")
	require.NoError(t, err)
	assert.Equal(t, NoLine, added.Line())
	assert.False(t, added.Assigned())
	assert.True(t, added.Dirty())
	assert.Equal(t, []string{"greeting", "farewell", "welcome"}, keys(doc.Entries()))
	assert.True(t, doc.Dirty())
}

func TestUpdate(t *testing.T) {
	doc, _ := loadScenario(t)

	err := doc.Update("missing", "missing", "x")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, doc.Update("greeting", "hello", "Hello there"))
	e, ok := doc.Get("hello")
	require.True(t, ok)
	assert.Equal(t, "Hello there", e.Value())
	assert.Equal(t, 1, e.Line())
	assert.True(t, e.Dirty())
	assert.Equal(t, []string{"hello", "farewell"}, keys(doc.Entries()))
	_, ok = doc.Get("greeting")
	assert.False(t, ok)
}

func TestUpdate_RenameCollisionLeavesEntryUntouched(t *testing.T) {
	doc, _ := loadScenario(t)

	err := doc.Update("greeting", "farewell", "Changed")
	assert.ErrorIs(t, err, ErrDuplicateKey)

	e, _ := doc.Get("greeting")
	assert.Equal(t, "Hello", e.Value())
	assert.False(t, e.Dirty())

	assert.ErrorIs(t, doc.Update("greeting", "", "x"), ErrEmptyKey)
	assert.Equal(t, "greeting", e.Key())
}

func TestKeysStayUnique(t *testing.T) {
	doc, _ := loadScenario(t)

	ops := []func(){
		func() { _, _ = doc.Add("greeting", "dup") },
		func() { _, _ = doc.Add("a", "1") },
		func() { _, _ = doc.Add("b", "2") },
		func() { _ = doc.Update("a", "b", "3") },
		func() { _ = doc.Update("b", "farewell", "4") },
		func() { _ = doc.Update("farewell", "c", "5") },
		func() { _, _ = doc.Add("farewell", "6") },
		func() { _ = doc.Update("a", "a", "7") },
	}

	for _, op := range ops {
		op()
		seen := map[string]bool{}
		for _, k := range keys(doc.Entries()) {
			require.False(t, seen[k], "duplicate key %q", k)
			seen[k] = true
		}
	}
}

func TestDelete_LineStability(t *testing.T) {
	doc, path := loadScenario(t)

	assert.ErrorIs(t, doc.Delete("missing"), ErrEntryNotFound)

	require.NoError(t, doc.Delete("greeting"))
	assert.True(t, doc.Dirty())
	require.NoError(t, doc.Save())

	raw := doc.RawLines()
	require.Len(t, raw, 4)
	assert.Equal(t, "", raw[1])
	assert.Equal(t, "farewell=Bye", raw[3])

	farewell, ok := doc.Get("farewell")
	require.True(t, ok)
	assert.Equal(t, 3, farewell.Line())
	assert.Equal(t, []string{"#comment", "", "", "farewell=Bye"}, readLines(t, path))
}

func TestDelete_NeverMovesOtherEntries(t *testing.T) {
	path := writeLangFile(t, "a=1", "# c", "b=2", "c=3", "", "d=4")

	for _, victim := range []string{"a", "b", "c", "d"} {
		doc := New()
		require.NoError(t, doc.Load(path))

		before := map[string]int{}
		for _, e := range doc.Entries() {
			before[e.Key()] = e.Line()
		}

		require.NoError(t, doc.Delete(victim))
		for _, e := range doc.Entries() {
			assert.Equal(t, before[e.Key()], e.Line(), "deleting %q moved %q", victim, e.Key())
		}
	}
}

func TestSave(t *testing.T) {
	doc, path := loadScenario(t)

	require.NoError(t, doc.Update("greeting", "greeting", "Hello <b>world</b>"))
	added, err := doc.Add("welcome", `Line\nTwo`)
	require.NoError(t, err)

	require.NoError(t, doc.Save())

	want := []string{"#comment", "greeting=Hello <b>world</b>", "", "farewell=Bye", `welcome=Line\nTwo`}
	assert.Equal(t, want, readLines(t, path))
	assert.Equal(t, want, doc.RawLines())
	assert.Equal(t, 4, added.Line())
	assert.False(t, doc.Dirty())
	for _, e := range doc.Entries() {
		assert.False(t, e.Dirty())
	}
}

func TestSave_Deterministic(t *testing.T) {
	doc, path := loadScenario(t)

	_, err := doc.Add("welcome", "Welcome")
	require.NoError(t, err)
	_, err = doc.Add("bye", "Later")
	require.NoError(t, err)

	require.NoError(t, doc.Save())
	first := doc.RawLines()
	require.NoError(t, doc.Save())
	second := doc.RawLines()

	assert.Equal(t, first, second)
	assert.Equal(t, second, readLines(t, path))
	assert.Len(t, second, 6)

	// an edit after the first save rewrites the appended line in place
	require.NoError(t, doc.Update("welcome", "welcome", "Hi"))
	require.NoError(t, doc.Save())
	assert.Equal(t, "welcome=Hi", doc.RawLines()[4])
	assert.Len(t, doc.RawLines(), 6)
}

func TestSave_NoDocument(t *testing.T) {
	doc := New()
	assert.ErrorIs(t, doc.Save(), ErrNoDocument)
}

func TestSave_FailureLeavesStateUnchanged(t *testing.T) {
	doc, path := loadScenario(t)
	_, err := doc.Add("welcome", "Welcome")
	require.NoError(t, err)

	// a missing parent directory makes the write fail
	require.NoError(t, os.RemoveAll(filepath.Dir(path)))

	err = doc.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	e, _ := doc.Get("welcome")
	assert.Equal(t, NoLine, e.Line())
	assert.True(t, e.Dirty())
	assert.Equal(t, scenarioLines, doc.RawLines())
}

func TestSave_KeepsPermissions(t *testing.T) {
	doc, path := loadScenario(t)
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, doc.Update("greeting", "greeting", "Hey"))
	require.NoError(t, doc.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEntryHelpers(t *testing.T) {
	path := writeLangFile(t, `title=<color is="#ffd700">Gold</color>\n<b>Shiny</b>`)
	doc := New()
	require.NoError(t, doc.Load(path))

	e, ok := doc.Get("title")
	require.True(t, ok)
	assert.Equal(t, "Gold Shiny", e.PlainValue())
	assert.Equal(t, `title=<color is="#ffd700">Gold</color>\n<b>Shiny</b>`, e.Render())
	assert.True(t, e.Matches("gold"))
	assert.True(t, e.Matches("TITLE"))
	assert.False(t, e.Matches("silver"))
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ModA", "Server", "Languages", "en-US"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ModA", "Server", "Languages", "en-US", "server.lang"), []byte("a=1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	files, err := FindFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "server.lang", filepath.Base(files[0]))
}

func TestDuplicateKeys(t *testing.T) {
	path := writeLangFile(t, "a=1", "b=2", "a=3", "c=4", "b=5", "a=6")
	doc := New()
	require.NoError(t, doc.Load(path))

	assert.Equal(t, []string{"a", "b"}, doc.DuplicateKeys())
	e, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", e.Value())

	clean, _ := loadScenario(t)
	assert.Empty(t, clean.DuplicateKeys())
}

func TestChangedOnDisk(t *testing.T) {
	_, err := New().ChangedOnDisk()
	assert.ErrorIs(t, err, ErrNoDocument)

	doc, path := loadScenario(t)
	changed, err := doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("greeting=Edited elsewhere\n"), 0o644))
	changed, err = doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.True(t, changed)

	// saving makes the file ours again
	require.NoError(t, doc.Save())
	changed, err = doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.Remove(path))
	changed, err = doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSetAndRemove_DuplicatedKey(t *testing.T) {
	path := writeLangFile(t, "a=first", "a=second", "b=other")
	doc := New()
	require.NoError(t, doc.Load(path))
	first, _ := doc.At(0)
	second, _ := doc.At(1)

	require.NoError(t, doc.Set(second, "a", "changed"))
	assert.Equal(t, "first", first.Value())
	assert.False(t, first.Dirty())
	assert.Equal(t, "changed", second.Value())

	assert.ErrorIs(t, doc.Set(second, "b", "x"), ErrDuplicateKey)
	assert.Equal(t, "a", second.Key())

	require.NoError(t, doc.Save())
	assert.Equal(t, []string{"a=first", "a=changed", "b=other"}, readLines(t, path))

	require.NoError(t, doc.Remove(second))
	assert.Equal(t, []string{"a", "b"}, keys(doc.Entries()))
	assert.Same(t, first, doc.Entries()[0])
	assert.Equal(t, []string{"a=first", "", "b=other"}, doc.RawLines())

	assert.ErrorIs(t, doc.Remove(second), ErrEntryNotFound)
	assert.ErrorIs(t, doc.Set(second, "a", "again"), ErrEntryNotFound)
	assert.Equal(t, "changed", second.Value())
}

func TestSet_ForeignEntry(t *testing.T) {
	doc, _ := loadScenario(t)
	other, _ := loadScenario(t)
	foreign, _ := other.Get("greeting")

	assert.ErrorIs(t, doc.Set(foreign, "greeting", "x"), ErrEntryNotFound)
	assert.ErrorIs(t, doc.Remove(foreign), ErrEntryNotFound)
	assert.Equal(t, "Hello", foreign.Value())
	assert.Equal(t, 2, doc.Len())
}

func TestRejectsKeysAndValuesThatBreakTheFormat(t *testing.T) {
	doc, path := loadScenario(t)

	for _, key := range []string{"a=b", "a\nb", "a\rb", "#note", "//note"} {
		_, err := doc.Add(key, "c")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
		assert.ErrorIs(t, doc.Update("greeting", key, "c"), ErrInvalidKey, "key %q", key)
	}
	_, err := doc.Add("welcome", "line1\nline2")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, doc.Update("greeting", "greeting", "line1\r\nline2"), ErrInvalidValue)

	assert.Equal(t, []string{"greeting", "farewell"}, keys(doc.Entries()))
	e, _ := doc.Get("greeting")
	assert.Equal(t, "Hello", e.Value())
	assert.False(t, doc.Dirty())

	_, err = doc.Add("url", "http://example.com/a=b")
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	reloaded := New()
	require.NoError(t, reloaded.Load(path))
	assert.Equal(t, []string{"greeting", "farewell", "url"}, keys(reloaded.Entries()))
	url, _ := reloaded.Get("url")
	assert.Equal(t, "http://example.com/a=b", url.Value())
}
