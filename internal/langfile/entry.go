package langfile

import (
	"strings"

	"lang-editor/internal/markup"
)

// NoLine marks an entry that has not been written to the file yet.
const NoLine = -1

// Entry is one key=value record of a lang file.
//
// Fields are only changed through the owning Document so that key
// uniqueness and line bookkeeping stay consistent.
type Entry struct {
	line  int
	key   string
	value string
	dirty bool
}

// Line is the 0-based index of the raw line this entry was read from or last
// written to, or NoLine.
func (e *Entry) Line() int { return e.line }

// Assigned reports whether the entry owns a raw line.
func (e *Entry) Assigned() bool { return e.line != NoLine }

func (e *Entry) Key() string   { return e.key }
func (e *Entry) Value() string { return e.value }

// Dirty reports whether the entry changed since the last load or save.
func (e *Entry) Dirty() bool { return e.dirty }

// Render returns the canonical file line for the entry.
func (e *Entry) Render() string {
	return e.key + "=" + e.value
}

// PlainValue is the value without markup, with line breaks shown as spaces.
func (e *Entry) PlainValue() string {
	return markup.Plain(e.value)
}

// Matches reports whether query is a case-insensitive substring of the key
// or the value. An empty query matches everything.
func (e *Entry) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.key), q) ||
		strings.Contains(strings.ToLower(e.value), q)
}
