// Package session holds the editing state of a single lang entry until it is
// committed to, or abandoned without touching, the document.
package session

import (
	"errors"
	"fmt"

	"lang-editor/internal/langfile"
	"lang-editor/internal/markup"

	"github.com/rs/zerolog/log"
)

var (
	// ErrClosed is returned by operations on a committed or cancelled session.
	ErrClosed = errors.New("edit session is closed")
	// ErrNewEntry is returned when deleting from a new-entry session.
	ErrNewEntry = errors.New("entry has not been added yet")
)

// ViewMode selects how the draft value is presented.
type ViewMode int

const (
	// ModePreview shows the rendered, colored value.
	ModePreview ViewMode = iota
	// ModeSource shows the raw value with real line breaks.
	ModeSource
)

func (m ViewMode) String() string {
	if m == ModeSource {
		return "source"
	}
	return "preview"
}

// UndoResult tells the caller what Undo did.
type UndoResult int

const (
	NothingToUndo UndoResult = iota
	Undone
	RestoredOriginal
)

func (r UndoResult) String() string {
	switch r {
	case Undone:
		return "undone"
	case RestoredOriginal:
		return "restored original"
	default:
		return "nothing to undo"
	}
}

// Session is an in-progress edit of one entry, or of a new entry when target
// is nil. Drafts are independent of the document until Commit.
type Session struct {
	target   *langfile.Entry
	key      string
	value    string
	original string
	history  History
	mode     ViewMode
	closed   bool
}

// Open starts a session for entry. A nil entry starts a new-entry session
// with an empty key and value.
func Open(entry *langfile.Entry) *Session {
	s := &Session{target: entry}
	if entry != nil {
		s.key = entry.Key()
		s.value = entry.Value()
		s.original = entry.Value()
	}
	return s
}

// IsNew reports whether the session creates a new entry on commit.
func (s *Session) IsNew() bool { return s.target == nil }

// Target is the entry being edited, nil for a new entry.
func (s *Session) Target() *langfile.Entry { return s.target }

func (s *Session) DraftKey() string   { return s.key }
func (s *Session) DraftValue() string { return s.value }

// DisplayValue is the draft value with real line breaks, for source editing.
func (s *Session) DisplayValue() string { return markup.ToDisplay(s.value) }

// Preview segments the draft value for colored rendering.
func (s *Session) Preview() []markup.Line { return markup.Segment(s.value) }

func (s *Session) Mode() ViewMode    { return s.mode }
func (s *Session) History() *History { return &s.history }
func (s *Session) Closed() bool      { return s.closed }

// The draft mutators below are ignored once the session is closed.

func (s *Session) SetDraftKey(key string) {
	if !s.closed {
		s.key = key
	}
}

// SetDraftValue overwrites the draft value. Free-text edits do not create
// undo snapshots.
func (s *Session) SetDraftValue(value string) {
	if !s.closed {
		s.value = value
	}
}

// SetDisplayValue stores a value typed in display form.
func (s *Session) SetDisplayValue(value string) {
	if !s.closed {
		s.value = markup.ToStorage(value)
	}
}

// InsertColorTag appends an empty color tag pair for color.
func (s *Session) InsertColorTag(color string) {
	s.edit(s.value + markup.ColorTag(color))
}

// InsertLineBreak appends a storage line break.
func (s *Session) InsertLineBreak() {
	s.edit(s.value + markup.LineBreak)
}

// ApplyCleanTags normalizes the draft value's tags.
func (s *Session) ApplyCleanTags() {
	s.edit(markup.CleanTags(s.value))
}

func (s *Session) edit(value string) {
	if s.closed {
		return
	}
	s.history.Push(s.value)
	s.value = value
}

// Undo reverts the last insertion. With no snapshots left it falls back to
// the value the session was opened with.
func (s *Session) Undo() UndoResult {
	if s.closed {
		return NothingToUndo
	}
	if v, ok := s.history.Pop(); ok {
		s.value = v
		return Undone
	}
	if s.value != s.original {
		s.value = s.original
		return RestoredOriginal
	}
	return NothingToUndo
}

// ToggleViewMode switches between preview and source.
func (s *Session) ToggleViewMode() {
	if s.closed {
		return
	}
	if s.mode == ModePreview {
		s.mode = ModeSource
	} else {
		s.mode = ModePreview
	}
}

// Commit writes the draft to doc and closes the session. On error the
// session stays open and doc is unchanged.
func (s *Session) Commit(doc *langfile.Document) error {
	if s.closed {
		return ErrClosed
	}
	if s.key == "" {
		return langfile.ErrEmptyKey
	}

	if s.IsNew() {
		entry, err := doc.Add(s.key, s.value)
		if err != nil {
			return fmt.Errorf("add entry: %w", err)
		}
		s.target = entry
	} else {
		if err := doc.Set(s.target, s.key, s.value); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
	}

	log.Debug().Str("key", s.key).Msg("Committed entry")
	s.closed = true
	return nil
}

// Delete removes the edited entry from doc and closes the session.
func (s *Session) Delete(doc *langfile.Document) error {
	if s.closed {
		return ErrClosed
	}
	if s.IsNew() {
		return ErrNewEntry
	}
	if err := doc.Remove(s.target); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.closed = true
	return nil
}

// Cancel abandons the draft.
func (s *Session) Cancel() {
	s.closed = true
}
