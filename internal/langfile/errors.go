package langfile

import "errors"

var (
	// ErrIO reports a lang file that is missing, unreadable or unwritable.
	ErrIO = errors.New("lang file i/o failure")
	// ErrNoDocument is returned when saving or reloading before any load.
	ErrNoDocument = errors.New("no lang file loaded")
	// ErrDuplicateKey is returned when an add or rename collides with an
	// existing key.
	ErrDuplicateKey = errors.New("key already exists")
	// ErrEmptyKey is returned for blank keys.
	ErrEmptyKey = errors.New("key cannot be empty")
	// ErrInvalidKey is returned for keys holding "=" or a line break, or
	// starting like a comment.
	ErrInvalidKey = errors.New("key cannot contain '=' or line breaks or start with a comment marker")
	// ErrInvalidValue is returned for values holding a raw line break. Line
	// breaks are stored as the \n escape.
	ErrInvalidValue = errors.New(`value cannot contain raw line breaks, use \n`)
	// ErrEntryNotFound is returned when an update or delete names an absent key.
	ErrEntryNotFound = errors.New("entry not found")
)
