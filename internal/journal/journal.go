// Package journal records saved lang edits so changes to a mod's text can be
// audited after the fact. Without a database the journal is a no-op.
package journal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lang-editor/internal/langfile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Action names the kind of change an Edit describes.
type Action string

const (
	ActionAdd    Action = "add"
	ActionSet    Action = "set"
	ActionDelete Action = "delete"
)

// Edit is one key's change between two saved states of a file. Edits
// written by the same save share a SaveID.
type Edit struct {
	SaveID   string    `db:"save_id"`
	File     string    `db:"file"`
	Key      string    `db:"key"`
	Action   Action    `db:"action"`
	OldValue string    `db:"old_value"`
	NewValue string    `db:"new_value"`
	SavedAt  time.Time `db:"saved_at"`
}

// Recorder stores edits.
type Recorder interface {
	Record(ctx context.Context, edits []Edit) error
	Recent(ctx context.Context, file string, limit int) ([]Edit, error)
	Close()
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, []Edit) error                 { return nil }
func (Nop) Recent(context.Context, string, int) ([]Edit, error) { return nil, nil }
func (Nop) Close()                                               {}

// Open connects to databaseURL and prepares the journal table. An empty
// URL returns Nop.
func Open(ctx context.Context, databaseURL string) (Recorder, error) {
	if databaseURL == "" {
		return Nop{}, nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect journal database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping journal database: %w", err)
	}

	j := &PGJournal{pool: pool}
	if err := j.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("Edit journal connected")
	return j, nil
}

// PGJournal keeps edits in PostgreSQL.
type PGJournal struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS lang_edits (
	id        BIGSERIAL PRIMARY KEY,
	save_id   TEXT NOT NULL DEFAULT '',
	file      TEXT NOT NULL,
	key       TEXT NOT NULL,
	action    TEXT NOT NULL,
	old_value TEXT NOT NULL DEFAULT '',
	new_value TEXT NOT NULL DEFAULT '',
	saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS lang_edits_file_idx ON lang_edits (file, saved_at DESC);
`

func (j *PGJournal) migrate(ctx context.Context) error {
	if _, err := j.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

// Record inserts edits in a single batch.
func (j *PGJournal) Record(ctx context.Context, edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range edits {
		batch.Queue(
			`INSERT INTO lang_edits (save_id, file, key, action, old_value, new_value, saved_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.SaveID, e.File, e.Key, string(e.Action), e.OldValue, e.NewValue, e.SavedAt,
		)
	}

	br := j.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range edits {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("record edit: %w", err)
		}
	}

	log.Debug().Int("edits", len(edits)).Msg("Recorded edits")
	return nil
}

// Recent returns up to limit edits for file, newest first.
func (j *PGJournal) Recent(ctx context.Context, file string, limit int) ([]Edit, error) {
	rows, err := j.pool.Query(ctx,
		`SELECT save_id, file, key, action, old_value, new_value, saved_at
		 FROM lang_edits WHERE file = $1
		 ORDER BY saved_at DESC, id DESC LIMIT $2`,
		file, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query edits: %w", err)
	}
	edits, err := pgx.CollectRows(rows, pgx.RowToStructByName[Edit])
	if err != nil {
		return nil, fmt.Errorf("scan edits: %w", err)
	}
	return edits, nil
}

func (j *PGJournal) Close() { j.pool.Close() }

// Snapshot captures the key/value pairs of doc. A duplicated key keeps its
// first value, as Get does.
func Snapshot(doc *langfile.Document) map[string]string {
	snap := make(map[string]string, doc.Len())
	for _, e := range doc.Entries() {
		if _, seen := snap[e.Key()]; !seen {
			snap[e.Key()] = e.Value()
		}
	}
	return snap
}

// Diff lists the changes from before to after, ordered by key. A rename
// shows up as a delete of the old key and an add of the new one.
func Diff(file string, before, after map[string]string, at time.Time) []Edit {
	var edits []Edit
	for key, newValue := range after {
		oldValue, ok := before[key]
		switch {
		case !ok:
			edits = append(edits, Edit{File: file, Key: key, Action: ActionAdd, NewValue: newValue, SavedAt: at})
		case oldValue != newValue:
			edits = append(edits, Edit{File: file, Key: key, Action: ActionSet, OldValue: oldValue, NewValue: newValue, SavedAt: at})
		}
	}
	for key, oldValue := range before {
		if _, ok := after[key]; !ok {
			edits = append(edits, Edit{File: file, Key: key, Action: ActionDelete, OldValue: oldValue, SavedAt: at})
		}
	}

	sort.Slice(edits, func(i, k int) bool {
		if edits[i].Key != edits[k].Key {
			return edits[i].Key < edits[k].Key
		}
		return edits[i].Action < edits[k].Action
	})
	return edits
}

// SaveAndRecord saves doc and records what changed since before. A journal
// failure is logged and does not fail the save.
func SaveAndRecord(ctx context.Context, rec Recorder, doc *langfile.Document, before map[string]string) (map[string]string, error) {
	if err := doc.Save(); err != nil {
		return before, err
	}

	after := Snapshot(doc)
	edits := Diff(doc.Path(), before, after, time.Now().UTC())
	saveID := uuid.NewString()
	for i := range edits {
		edits[i].SaveID = saveID
	}
	if err := rec.Record(ctx, edits); err != nil {
		log.Warn().Err(err).Str("file", doc.Path()).Msg("Failed to journal edits")
	}
	return after, nil
}
