package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/archanaprabhat/VoiceNotes/internal/note"
)

// ErrNotFound is returned when an update or delete references a note id that
// does not exist. Callers are expected to tolerate it as a no-op condition.
var ErrNotFound = errors.New("note not found")

// StorageError wraps a failure of the underlying persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// schema is the fixed note store layout. Opening the store creates it if
// absent; there is no index beyond the primary key and the recency index
// used by ListAll.
const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    transcript TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    audio BLOB NOT NULL,
    duration_label TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at DESC);
`

// Store is the SQLite-backed note store.
type Store struct {
	db *sql.DB
}

// UpdateFields carries the mutable note fields for Update. Nil fields are
// left untouched.
type UpdateFields struct {
	Title      *string
	Transcript *string
}

// Open opens (and if necessary creates) the note database at path. The
// special path ":memory:" opens an in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	if path == ":memory:" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a new note record and returns its assigned id.
func (s *Store) Save(ctx context.Context, rec *note.Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (title, transcript, mime_type, audio, duration_label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Title, rec.Transcript, rec.Audio.MimeType, rec.Audio.Data, rec.DurationLabel, rec.CreatedAt)
	if err != nil {
		return 0, &StorageError{Op: "save", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "save", Err: err}
	}

	rec.ID = id
	return id, nil
}

// Get returns the note with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*note.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, transcript, mime_type, audio, duration_label, created_at
		FROM notes
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}

	return rec, nil
}

// Update merges the given fields into the stored record and returns the
// merged result. The merge is read-modify-write inside one transaction so a
// partial update never clobbers the other field.
func (s *Store) Update(ctx context.Context, id int64, fields UpdateFields) (*note.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StorageError{Op: "update", Err: err}
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, title, transcript, mime_type, audio, duration_label, created_at
		FROM notes
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "update", Err: err}
	}

	if fields.Title != nil {
		rec.Title = *fields.Title
	}
	if fields.Transcript != nil {
		rec.Transcript = *fields.Transcript
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE notes SET title = ?, transcript = ? WHERE id = ?
	`, rec.Title, rec.Transcript, id); err != nil {
		return nil, &StorageError{Op: "update", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &StorageError{Op: "update", Err: err}
	}

	return rec, nil
}

// Delete removes the note with the given id. Deleting an id that does not
// exist returns ErrNotFound without corrupting the store.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAll returns every note ordered newest first. The ordering is a hard
// contract: the list and the calendar grouping both rely on it.
func (s *Store) ListAll(ctx context.Context) ([]*note.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, transcript, mime_type, audio, duration_label, created_at
		FROM notes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var records []*note.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	return records, nil
}

// Count returns the number of stored notes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*note.Record, error) {
	var rec note.Record
	if err := s.Scan(&rec.ID, &rec.Title, &rec.Transcript, &rec.Audio.MimeType,
		&rec.Audio.Data, &rec.DurationLabel, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
