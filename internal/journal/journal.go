// Package journal persists a history of completed relocations in SQLite.
//
// The journal is strictly after-the-fact bookkeeping: the pipeline records a
// move only once it has succeeded, and a journal failure never reverses or
// fails a move. A nil *Journal is a valid no-op recorder, which is how the
// daemon runs with the journal disabled.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MoveRecord is one completed relocation.
type MoveRecord struct {
	ID          int64
	EventID     string
	Source      string
	Destination string
	Category    string
	MovedAt     time.Time
}

// Journal manages move-history persistence backed by SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies the schema.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	j := &Journal{db: db, path: path}
	if err := j.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return j, nil
}

// applySchema creates the moves table if it does not exist.
func (j *Journal) applySchema(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS moves (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            event_id    TEXT NOT NULL,
            source      TEXT NOT NULL,
            destination TEXT NOT NULL,
            category    TEXT NOT NULL,
            moved_at    TEXT NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Path returns the database file location.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Record inserts one completed move. Safe to call on a nil journal.
func (j *Journal) Record(ctx context.Context, rec MoveRecord) error {
	if j == nil {
		return nil
	}

	movedAt := rec.MovedAt
	if movedAt.IsZero() {
		movedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(
		ctx,
		`INSERT INTO moves (event_id, source, destination, category, moved_at)
         VALUES (?, ?, ?, ?, ?)`,
		rec.EventID,
		rec.Source,
		rec.Destination,
		rec.Category,
		movedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

// Recent returns up to limit moves, newest first. Safe to call on a nil journal.
func (j *Journal) Recent(ctx context.Context, limit int) ([]MoveRecord, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(
		ctx,
		`SELECT id, event_id, source, destination, category, moved_at
         FROM moves ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var records []MoveRecord
	for rows.Next() {
		var rec MoveRecord
		var movedAt string
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Source, &rec.Destination, &rec.Category, &movedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, movedAt)
		if err != nil {
			return nil, fmt.Errorf("parse moved_at %q: %w", movedAt, err)
		}
		rec.MovedAt = ts
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the total number of recorded moves. Safe to call on a nil journal.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	if j == nil {
		return 0, nil
	}

	var count int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count moves: %w", err)
	}
	return count, nil
}
