package playlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scsbarna-pixel/automatizador/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS plays (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	fired_at     TEXT NOT NULL,
	name         TEXT NOT NULL,
	type         TEXT NOT NULL,
	value        TEXT NOT NULL,
	start_offset REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_plays_fired_at ON plays(fired_at);
`

// Store is the play-history log: one row per fired event, kept so an
// operator can audit what actually went to air and when.
type Store struct {
	db *sql.DB

	// Prepared statements
	insertPlay *sql.Stmt
	recent     *sql.Stmt
}

// Open opens (creating if needed) the log database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open play log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init play log schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.insertPlay, err = s.db.Prepare(`
		INSERT INTO plays (fired_at, name, type, value, start_offset)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.recent, err = s.db.Prepare(`
		SELECT fired_at, name, type, value, start_offset
		FROM plays ORDER BY id DESC LIMIT ?
	`)
	if err != nil {
		return err
	}

	return nil
}

// Record appends one fired event to the log.
func (s *Store) Record(ctx context.Context, rec api.PlayRecord) error {
	firedAt := rec.FiredAt
	if firedAt.IsZero() {
		firedAt = time.Now()
	}
	_, err := s.insertPlay.ExecContext(ctx,
		firedAt.Format(time.RFC3339), rec.Name, rec.Type, rec.Value, rec.Offset)
	if err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]api.PlayRecord, error) {
	rows, err := s.recent.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	var out []api.PlayRecord
	for rows.Next() {
		var rec api.PlayRecord
		var firedAt string
		if err := rows.Scan(&firedAt, &rec.Name, &rec.Type, &rec.Value, &rec.Offset); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		rec.FiredAt, _ = time.Parse(time.RFC3339, firedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the prepared statements and the database.
func (s *Store) Close() error {
	if s.insertPlay != nil {
		s.insertPlay.Close()
	}
	if s.recent != nil {
		s.recent.Close()
	}
	return s.db.Close()
}
