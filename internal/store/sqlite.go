package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/pushfold/sdk/ranges"
	_ "modernc.org/sqlite"
)

// SQLite stores ranges in a local database file.
type SQLite struct {
	db    *sql.DB
	clock quartz.Clock
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path; ":memory:" keeps it in
// memory.
func OpenSQLite(ctx context.Context, path string, clock quartz.Clock) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection so ":memory:" is a single database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, clock: clock}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS saved_ranges (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    notation TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`)
	return err
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Save(ctx context.Context, name string, r ranges.Range) (SavedRange, error) {
	name, err := cleanName(name)
	if err != nil {
		return SavedRange{}, err
	}
	saved := newSaved(name, r, s.clock.Now())

	var id string
	err = s.db.QueryRowContext(ctx, `
INSERT INTO saved_ranges(id, name, notation, updated_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE
   SET notation = excluded.notation,
       updated_at_ms = excluded.updated_at_ms
RETURNING id`, saved.ID.String(), saved.Name, saved.Notation, saved.UpdatedAt.UnixMilli()).Scan(&id)
	if err != nil {
		return SavedRange{}, fmt.Errorf("save range %q: %w", name, err)
	}
	if saved.ID, err = uuid.Parse(id); err != nil {
		return SavedRange{}, err
	}
	return saved, nil
}

func (s *SQLite) Get(ctx context.Context, name string) (SavedRange, error) {
	name, err := cleanName(name)
	if err != nil {
		return SavedRange{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, notation, updated_at_ms FROM saved_ranges WHERE name = ?`, name)
	saved, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedRange{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return saved, err
}

func (s *SQLite) List(ctx context.Context) ([]SavedRange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, notation, updated_at_ms FROM saved_ranges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedRange
	for rows.Next() {
		saved, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_ranges WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (SavedRange, error) {
	var (
		saved SavedRange
		id    string
		ms    int64
	)
	if err := row.Scan(&id, &saved.Name, &saved.Notation, &ms); err != nil {
		return SavedRange{}, err
	}
	var err error
	if saved.ID, err = uuid.Parse(id); err != nil {
		return SavedRange{}, fmt.Errorf("range %q: bad id: %w", saved.Name, err)
	}
	saved.UpdatedAt = time.UnixMilli(ms).UTC()
	saved.fill()
	return saved, nil
}
