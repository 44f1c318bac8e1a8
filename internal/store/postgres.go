package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lox/pushfold/sdk/ranges"
)

//go:embed schema.sql
var schema embed.FS

// Postgres stores ranges in a shared PostgreSQL database.
type Postgres struct {
	pool  *pgxpool.Pool
	clock quartz.Clock
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to dsn and applies the schema.
func OpenPostgres(ctx context.Context, dsn string, clock quartz.Clock) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	p := &Postgres{pool: pool, clock: clock}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, string(sqlBytes))
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Save(ctx context.Context, name string, r ranges.Range) (SavedRange, error) {
	name, err := cleanName(name)
	if err != nil {
		return SavedRange{}, err
	}
	saved := newSaved(name, r, p.clock.Now())

	var id string
	err = p.pool.QueryRow(ctx, `
        INSERT INTO saved_ranges(id, name, notation, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (name) DO UPDATE
          SET notation = EXCLUDED.notation,
              updated_at = EXCLUDED.updated_at
        RETURNING id
    `, saved.ID.String(), saved.Name, saved.Notation, saved.UpdatedAt).Scan(&id)
	if err != nil {
		return SavedRange{}, fmt.Errorf("save range %q: %w", name, err)
	}
	if saved.ID, err = uuid.Parse(id); err != nil {
		return SavedRange{}, err
	}
	return saved, nil
}

func (p *Postgres) Get(ctx context.Context, name string) (SavedRange, error) {
	name, err := cleanName(name)
	if err != nil {
		return SavedRange{}, err
	}
	saved, err := scanPostgres(p.pool.QueryRow(ctx,
		`SELECT id, name, notation, updated_at FROM saved_ranges WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedRange{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return saved, err
}

func (p *Postgres) List(ctx context.Context) ([]SavedRange, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, notation, updated_at FROM saved_ranges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedRange
	for rows.Next() {
		saved, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

func (p *Postgres) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM saved_ranges WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func scanPostgres(row pgx.Row) (SavedRange, error) {
	var (
		saved SavedRange
		id    string
	)
	if err := row.Scan(&id, &saved.Name, &saved.Notation, &saved.UpdatedAt); err != nil {
		return SavedRange{}, err
	}
	var err error
	if saved.ID, err = uuid.Parse(id); err != nil {
		return SavedRange{}, fmt.Errorf("range %q: bad id: %w", saved.Name, err)
	}
	saved.UpdatedAt = saved.UpdatedAt.UTC()
	saved.fill()
	return saved, nil
}
