// Package store persists named ranges. Ranges are kept in condensed
// notation so a saved row reads the same as what a user would type.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/pushfold/sdk/ranges"
)

const maxNameLen = 64

var (
	ErrNotFound    = errors.New("range not found")
	ErrInvalidName = errors.New("invalid range name")
)

// SavedRange is one stored range.
type SavedRange struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Notation   string    `json:"notation"`
	Combos     int       `json:"combos"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Range decodes the stored notation.
func (s SavedRange) Range() ranges.Range {
	r, _ := ranges.Parse(s.Notation)
	return r
}

// Store saves, lists and deletes named ranges. Saving an existing name
// replaces its range and keeps its ID.
type Store interface {
	Save(ctx context.Context, name string, r ranges.Range) (SavedRange, error)
	Get(ctx context.Context, name string) (SavedRange, error)
	List(ctx context.Context) ([]SavedRange, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open connects to the backend named by driver ("sqlite" or "postgres").
// A nil clock uses the wall clock.
func Open(ctx context.Context, driver, dsn string, clock quartz.Clock) (Store, error) {
	switch driver {
	case "sqlite", "":
		return OpenSQLite(ctx, dsn, clock)
	case "postgres":
		return OpenPostgres(ctx, dsn, clock)
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return "", fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, maxNameLen)
	}
	return name, nil
}

func newSaved(name string, r ranges.Range, now time.Time) SavedRange {
	return SavedRange{
		ID:         uuid.New(),
		Name:       name,
		Notation:   ranges.Format(r),
		Combos:     r.Weight(),
		Percentage: r.Percentage(),
		UpdatedAt:  now.UTC().Truncate(time.Millisecond),
	}
}

// fill recomputes the derived fields after a row is read back.
func (s *SavedRange) fill() {
	r := s.Range()
	s.Combos = r.Weight()
	s.Percentage = r.Percentage()
}
