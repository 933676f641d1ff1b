package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/repository"
)

// Store is the persistence the tracker writes through.
type Store struct {
	Projects *ProjectRepository
	Modes    *ModeRepository
	Entries  *EntryRepository
}

// NewStore creates a Store over db.
func NewStore(db *DB) *Store {
	return &Store{
		Projects: NewProjectRepository(db),
		Modes:    NewModeRepository(db),
		Entries:  NewEntryRepository(db),
	}
}

// RegisterMode upserts a mode label and bumps its usage counter.
func (s *Store) RegisterMode(ctx context.Context, label string) (int64, error) {
	return s.Modes.Register(ctx, label)
}

// AppendTimeEntry records one closed session.
func (s *Store) AppendTimeEntry(ctx context.Context, e *entry.TimeEntry) error {
	return s.Entries.Append(ctx, e)
}

// ProjectExists reports whether id names a stored project, archived or not.
func (s *Store) ProjectExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.Projects.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WorkSecondsOn sums credited work on the local date of day.
func (s *Store) WorkSecondsOn(ctx context.Context, day time.Time) (int64, error) {
	return s.Entries.WorkSecondsOn(ctx, day)
}
