package tracker

import (
	"context"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
)

// EntryStore persists modes and finished time entries.
type EntryStore interface {
	// RegisterMode upserts a mode label and bumps its usage counter.
	RegisterMode(ctx context.Context, label string) (int64, error)
	// AppendTimeEntry durably records one closed session.
	AppendTimeEntry(ctx context.Context, e *entry.TimeEntry) error
	// ProjectExists reports whether a project with id is stored.
	ProjectExists(ctx context.Context, id int64) (bool, error)
	// WorkSecondsOn sums active and manual seconds of non-idle entries on day.
	WorkSecondsOn(ctx context.Context, day time.Time) (int64, error)
}

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}
