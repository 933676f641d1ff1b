package entry

import (
	"context"
	"time"
)

// Repository provides persistence for time entries.
type Repository interface {
	Append(ctx context.Context, e *TimeEntry) error
	Get(ctx context.Context, id string) (*TimeEntry, error)
	ListRange(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
	Recent(ctx context.Context, limit int) ([]TimeEntry, error)
	AppendReplacement(ctx context.Context, e *TimeEntry, replacedID string) error
	ModeDistribution(ctx context.Context, limit int) ([]ModeTotal, error)
	ClearLogged(ctx context.Context) (ClearStats, error)
}

// ModeRegistrar registers mode labels used by manual entries.
type ModeRegistrar interface {
	Register(ctx context.Context, label string) (int64, error)
}
