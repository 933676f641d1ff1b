package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Upsert(ctx context.Context, code, name string) (int64, error)
	Get(ctx context.Context, id int64) (*Project, error)
	ListActive(ctx context.Context) ([]Project, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
}
