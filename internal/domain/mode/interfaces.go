package mode

import "context"

// Repository provides persistence for modes.
type Repository interface {
	Register(ctx context.Context, label string) (int64, error)
	List(ctx context.Context) ([]Mode, error)
	Delete(ctx context.Context, id int64) error
}
