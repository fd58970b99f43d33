package report

import "context"

// Repository provides persistence for reports.
type Repository interface {
	Create(ctx context.Context, rep *Report) error
	List(ctx context.Context, opts ListOptions) ([]Report, error)
	DeleteForUser(ctx context.Context, userID int64) (int, error)
}
