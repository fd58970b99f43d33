package project

import "context"

// Repository provides persistence for projects and per-user assignments.
type Repository interface {
	List(ctx context.Context) (Catalog, error)
	Create(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, abbr string) error
	GetAssignment(ctx context.Context, userID int64) (*Assignment, error)
	SetAssignment(ctx context.Context, assignment *Assignment) error
}
