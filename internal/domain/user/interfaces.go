package user

import "context"

// Repository provides persistence for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id int64) (*User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	List(ctx context.Context) ([]User, error)
}
