package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/timesheet/internal/repository"
)

// Service handles user registration.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Register records a user on first contact and keeps the username current afterwards.
func (s *Service) Register(ctx context.Context, id int64, username string) (*User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u := &User{ID: id, Username: username, RegisteredAt: time.Now()}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		s.logger.Info("user registered", "user_id", id, "username", username)
		return u, nil
	case err != nil:
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if existing.Username != username {
		if err := s.repo.UpdateUsername(ctx, id, username); err != nil {
			return nil, fmt.Errorf("updating username: %w", err)
		}
		existing.Username = username
	}
	return existing, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// List returns every registered user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Refs converts users to their compact form.
func Refs(users []User) []Ref {
	out := make([]Ref, 0, len(users))
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "?"
		}
		out = append(out, Ref{ID: u.ID, Username: name})
	}
	return out
}
