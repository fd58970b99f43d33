package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/timesheet/internal/repository"
)

// Service handles project catalog operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// EnsureDefaults seeds the default catalog when no project exists yet.
func (s *Service) EnsureDefaults(ctx context.Context) (Catalog, error) {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(catalog) > 0 {
		return catalog, nil
	}

	defaults := DefaultCatalog()
	for i := range defaults {
		defaults[i].CreatedAt = time.Now()
		if err := s.repo.Create(ctx, &defaults[i]); err != nil {
			return nil, fmt.Errorf("seeding project %s: %w", defaults[i].Abbr, err)
		}
	}
	s.logger.Info("seeded default projects", "count", len(defaults))
	return defaults, nil
}

// List returns the full catalog, seeding defaults on first use.
func (s *Service) List(ctx context.Context) (Catalog, error) {
	return s.EnsureDefaults(ctx)
}

// ListForUser returns the projects assigned to a user. Users without an
// assignment, or whose assignment matches nothing, see the whole catalog.
func (s *Service) ListForUser(ctx context.Context, userID int64) (Catalog, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	assignment, err := s.repo.GetAssignment(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}

	filtered := all.Filter(assignment.Abbrs)
	if len(filtered) == 0 {
		return all, nil
	}
	return filtered, nil
}

// Add registers a new project. The abbreviation is stored upper-cased.
func (s *Service) Add(ctx context.Context, abbr, full string) (*Project, error) {
	abbr = NormalizeAbbr(abbr)
	full = strings.TrimSpace(full)

	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateNew(abbr, full, catalog); err != nil {
		return nil, err
	}

	proj := &Project{Abbr: abbr, Full: full, CreatedAt: time.Now()}
	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Added concurrently; find out which field collided.
			if current, lerr := s.repo.List(ctx); lerr == nil {
				if verr := ValidateNew(abbr, full, current); verr != nil {
					return nil, verr
				}
			}
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("project added", "abbr", abbr, "full", full)
	return proj, nil
}

// Remove deletes the project with the given abbreviation, matched
// case-insensitively.
func (s *Service) Remove(ctx context.Context, abbr string) error {
	if strings.TrimSpace(abbr) == "" {
		return ErrInvalidInput
	}
	catalog, err := s.List(ctx)
	if err != nil {
		return err
	}
	proj, ok := catalog.Find(NormalizeAbbr(abbr))
	if !ok {
		return ErrProjectNotFound
	}
	abbr = proj.Abbr
	if err := s.repo.Delete(ctx, abbr); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project removed", "abbr", abbr)
	return nil
}

// Assign restricts the catalog shown to a user.
func (s *Service) Assign(ctx context.Context, userID int64, abbrs []string) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	if abbrs == nil {
		abbrs = []string{}
	}
	if err := s.repo.SetAssignment(ctx, &Assignment{UserID: userID, Abbrs: abbrs}); err != nil {
		return fmt.Errorf("setting assignment: %w", err)
	}
	return nil
}
