package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles report business logic.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone report dates are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService creates a new report service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, logger: logger, now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRequest describes a report submission, possibly spanning several projects.
type AddRequest struct {
	UserID   int64
	Username string
	Items    []Item
	Comments string
}

// Add stores one report per item. All items are validated before anything is written.
func (s *Service) Add(ctx context.Context, req AddRequest) ([]Report, error) {
	if req.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range req.Items {
		if err := ValidateItem(item); err != nil {
			return nil, err
		}
	}

	comments := strings.TrimSpace(req.Comments)
	if comments == "" {
		comments = "-"
	}

	now := s.now().In(s.location)
	saved := make([]Report, 0, len(req.Items))
	for _, item := range req.Items {
		rep := &Report{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			Username:    req.Username,
			Project:     item.Project,
			ProjectAbbr: item.ProjectAbbr,
			Hours:       item.Hours,
			Comments:    comments,
			Date:        now.Format(DateLayout),
			CreatedAt:   now,
		}
		if err := s.repo.Create(ctx, rep); err != nil {
			return nil, fmt.Errorf("creating report: %w", err)
		}
		saved = append(saved, *rep)
	}

	s.logger.Info("report saved", "user", req.Username, "items", len(saved), "hours", TotalHours(saved))
	return saved, nil
}

// ListForUser returns a user's reports, limited to the last days when days > 0.
func (s *Service) ListForUser(ctx context.Context, userID int64, days int) ([]Report, error) {
	opts := ListOptions{UserID: &userID, Since: s.cutoff(days)}
	return s.repo.List(ctx, opts)
}

// List returns all reports, limited to the last days when days > 0.
func (s *Service) List(ctx context.Context, days int) ([]Report, error) {
	return s.repo.List(ctx, ListOptions{Since: s.cutoff(days)})
}

// ReportedOn returns the set of users with at least one report on date.
func (s *Service) ReportedOn(ctx context.Context, date string) (map[int64]bool, error) {
	reports, err := s.repo.List(ctx, ListOptions{Date: date})
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	out := make(map[int64]bool, len(reports))
	for _, r := range reports {
		out[r.UserID] = true
	}
	return out, nil
}

// Today returns the current date in the service location.
func (s *Service) Today() string {
	return s.now().In(s.location).Format(DateLayout)
}

// DeleteForUser removes every report of a user and returns how many were deleted.
func (s *Service) DeleteForUser(ctx context.Context, userID int64) (int, error) {
	n, err := s.repo.DeleteForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting reports: %w", err)
	}
	return n, nil
}

func (s *Service) cutoff(days int) string {
	if days <= 0 {
		return ""
	}
	return s.now().In(s.location).AddDate(0, 0, -days).Format(DateLayout)
}
