package mocks

import (
	"context"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) List(ctx context.Context) (project.Catalog, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).(project.Catalog); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, abbr string) error {
	args := m.Called(ctx, abbr)
	return args.Error(0)
}

func (m *ProjectRepository) GetAssignment(ctx context.Context, userID int64) (*project.Assignment, error) {
	args := m.Called(ctx, userID)
	if a, ok := args.Get(0).(*project.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetAssignment(ctx context.Context, assignment *project.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

// ReportRepository is a mock for report.Repository.
type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func (m *ReportRepository) List(ctx context.Context, opts report.ListOptions) ([]report.Report, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]report.Report); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) DeleteForUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]user.User); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
