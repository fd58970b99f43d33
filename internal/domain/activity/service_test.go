package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		UserID:       1,
		ActivityType: activity.TypeReportAdded,
		Summary:      "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{Limit: 10}).Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())
	_, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{Limit: 10})
	require.NoError(t, err)
}

func TestActivityService_RecordSwallowsErrors(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.Details == `{"abbr":"РС"}`
	})).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	svc.Record(ctx, 1, activity.TypeProjectAdded, "added", map[string]string{"abbr": "РС"})
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsEmpty(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
}
