package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	base := time.Now()
	entries := []*activity.ActivityEntry{
		{UserID: 1, ActivityType: activity.TypeReportAdded, Summary: "report", CreatedAt: base},
		{UserID: 2, ActivityType: activity.TypeProjectAdded, Summary: "project", Details: `{"abbr":"ДЗ"}`, CreatedAt: base.Add(time.Second)},
		{UserID: 1, ActivityType: activity.TypeProjectRemoved, Summary: "removed", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Log(ctx, e))
		require.NotZero(t, e.ID)
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, activity.TypeProjectRemoved, all[0].ActivityType)

	userID := int64(1)
	mine, err := repo.List(ctx, activity.ListActivityOptions{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	typ := activity.TypeProjectAdded
	added, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, `{"abbr":"ДЗ"}`, added[0].Details)

	limited, err := repo.List(ctx, activity.ListActivityOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}
