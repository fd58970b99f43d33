package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type stubReminder struct {
	sent  int
	calls int
}

func (r *stubReminder) RemindMissing(context.Context) (int, error) {
	r.calls++
	return r.sent, nil
}

type fixture struct {
	session  *sdkmcp.ClientSession
	projects *project.Service
	reports  *report.Service
	users    *user.Service
	activity *activity.Service
	reminder *stubReminder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		projects: project.NewService(sqlite.NewProjectRepository(db), nil),
		reports:  report.NewService(sqlite.NewReportRepository(db), nil, report.WithClock(func() time.Time { return now }), report.WithLocation(time.UTC)),
		users:    user.NewService(sqlite.NewUserRepository(db), nil),
		activity: activity.NewService(sqlite.NewActivityRepository(db), nil),
		reminder: &stubReminder{sent: 2},
	}
	_, err = f.projects.EnsureDefaults(ctx)
	require.NoError(t, err)

	server := NewServer(Config{Services: Services{
		Projects: f.projects,
		Reports:  f.reports,
		Users:    f.users,
		Activity: f.activity,
		Reminder: f.reminder,
		Recorder: f.activity,
	}})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	f.session, err = client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.session.Close() })
	return f
}

func (f *fixture) call(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	result := f.callRaw(t, name, args)
	require.False(t, result.IsError, "%s failed: %s", name, resultText(result))
	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func (f *fixture) callRaw(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	result, err := f.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return result
}

func resultText(result *sdkmcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestListTools(t *testing.T) {
	f := newFixture(t)

	tools, err := f.session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"list_projects", "add_project", "remove_project", "assign_projects",
		"list_users", "list_reports", "user_stats", "admin_stats",
		"export_reports", "recent_activity", "send_reminders",
	} {
		require.True(t, names[name], "missing tool %s", name)
	}
}

func TestProjectTools(t *testing.T) {
	f := newFixture(t)

	var added ProjectOut
	f.call(t, "add_project", map[string]any{"abbr": "дз", "full": "Дизайн"}, &added)
	require.Equal(t, ProjectOut{Abbr: "ДЗ", Full: "Дизайн"}, added)

	var list ProjectsResult
	f.call(t, "list_projects", nil, &list)
	require.Len(t, list.Projects, 4)
	require.Equal(t, "ДЗ", list.Projects[3].Abbr)

	result := f.callRaw(t, "add_project", map[string]any{"abbr": "ДЗ", "full": "Другое"})
	require.True(t, result.IsError)
	require.Contains(t, resultText(result), "INVALID_PROJECT")

	var removed RemoveProjectResult
	f.call(t, "remove_project", map[string]any{"abbr": "дз"}, &removed)
	require.Equal(t, "ДЗ", removed.Removed)

	result = f.callRaw(t, "remove_project", map[string]any{"abbr": "ДЗ"})
	require.True(t, result.IsError)
	require.Contains(t, resultText(result), "PROJECT_NOT_FOUND")

	var log ActivityResult
	f.call(t, "recent_activity", map[string]any{"type": string(activity.TypeProjectRemoved)}, &log)
	require.Len(t, log.Entries, 1)
	require.Contains(t, log.Entries[0].Summary, "ДЗ")
}

func TestAssignProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.callRaw(t, "assign_projects", map[string]any{"user_id": 7, "abbrs": []string{"КП"}})
	require.True(t, result.IsError)
	require.Contains(t, resultText(result), "USER_NOT_FOUND")

	_, err := f.users.Register(ctx, 7, "ivan")
	require.NoError(t, err)

	var assigned AssignProjectsResult
	f.call(t, "assign_projects", map[string]any{"user_id": 7, "abbrs": []string{"КП"}}, &assigned)
	require.Equal(t, int64(7), assigned.UserID)
	require.Equal(t, []ProjectOut{{Abbr: "КП", Full: "Клиентская поддержка"}}, assigned.Projects)

	var list ProjectsResult
	f.call(t, "list_projects", map[string]any{"user_id": 7}, &list)
	require.Len(t, list.Projects, 1)

	var users UsersResult
	f.call(t, "list_users", nil, &users)
	require.Len(t, users.Users, 1)
	require.Equal(t, "ivan", users.Users[0].Username)
}

func TestReportTools(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, 7, "ivan")
	require.NoError(t, err)
	_, err = f.reports.Add(ctx, report.AddRequest{
		UserID:   7,
		Username: "ivan",
		Items: []report.Item{
			{Project: "Маркетинг", ProjectAbbr: "МРК", Hours: 2},
			{Project: "Разработка сайта", ProjectAbbr: "РС", Hours: 5.5},
		},
		Comments: "-",
	})
	require.NoError(t, err)
	_, err = f.reports.Add(ctx, report.AddRequest{
		UserID:   8,
		Username: "olga",
		Items:    []report.Item{{Project: "Маркетинг", ProjectAbbr: "МРК", Hours: 1}},
		Comments: "созвон",
	})
	require.NoError(t, err)

	var reports ReportsResult
	f.call(t, "list_reports", map[string]any{"user_id": 7}, &reports)
	require.Len(t, reports.Reports, 2)
	require.InDelta(t, 7.5, reports.TotalHours, 0.001)
	require.Equal(t, "2025-03-14", reports.Reports[0].Date)

	var stats UserStatsResult
	f.call(t, "user_stats", map[string]any{"user_id": 7}, &stats)
	require.Equal(t, "ivan", stats.Username)
	require.Equal(t, 2, stats.Stats.TotalReports)
	require.InDelta(t, 2.0, stats.Stats.ByProject["Маркетинг"], 0.001)

	var admin report.AdminStats
	f.call(t, "admin_stats", nil, &admin)
	require.Equal(t, 3, admin.TotalReports)
	require.InDelta(t, 8.5, admin.TotalHours, 0.001)
	require.Len(t, admin.Employees, 2)

	var export ExportResult
	f.call(t, "export_reports", nil, &export)
	require.Equal(t, 3, export.Count)
	require.True(t, strings.HasPrefix(export.CSV, "\ufeff"))
	require.Contains(t, export.CSV, "созвон")
	require.True(t, strings.HasSuffix(export.Filename, ".csv"))
}

func TestExportWithoutReports(t *testing.T) {
	f := newFixture(t)

	result := f.callRaw(t, "export_reports", nil)
	require.True(t, result.IsError)
	require.Contains(t, resultText(result), "NO_DATA")
}

func TestSendReminders(t *testing.T) {
	f := newFixture(t)

	var sent SendRemindersResult
	f.call(t, "send_reminders", nil, &sent)
	require.Equal(t, 2, sent.Sent)
	require.Equal(t, 1, f.reminder.calls)
}

func TestDocResources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Resources, len(docResources))

	res, err := f.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "timesheet://docs/payloads"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "add_project")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Equal(t, "PROJECT_NOT_FOUND", MapError(project.ErrProjectNotFound).Code)
	require.Equal(t, "INVALID_HOURS", MapError(report.ErrInvalidHours).Code)
	require.Equal(t, "USER_NOT_FOUND", MapError(user.ErrUserNotFound).Code)
	require.Nil(t, MapError(context.Canceled))

	err := toolError("listing", context.Canceled)
	require.ErrorIs(t, err, context.Canceled)
}
