package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultActivityLimit = 50

type tools struct {
	svc    Services
	logger *slog.Logger
}

// ProjectOut is a project as returned by tools.
type ProjectOut struct {
	Abbr string `json:"abbr"`
	Full string `json:"full"`
}

// UserOut is a registered user.
type UserOut struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}

// ReportOut is one stored report.
type ReportOut struct {
	ID        string  `json:"id"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Project   string  `json:"project"`
	Hours     float64 `json:"hours"`
	Comments  string  `json:"comments"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"created_at"`
}

// ActivityOut is one audit log entry.
type ActivityOut struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type ListProjectsParams struct {
	UserID int64 `json:"user_id,omitempty" jsonschema:"restrict to the projects assigned to this user"`
}

type ProjectsResult struct {
	Projects []ProjectOut `json:"projects"`
}

type AddProjectParams struct {
	Abbr string `json:"abbr" jsonschema:"short code, at least 2 characters, stored upper-case"`
	Full string `json:"full" jsonschema:"full project name, at least 3 characters"`
}

type RemoveProjectParams struct {
	Abbr string `json:"abbr" jsonschema:"abbreviation of the project to remove"`
}

type RemoveProjectResult struct {
	Removed string `json:"removed"`
}

type AssignProjectsParams struct {
	UserID int64    `json:"user_id" jsonschema:"telegram user id"`
	Abbrs  []string `json:"abbrs" jsonschema:"abbreviations the user may report on; empty clears the restriction"`
}

type AssignProjectsResult struct {
	UserID   int64        `json:"user_id"`
	Projects []ProjectOut `json:"projects"`
}

type UsersResult struct {
	Users []UserOut `json:"users"`
}

type ListReportsParams struct {
	UserID int64 `json:"user_id,omitempty" jsonschema:"only reports of this user"`
	Days   int   `json:"days,omitempty" jsonschema:"only the last N days; 0 means all"`
}

type ReportsResult struct {
	Reports    []ReportOut `json:"reports"`
	TotalHours float64     `json:"total_hours"`
}

type UserStatsParams struct {
	UserID int64 `json:"user_id" jsonschema:"telegram user id"`
	Days   int   `json:"days,omitempty" jsonschema:"only the last N days; 0 means all"`
}

type UserStatsResult struct {
	UserID   int64            `json:"user_id"`
	Username string           `json:"username"`
	Stats    report.UserStats `json:"stats"`
}

type AdminStatsParams struct {
	Days int `json:"days,omitempty" jsonschema:"only the last N days; 0 means all"`
}

type ExportParams struct {
	Days int `json:"days,omitempty" jsonschema:"only the last N days; 0 means all"`
}

type ExportResult struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	CSV      string `json:"csv"`
}

type RecentActivityParams struct {
	UserID int64  `json:"user_id,omitempty" jsonschema:"only entries caused by this user"`
	Type   string `json:"type,omitempty" jsonschema:"only entries of this type, e.g. report_added"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of entries, default 50"`
}

type ActivityResult struct {
	Entries []ActivityOut `json:"entries"`
}

type SendRemindersResult struct {
	Sent int `json:"sent"`
}

type empty struct{}

func (t *tools) register(server *sdkmcp.Server) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the project catalog, or the projects assigned to one user",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_project",
		Description: "Add a project to the catalog",
	}, t.addProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_project",
		Description: "Remove a project from the catalog by abbreviation",
	}, t.removeProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assign_projects",
		Description: "Restrict the projects a user can report on",
	}, t.assignProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_users",
		Description: "List users who opened the mini-app",
	}, t.listUsers)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_reports",
		Description: "List stored time reports, oldest first",
	}, t.listReports)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "user_stats",
		Description: "Hours and reports of one user, per project",
	}, t.userStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "admin_stats",
		Description: "Hours per employee and per project plus the most recent reports",
	}, t.adminStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_reports",
		Description: "Export reports as CSV (Дата, Сотрудник, Проект, Часы, Комментарий)",
	}, t.exportReports)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "Recent audit log entries, newest first",
	}, t.recentActivity)
	if t.svc.Reminder != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "send_reminders",
			Description: "Remind every user without a report today",
		}, t.sendReminders)
	}
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, ProjectsResult, error) {
	var (
		catalog project.Catalog
		err     error
	)
	if in.UserID != 0 {
		catalog, err = t.svc.Projects.ListForUser(ctx, in.UserID)
	} else {
		catalog, err = t.svc.Projects.List(ctx)
	}
	if err != nil {
		return nil, ProjectsResult{}, toolError("listing projects", err)
	}
	return nil, ProjectsResult{Projects: projectsOut(catalog)}, nil
}

func (t *tools) addProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddProjectParams) (*sdkmcp.CallToolResult, ProjectOut, error) {
	p, err := t.svc.Projects.Add(ctx, in.Abbr, in.Full)
	if err != nil {
		return nil, ProjectOut{}, toolError("adding project", err)
	}
	t.svc.Recorder.Record(ctx, 0, activity.TypeProjectAdded, "added "+p.Abbr+" via mcp", p)
	return nil, ProjectOut{Abbr: p.Abbr, Full: p.Full}, nil
}

func (t *tools) removeProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in RemoveProjectParams) (*sdkmcp.CallToolResult, RemoveProjectResult, error) {
	abbr := project.NormalizeAbbr(in.Abbr)
	if err := t.svc.Projects.Remove(ctx, abbr); err != nil {
		return nil, RemoveProjectResult{}, toolError("removing project", err)
	}
	t.svc.Recorder.Record(ctx, 0, activity.TypeProjectRemoved, "removed "+abbr+" via mcp", in)
	return nil, RemoveProjectResult{Removed: abbr}, nil
}

func (t *tools) assignProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssignProjectsParams) (*sdkmcp.CallToolResult, AssignProjectsResult, error) {
	if _, err := t.svc.Users.Get(ctx, in.UserID); err != nil {
		return nil, AssignProjectsResult{}, toolError("assigning projects", err)
	}
	if err := t.svc.Projects.Assign(ctx, in.UserID, in.Abbrs); err != nil {
		return nil, AssignProjectsResult{}, toolError("assigning projects", err)
	}
	t.svc.Recorder.Record(ctx, 0, activity.TypeProjectsAssigned,
		fmt.Sprintf("assigned %d projects to %d via mcp", len(in.Abbrs), in.UserID), in)

	catalog, err := t.svc.Projects.ListForUser(ctx, in.UserID)
	if err != nil {
		return nil, AssignProjectsResult{}, toolError("assigning projects", err)
	}
	return nil, AssignProjectsResult{UserID: in.UserID, Projects: projectsOut(catalog)}, nil
}

func (t *tools) listUsers(ctx context.Context, _ *sdkmcp.CallToolRequest, _ empty) (*sdkmcp.CallToolResult, UsersResult, error) {
	users, err := t.svc.Users.List(ctx)
	if err != nil {
		return nil, UsersResult{}, toolError("listing users", err)
	}
	out := make([]UserOut, 0, len(users))
	for _, u := range users {
		out = append(out, UserOut{ID: u.ID, Username: u.Username, RegisteredAt: u.RegisteredAt.Format(time.RFC3339)})
	}
	return nil, UsersResult{Users: out}, nil
}

func (t *tools) listReports(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListReportsParams) (*sdkmcp.CallToolResult, ReportsResult, error) {
	reports, err := t.reports(ctx, in.UserID, in.Days)
	if err != nil {
		return nil, ReportsResult{}, err
	}
	out := make([]ReportOut, 0, len(reports))
	for _, r := range reports {
		out = append(out, ReportOut{
			ID:        r.ID,
			UserID:    r.UserID,
			Username:  r.Username,
			Project:   r.Project,
			Hours:     r.Hours,
			Comments:  r.Comments,
			Date:      r.Date,
			CreatedAt: r.CreatedAt.Format(report.DateTimeLayout),
		})
	}
	return nil, ReportsResult{Reports: out, TotalHours: report.TotalHours(reports)}, nil
}

func (t *tools) userStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in UserStatsParams) (*sdkmcp.CallToolResult, UserStatsResult, error) {
	u, err := t.svc.Users.Get(ctx, in.UserID)
	if err != nil {
		return nil, UserStatsResult{}, toolError("user stats", err)
	}
	reports, err := t.reports(ctx, in.UserID, in.Days)
	if err != nil {
		return nil, UserStatsResult{}, err
	}
	return nil, UserStatsResult{
		UserID:   u.ID,
		Username: u.Username,
		Stats:    report.UserStatsFor(reports, u.ID),
	}, nil
}

func (t *tools) adminStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in AdminStatsParams) (*sdkmcp.CallToolResult, report.AdminStats, error) {
	reports, err := t.reports(ctx, 0, in.Days)
	if err != nil {
		return nil, report.AdminStats{}, err
	}
	return nil, report.AdminStatsFor(reports), nil
}

func (t *tools) exportReports(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportParams) (*sdkmcp.CallToolResult, ExportResult, error) {
	reports, err := t.reports(ctx, 0, in.Days)
	if err != nil {
		return nil, ExportResult{}, err
	}
	if len(reports) == 0 {
		return nil, ExportResult{}, toolError("exporting reports", bot.ErrNoData)
	}
	var buf strings.Builder
	if err := report.WriteCSV(&buf, reports); err != nil {
		return nil, ExportResult{}, toolError("exporting reports", err)
	}
	t.svc.Recorder.Record(ctx, 0, activity.TypeReportsExported, fmt.Sprintf("exported %d reports via mcp", len(reports)), nil)
	return nil, ExportResult{
		Filename: bot.ExportFilename(time.Now()),
		Count:    len(reports),
		CSV:      buf.String(),
	}, nil
}

func (t *tools) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultActivityLimit
	}
	if in.UserID != 0 {
		opts.UserID = &in.UserID
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, ActivityResult{}, toolError("listing activity", err)
	}
	out := make([]ActivityOut, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityOut{
			ID:        e.ID,
			UserID:    e.UserID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil, ActivityResult{Entries: out}, nil
}

func (t *tools) sendReminders(ctx context.Context, _ *sdkmcp.CallToolRequest, _ empty) (*sdkmcp.CallToolResult, SendRemindersResult, error) {
	sent, err := t.svc.Reminder.RemindMissing(ctx)
	if err != nil {
		return nil, SendRemindersResult{}, toolError("sending reminders", err)
	}
	t.logger.Info("reminders sent via mcp", "count", sent)
	return nil, SendRemindersResult{Sent: sent}, nil
}

func (t *tools) reports(ctx context.Context, userID int64, days int) ([]report.Report, error) {
	var (
		reports []report.Report
		err     error
	)
	if userID != 0 {
		reports, err = t.svc.Reports.ListForUser(ctx, userID, days)
	} else {
		reports, err = t.svc.Reports.List(ctx, days)
	}
	if err != nil {
		return nil, toolError("listing reports", err)
	}
	return reports, nil
}

func projectsOut(catalog project.Catalog) []ProjectOut {
	out := make([]ProjectOut, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, ProjectOut{Abbr: p.Abbr, Full: p.Full})
	}
	return out
}
