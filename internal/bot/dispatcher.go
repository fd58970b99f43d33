// Package bot implements the bot side of the mini-app: launching it with a
// prepared payload, handling the data it sends back and reminding users.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/launch"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/webappdata"
)

// Notifier delivers a text message to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Reply is the bot's answer to the sender.
type Reply struct {
	Text string `json:"text"`
	// URL is set when the reply opens the web app.
	URL string `json:"url,omitempty"`
}

// Deps are the services a Dispatcher works with.
type Deps struct {
	Projects  *project.Service
	Reports   *report.Service
	Users     *user.Service
	Activity  *activity.Service
	Notifier  Notifier
	Admins    miniapp.AdminIDs
	WebAppURL string
}

// Dispatcher routes web app payloads and commands to the domain services.
type Dispatcher struct {
	projects  *project.Service
	reports   *report.Service
	users     *user.Service
	activity  *activity.Service
	notifier  Notifier
	admins    miniapp.AdminIDs
	webAppURL string
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(deps Deps, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.Notifier == nil {
		deps.Notifier = NewLogNotifier(logger)
	}
	if deps.Admins == nil {
		deps.Admins = miniapp.DefaultAdmins()
	}
	return &Dispatcher{
		projects:  deps.Projects,
		reports:   deps.Reports,
		users:     deps.Users,
		activity:  deps.Activity,
		notifier:  deps.Notifier,
		admins:    deps.Admins,
		webAppURL: deps.WebAppURL,
		logger:    logger,
	}
}

// IsAdmin reports whether userID is a configured administrator.
func (d *Dispatcher) IsAdmin(userID int64) bool {
	return d.admins.IsAdmin(userID)
}

// Launch registers the sender and returns the reply that opens the web app.
func (d *Dispatcher) Launch(ctx context.Context, sender user.Identity) (Reply, error) {
	if _, err := d.register(ctx, sender); err != nil {
		return Reply{}, err
	}
	payload, err := d.Payload(ctx, sender.ID)
	if err != nil {
		return Reply{}, err
	}
	u, err := launch.BuildURL(d.webAppURL, payload)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: welcomeText(sender, payload.Admin), URL: u}, nil
}

// Payload assembles the launch payload for a user. Admin statistics are
// only included for administrators.
func (d *Dispatcher) Payload(ctx context.Context, userID int64) (launch.Payload, error) {
	mine, err := d.projects.ListForUser(ctx, userID)
	if err != nil {
		return launch.Payload{}, err
	}
	all, err := d.projects.List(ctx)
	if err != nil {
		return launch.Payload{}, err
	}
	users, err := d.users.List(ctx)
	if err != nil {
		return launch.Payload{}, err
	}
	reports, err := d.reports.List(ctx, 0)
	if err != nil {
		return launch.Payload{}, fmt.Errorf("listing reports: %w", err)
	}

	p := launch.Payload{
		Admin:       d.IsAdmin(userID),
		UserID:      userID,
		Projects:    mine,
		AllProjects: all,
		AllUsers:    user.Refs(users),
		UserStats:   report.UserStatsFor(reports, userID),
	}
	for _, u := range users {
		if u.ID == userID {
			p.Username = u.Username
		}
	}
	if p.Admin {
		stats := report.AdminStatsFor(reports)
		p.AdminStats = &stats
	}
	return p, nil
}

// Handle processes data sent by the web app on behalf of sender.
func (d *Dispatcher) Handle(ctx context.Context, sender user.Identity, data []byte) (Reply, error) {
	env, err := webappdata.Decode(data)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Type.AdminOnly() && !d.IsAdmin(sender.ID) {
		d.logger.Warn("rejected admin action", "user_id", sender.ID, "type", env.Type)
		return Reply{}, ErrAdminOnly
	}
	if _, err := d.register(ctx, sender); err != nil {
		return Reply{}, err
	}

	switch env.Type {
	case webappdata.TypeReport:
		var p webappdata.Report
		if err := env.Into(&p); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return d.handleReport(ctx, sender, p)
	case webappdata.TypeAddProject:
		var p webappdata.AddProject
		if err := env.Into(&p); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return d.handleAddProject(ctx, sender, p)
	case webappdata.TypeRemoveProject:
		var p webappdata.RemoveProject
		if err := env.Into(&p); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return d.handleRemoveProject(ctx, sender, p)
	case webappdata.TypeAssignProjects:
		var p webappdata.AssignProjects
		if err := env.Into(&p); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return d.handleAssign(ctx, sender, p)
	default:
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func (d *Dispatcher) handleReport(ctx context.Context, sender user.Identity, p webappdata.Report) (Reply, error) {
	items := p.Items()
	req := report.AddRequest{
		UserID:   sender.ID,
		Username: sender.DisplayName(),
		Comments: p.Comments,
	}
	for _, i := range items {
		req.Items = append(req.Items, report.Item{Project: i.Project, ProjectAbbr: i.ProjectAbbr, Hours: i.Hours})
	}

	saved, err := d.reports.Add(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	d.activity.Record(ctx, sender.ID, activity.TypeReportAdded,
		fmt.Sprintf("%s reported %s h", req.Username, formatHours(report.TotalHours(saved))), items)

	notice := adminNoticeText(sender, items, saved)
	for _, admin := range d.admins {
		if admin == sender.ID {
			continue
		}
		if err := d.notifier.Notify(ctx, admin, notice); err != nil {
			d.logger.Warn("admin notification failed", "admin_id", admin, "error", err)
		}
	}
	return Reply{Text: reportSavedText(items, saved)}, nil
}

func (d *Dispatcher) handleAddProject(ctx context.Context, sender user.Identity, p webappdata.AddProject) (Reply, error) {
	proj, err := d.projects.Add(ctx, p.Abbr, p.Full)
	if err != nil {
		return Reply{}, err
	}
	d.activity.Record(ctx, sender.ID, activity.TypeProjectAdded, "added project "+proj.Abbr, proj)
	return Reply{Text: fmt.Sprintf("✅ <b>%s</b> — %s добавлен!", proj.Abbr, proj.Full)}, nil
}

func (d *Dispatcher) handleRemoveProject(ctx context.Context, sender user.Identity, p webappdata.RemoveProject) (Reply, error) {
	if err := d.projects.Remove(ctx, p.Abbr); err != nil {
		return Reply{}, err
	}
	d.activity.Record(ctx, sender.ID, activity.TypeProjectRemoved, "removed project "+p.Abbr, p)
	return Reply{Text: "✅ Проект удалён."}, nil
}

func (d *Dispatcher) handleAssign(ctx context.Context, sender user.Identity, p webappdata.AssignProjects) (Reply, error) {
	if err := d.projects.Assign(ctx, p.UserID, p.Abbrs); err != nil {
		return Reply{}, err
	}
	d.activity.Record(ctx, sender.ID, activity.TypeProjectsAssigned,
		fmt.Sprintf("assigned %d projects to %d", len(p.Abbrs), p.UserID), p)
	return Reply{Text: fmt.Sprintf("✅ Проекты назначены для <b>%s</b>", p.Username)}, nil
}

// RemindMissing notifies every registered user without a report today and
// returns how many reminders were delivered.
func (d *Dispatcher) RemindMissing(ctx context.Context) (int, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return 0, err
	}
	reported, err := d.reports.ReportedOn(ctx, d.reports.Today())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if reported[u.ID] {
			continue
		}
		if err := d.notifier.Notify(ctx, u.ID, reminderText); err != nil {
			d.logger.Warn("reminder failed", "user_id", u.ID, "error", err)
			continue
		}
		sent++
	}
	d.activity.Record(ctx, 0, activity.TypeReminderSent, fmt.Sprintf("reminded %d users", sent), nil)
	d.logger.Info("reminders sent", "count", sent)
	return sent, nil
}

// NotifyAll sends a report reminder to every registered user on an
// administrator's request.
func (d *Dispatcher) NotifyAll(ctx context.Context, sender user.Identity) (Reply, error) {
	if !d.IsAdmin(sender.ID) {
		return Reply{}, ErrAdminOnly
	}
	users, err := d.users.List(ctx)
	if err != nil {
		return Reply{}, err
	}
	sent := 0
	for _, u := range users {
		if err := d.notifier.Notify(ctx, u.ID, broadcastText); err != nil {
			d.logger.Warn("notification failed", "user_id", u.ID, "error", err)
			continue
		}
		sent++
	}
	d.activity.Record(ctx, sender.ID, activity.TypeReminderSent, fmt.Sprintf("notified %d users", sent), nil)
	return Reply{Text: fmt.Sprintf("✅ Отправлено %d пользователям.", sent)}, nil
}

// Export writes every report as CSV and returns how many were written.
func (d *Dispatcher) Export(ctx context.Context, sender user.Identity, w io.Writer) (int, error) {
	if !d.IsAdmin(sender.ID) {
		return 0, ErrAdminOnly
	}
	reports, err := d.reports.List(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(reports) == 0 {
		return 0, ErrNoData
	}
	if err := report.WriteCSV(w, reports); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}
	d.activity.Record(ctx, sender.ID, activity.TypeReportsExported, fmt.Sprintf("exported %d reports", len(reports)), nil)
	return len(reports), nil
}

// ExportFilename names an export produced at t.
func ExportFilename(t time.Time) string {
	return "reports_" + t.Format("20060102") + ".csv"
}

// ExportCaption describes an export of n reports.
func ExportCaption(n int) string {
	return fmt.Sprintf("📊 Экспорт | %d отчётов", n)
}

func (d *Dispatcher) register(ctx context.Context, sender user.Identity) (*user.User, error) {
	if sender.ID == 0 {
		return nil, fmt.Errorf("%w: sender has no id", ErrMalformedPayload)
	}
	u, err := d.users.Register(ctx, sender.ID, sender.DisplayName())
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}
	return u, nil
}
