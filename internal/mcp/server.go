package mcp

import (
	"context"
	"log/slog"

	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) (project.Catalog, error)
	ListForUser(ctx context.Context, userID int64) (project.Catalog, error)
	Add(ctx context.Context, abbr, full string) (*project.Project, error)
	Remove(ctx context.Context, abbr string) error
	Assign(ctx context.Context, userID int64, abbrs []string) error
}

// ReportService defines report operations needed by MCP.
type ReportService interface {
	List(ctx context.Context, days int) ([]report.Report, error)
	ListForUser(ctx context.Context, userID int64, days int) ([]report.Report, error)
}

// UserService defines user operations needed by MCP.
type UserService interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Reminder sends the daily reminder to users without a report today.
type Reminder interface {
	RemindMissing(ctx context.Context) (int, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Reports  ReportService
	Users    UserService
	Activity ActivityService
	Reminder Reminder
	// Recorder receives an audit entry for every mutation. Optional.
	Recorder *activity.Service
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timesheet",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	t := &tools{svc: cfg.Services, logger: logger}
	t.register(server)

	return server
}
