package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/config"
	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/initdata"
	"github.com/rpggio/timesheet/internal/mcp"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/reminder"
	"github.com/rpggio/timesheet/internal/sqlite"
	"github.com/rpggio/timesheet/internal/telegram"
	"github.com/rpggio/timesheet/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.MCP.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := checkBotToken(&cfg); err != nil {
		logger.Error("refusing to start", "error", err)
		os.Exit(1)
	}
	if cfg.Bot.InsecureDev && cfg.Bot.Token == "" {
		logger.Warn("development mode: no bot token, init data is not authenticated; listening on loopback only", "host", cfg.Server.Host)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	schedule, err := reminderSchedule(cfg.Reminder)
	if err != nil {
		logger.Error("invalid reminder schedule", "error", err)
		os.Exit(1)
	}

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), logger)
	reportSvc := report.NewService(sqlite.NewReportRepository(db), logger, report.WithLocation(schedule.Location))
	userSvc := user.NewService(sqlite.NewUserRepository(db), logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if _, err := projectSvc.EnsureDefaults(ctx); err != nil {
		logger.Error("failed to seed projects", "error", err)
		os.Exit(1)
	}

	var (
		client   *telegram.Client
		notifier bot.Notifier
	)
	if cfg.Bot.Token != "" {
		client, err = telegram.NewClient(cfg.Bot.APIURL, cfg.Bot.Token, nil, logger)
		if err != nil {
			logger.Error("failed to create bot client", "error", err)
			os.Exit(1)
		}
		notifier = client
	} else {
		notifier = bot.NewLogNotifier(logger)
	}

	dispatcher := bot.NewDispatcher(bot.Deps{
		Projects:  projectSvc,
		Reports:   reportSvc,
		Users:     userSvc,
		Activity:  activitySvc,
		Notifier:  notifier,
		Admins:    miniapp.AdminIDs(cfg.Bot.AdminIDs),
		WebAppURL: cfg.Bot.WebAppURL,
	}, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Reports:  reportSvc,
			Users:    userSvc,
			Activity: activitySvc,
			Reminder: dispatcher,
			Recorder: activitySvc,
		},
		Logger: logger,
	})

	if cfg.MCP.Mode == "stdio" {
		runStdioMode(ctx, logger, mcpServer)
		return
	}

	var wg sync.WaitGroup
	if client != nil && cfg.Bot.Polling {
		poller := telegram.NewPoller(client, dispatcher, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("poller stopped", "error", err)
			}
		}()
	}
	if cfg.Reminder.Enabled {
		scheduler := reminder.NewScheduler(schedule, dispatcher.RemindMissing, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("reminder scheduler stopped", "error", err)
			}
		}()
	}

	opts := transport.Options{
		Dispatcher: dispatcher,
		Resolver:   transport.InitDataResolver{Validator: initdata.NewValidator(cfg.Bot.Token, cfg.Bot.MaxAge)},
		Logger:     logger,
	}
	if cfg.MCP.Mode == "http" {
		if cfg.MCP.Token == "" {
			logger.Warn("mcp token not set, /mcp rejects every request")
		}
		opts.MCP = sdkmcp.NewStreamableHTTPHandler(
			func(r *http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				Stateless:      false,
				SessionTimeout: 30 * time.Minute,
			},
		)
		opts.MCPAuth = transport.BearerMiddleware(cfg.MCP.Token)
	}

	runHTTPMode(ctx, logger, transport.NewServer(opts), cfg.Server.Host, cfg.Server.Port)
	cancel()
	wg.Wait()
}

// errNoBotToken is returned when the server would start without a token
// outside development mode.
var errNoBotToken = errors.New("bot token is empty; set TIMESHEET_BOT_TOKEN, or TIMESHEET_DEV_MODE=true for a loopback-only development server")

// checkBotToken refuses an empty bot token unless development mode is on.
// Without a token anyone can sign init data, so development mode is
// restricted to the loopback interface. Stdio mode listens on nothing.
func checkBotToken(cfg *config.Config) error {
	if cfg.Bot.Token != "" || cfg.MCP.Mode == "stdio" {
		return nil
	}
	if !cfg.Bot.InsecureDev {
		return errNoBotToken
	}
	cfg.Server.Host = "127.0.0.1"
	return nil
}

func reminderSchedule(cfg config.ReminderConfig) (reminder.Schedule, error) {
	days, err := reminder.ParseDays(cfg.Days)
	if err != nil {
		return reminder.Schedule{}, err
	}
	schedule := reminder.Schedule{
		Hour:     cfg.Hour,
		Minute:   cfg.Minute,
		Days:     days,
		Location: reminder.LoadLocation(cfg.Timezone),
	}
	if err := schedule.Validate(); err != nil {
		return reminder.Schedule{}, err
	}
	return schedule, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-stop:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(stop)
	}()
	return ctx, cancel
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(ctx, logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, server *http.Server) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
