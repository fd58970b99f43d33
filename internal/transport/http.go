package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/launch"
)

// maxPayloadBytes bounds web app data, matching the host's 4096 byte limit.
const maxPayloadBytes = 4096

// Dispatcher is the bot logic the HTTP surface exposes.
type Dispatcher interface {
	Launch(ctx context.Context, sender user.Identity) (bot.Reply, error)
	Payload(ctx context.Context, userID int64) (launch.Payload, error)
	Handle(ctx context.Context, sender user.Identity, data []byte) (bot.Reply, error)
	NotifyAll(ctx context.Context, sender user.Identity) (bot.Reply, error)
	Export(ctx context.Context, sender user.Identity, w io.Writer) (int, error)
}

// Options configures the router.
type Options struct {
	Dispatcher Dispatcher
	Resolver   IdentityResolver
	// MCP is mounted at /mcp behind MCPAuth when set.
	MCP     http.Handler
	MCPAuth func(http.Handler) http.Handler
	Logger  *slog.Logger
	Now     func() time.Time
}

// Server wires HTTP handlers.
type Server struct {
	dispatcher Dispatcher
	now        func() time.Time
}

// StatsResponse is the body of GET /webapp/stats.
type StatsResponse struct {
	UserStats  report.UserStats   `json:"user_stats"`
	AdminStats *report.AdminStats `json:"admin_stats,omitempty"`
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(opts.Logger))

	srv := &Server{dispatcher: opts.Dispatcher, now: opts.Now}

	r.Get("/health", srv.handleHealth)

	r.Route("/webapp", func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Resolver))
		r.Get("/launch", srv.handleLaunch)
		r.Post("/data", srv.handleData)
		r.Get("/stats", srv.handleStats)
		r.Get("/export.csv", srv.handleExport)
		r.Post("/notify", srv.handleNotify)
	})

	if opts.MCP != nil {
		mcp := opts.MCP
		if opts.MCPAuth != nil {
			mcp = opts.MCPAuth(mcp)
		}
		r.Handle("/mcp", mcp)
		r.Handle("/mcp/*", mcp)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	sender, _ := IdentityFromContext(r.Context())
	reply, err := s.dispatcher.Launch(r.Context(), sender)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	sender, _ := IdentityFromContext(r.Context())
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unreadable body")
		return
	}
	if len(body) > maxPayloadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "payload exceeds 4096 bytes")
		return
	}

	reply, err := s.dispatcher.Handle(r.Context(), sender, body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sender, _ := IdentityFromContext(r.Context())
	payload, err := s.dispatcher.Payload(r.Context(), sender.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{UserStats: payload.UserStats, AdminStats: payload.AdminStats})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sender, _ := IdentityFromContext(r.Context())
	var buf bytes.Buffer
	if _, err := s.dispatcher.Export(r.Context(), sender, &buf); err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, bot.ExportFilename(s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	sender, _ := IdentityFromContext(r.Context())
	reply, err := s.dispatcher.NotifyAll(r.Context(), sender)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
