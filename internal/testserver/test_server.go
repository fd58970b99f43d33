// Package testserver runs the whole backend over an in-memory database for
// tests that talk HTTP.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/activity"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/initdata"
	"github.com/rpggio/timesheet/internal/mcp"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/sqlite"
	"github.com/rpggio/timesheet/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// Defaults used by New.
const (
	BotToken = "123456:TEST"
	MCPToken = "mcp-test-token"
	AdminID  = int64(1)
)

// Message is a notification the bot would have sent.
type Message struct {
	ChatID int64
	Text   string
}

// Outbox records notifications instead of delivering them.
type Outbox struct {
	mu       sync.Mutex
	messages []Message
}

func (o *Outbox) Notify(_ context.Context, chatID int64, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, Message{ChatID: chatID, Text: text})
	return nil
}

// To returns the texts sent to chatID.
func (o *Outbox) To(chatID int64) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, m := range o.messages {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Dispatcher *bot.Dispatcher
	Outbox     *Outbox
	Token      string
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	reportSvc := report.NewService(sqlite.NewReportRepository(db), nil, report.WithLocation(time.UTC))
	userSvc := user.NewService(sqlite.NewUserRepository(db), nil)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)

	_, err = projectSvc.EnsureDefaults(context.Background())
	require.NoError(t, err)

	outbox := &Outbox{}
	dispatcher := bot.NewDispatcher(bot.Deps{
		Projects:  projectSvc,
		Reports:   reportSvc,
		Users:     userSvc,
		Activity:  activitySvc,
		Notifier:  outbox,
		Admins:    miniapp.AdminIDs{AdminID},
		WebAppURL: "https://example.org/app/",
	}, nil)

	mcpServer := mcp.NewServer(mcp.Config{Services: mcp.Services{
		Projects: projectSvc,
		Reports:  reportSvc,
		Users:    userSvc,
		Activity: activitySvc,
		Reminder: dispatcher,
		Recorder: activitySvc,
	}})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Dispatcher: dispatcher,
		Resolver:   transport.InitDataResolver{Validator: initdata.NewValidator(BotToken, time.Hour)},
		MCP:        mcpHandler,
		MCPAuth:    transport.BearerMiddleware(MCPToken),
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		Dispatcher: dispatcher,
		Outbox:     outbox,
		Token:      BotToken,
	}
}

// InitData returns signed launch data for identity.
func (ts *TestServer) InitData(t *testing.T, identity user.Identity) string {
	t.Helper()
	raw, err := initdata.Encode(identity, time.Now(), ts.Token)
	require.NoError(t, err)
	return raw
}

// Connect opens an MCP client session against /mcp.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "0.0.0"}, nil)
	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: MCPToken}},
	}
	session, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearer struct {
	token string
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}
