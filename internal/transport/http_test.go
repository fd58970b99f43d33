package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/initdata"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const botToken = "123:ABC"

var (
	adminUser  = user.Identity{ID: 1, Username: "boss", FirstName: "Олег"}
	workerUser = user.Identity{ID: 2, Username: "anna", FirstName: "Анна"}
)

func newTestServer(t *testing.T, mcp http.Handler) *httptest.Server {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	d := bot.NewDispatcher(bot.Deps{
		Projects:  project.NewService(sqlite.NewProjectRepository(db), nil),
		Reports:   report.NewService(sqlite.NewReportRepository(db), nil),
		Users:     user.NewService(sqlite.NewUserRepository(db), nil),
		Admins:    miniapp.AdminIDs{adminUser.ID},
		WebAppURL: "https://example.org/app/",
	}, nil)

	server := httptest.NewServer(NewServer(Options{
		Dispatcher: d,
		Resolver:   InitDataResolver{Validator: initdata.NewValidator(botToken, time.Hour)},
		MCP:        mcp,
		MCPAuth:    BearerMiddleware("mcp-secret"),
		Now:        func() time.Time { return time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC) },
	}))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path string, as *user.Identity, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if as != nil {
		raw, err := initdata.Encode(*as, time.Now(), botToken)
		require.NoError(t, err)
		req.Header.Set("Authorization", "tma "+raw)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_RequiresInitData(t *testing.T) {
	server := newTestServer(t, nil)

	resp := do(t, server, http.MethodGet, "/webapp/launch", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[ErrorBody](t, resp)
	require.Equal(t, "unauthorized", body.Error)
}

func TestHTTPServer_LaunchAndReport(t *testing.T) {
	server := newTestServer(t, nil)

	resp := do(t, server, http.MethodGet, "/webapp/launch", &workerUser, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reply := decode[bot.Reply](t, resp)

	u, err := url.Parse(reply.URL)
	require.NoError(t, err)
	lc := miniapp.ReadLaunchContext(u.Query(), workerUser.ID, miniapp.AdminIDs{adminUser.ID}, nil)
	require.False(t, lc.IsAdmin)
	require.Len(t, lc.Catalog, 3)

	resp = do(t, server, http.MethodPost, "/webapp/data", &workerUser,
		`{"type":"report","project":"Маркетинг","project_abbr":"МРК","hours":4,"comments":"-"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, decode[bot.Reply](t, resp).Text, "Отчёт сохранён")

	resp = do(t, server, http.MethodGet, "/webapp/stats", &workerUser, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[StatsResponse](t, resp)
	require.Equal(t, 4.0, stats.UserStats.TotalHours)
	require.Nil(t, stats.AdminStats)

	resp = do(t, server, http.MethodGet, "/webapp/stats", &adminUser, "")
	stats = decode[StatsResponse](t, resp)
	require.NotNil(t, stats.AdminStats)
	require.Equal(t, 1, stats.AdminStats.TotalReports)
}

func TestHTTPServer_DataErrors(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name   string
		as     user.Identity
		body   string
		status int
	}{
		{name: "malformed", as: workerUser, body: `{nope`, status: http.StatusBadRequest},
		{name: "unknown type", as: workerUser, body: `{"type":"dance"}`, status: http.StatusBadRequest},
		{name: "admin only", as: workerUser, body: `{"type":"add_project","abbr":"НП","full":"Новый"}`, status: http.StatusForbidden},
		{name: "too short", as: adminUser, body: `{"type":"add_project","abbr":"Н","full":"Новый"}`, status: http.StatusBadRequest},
		{name: "duplicate", as: adminUser, body: `{"type":"add_project","abbr":"РС","full":"Новый"}`, status: http.StatusConflict},
		{name: "remove missing", as: adminUser, body: `{"type":"remove_project","abbr":"ZZ"}`, status: http.StatusNotFound},
		{name: "bad hours", as: workerUser, body: `{"type":"report","project":"Дизайн","hours":99,"comments":"-"}`, status: http.StatusBadRequest},
		{name: "too large", as: workerUser, body: `{"type":"report","comments":"` + strings.Repeat("x", 5000) + `"}`, status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := tt.as
			resp := do(t, server, http.MethodPost, "/webapp/data", &as, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			body := decode[ErrorBody](t, resp)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestHTTPServer_ExportAndNotify(t *testing.T) {
	server := newTestServer(t, nil)

	resp := do(t, server, http.MethodGet, "/webapp/export.csv", &adminUser, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	do(t, server, http.MethodPost, "/webapp/data", &workerUser,
		`{"type":"report","project":"Дизайн","hours":2,"comments":"макет"}`)

	resp = do(t, server, http.MethodGet, "/webapp/export.csv", &workerUser, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, server, http.MethodGet, "/webapp/export.csv", &adminUser, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `attachment; filename="reports_20250314.csv"`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\ufeff")))
	require.Contains(t, string(data), "anna,Дизайн,2,макет")

	resp = do(t, server, http.MethodPost, "/webapp/notify", &adminUser, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, decode[bot.Reply](t, resp).Text, "Отправлено")
}

func TestHTTPServer_MCPMount(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	server := newTestServer(t, mcp)

	resp := do(t, server, http.MethodPost, "/mcp", nil, "{}")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer mcp-secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: bot.ErrAdminOnly, want: http.StatusForbidden},
		{err: project.ValidationErrors{{Field: project.FieldFull, Err: project.ErrDuplicateName}}, want: http.StatusConflict},
		{err: project.ValidationErrors{{Field: project.FieldAbbr, Err: project.ErrAbbrTooShort}}, want: http.StatusBadRequest},
		{err: bot.ErrNoData, want: http.StatusNotFound},
		{err: report.ErrNoItems, want: http.StatusBadRequest},
		{err: io.ErrUnexpectedEOF, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := statusFor(tt.err)
		require.Equal(t, tt.want, status, "error %v", tt.err)
	}
}
