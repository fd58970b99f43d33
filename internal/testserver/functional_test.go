package testserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/launch"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/testserver"
	"github.com/rpggio/timesheet/internal/webappdata"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var (
	admin  = user.Identity{ID: testserver.AdminID, Username: "boss"}
	worker = user.Identity{ID: 42, Username: "anna", FirstName: "Анна"}
)

func request(t *testing.T, ts *testserver.TestServer, method, path string, as user.Identity, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.Server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "tma "+ts.InitData(t, as))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestReportRoundTrip(t *testing.T) {
	ts := testserver.New(t)

	status, body := request(t, ts, http.MethodGet, "/webapp/launch", worker, "")
	require.Equal(t, http.StatusOK, status)
	var reply bot.Reply
	require.NoError(t, json.Unmarshal(body, &reply))

	launchURL, err := url.Parse(reply.URL)
	require.NoError(t, err)
	lc := miniapp.ReadLaunchContext(launchURL.Query(), worker.ID, miniapp.AdminIDs{testserver.AdminID}, nil)
	require.False(t, lc.IsAdmin)
	require.False(t, lc.Demo)

	first := lc.Catalog[0]
	payload, err := json.Marshal(webappdata.NewReport(first.Full, first.Abbr, 6.5, "верстка"))
	require.NoError(t, err)

	status, body = request(t, ts, http.MethodPost, "/webapp/data", worker, string(payload))
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &reply))
	require.Contains(t, reply.Text, first.Full)

	require.NotEmpty(t, ts.Outbox.To(testserver.AdminID), "admin is told about the report")

	status, body = request(t, ts, http.MethodGet, "/webapp/stats", worker, "")
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		UserStats struct {
			TotalHours float64 `json:"total_hours"`
		} `json:"user_stats"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	require.InDelta(t, 6.5, stats.UserStats.TotalHours, 0.001)

	session := ts.Connect(t)
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_reports",
		Arguments: map[string]any{"user_id": worker.ID},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.Contains(t, string(data), "верстка")
}

func TestAdminLaunchCarriesStats(t *testing.T) {
	ts := testserver.New(t)

	status, body := request(t, ts, http.MethodGet, "/webapp/launch", admin, "")
	require.Equal(t, http.StatusOK, status)
	var reply bot.Reply
	require.NoError(t, json.Unmarshal(body, &reply))

	launchURL, err := url.Parse(reply.URL)
	require.NoError(t, err)
	q := launchURL.Query()
	require.Equal(t, "true", q.Get(launch.ParamAdmin))

	p, err := launch.ParseData(q.Get(launch.ParamData))
	require.NoError(t, err)
	require.True(t, p.Admin)
	require.NotNil(t, p.AdminStats)
	require.Len(t, p.AllProjects, 3)
}

func TestProjectAddedByAdminReachesWorkers(t *testing.T) {
	ts := testserver.New(t)

	payload, err := json.Marshal(webappdata.NewAddProject("дз", "Дизайн"))
	require.NoError(t, err)

	status, _ := request(t, ts, http.MethodPost, "/webapp/data", worker, string(payload))
	require.Equal(t, http.StatusForbidden, status)

	status, body := request(t, ts, http.MethodPost, "/webapp/data", admin, string(payload))
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = request(t, ts, http.MethodGet, "/webapp/launch", worker, "")
	require.Equal(t, http.StatusOK, status)
	var reply bot.Reply
	require.NoError(t, json.Unmarshal(body, &reply))
	launchURL, err := url.Parse(reply.URL)
	require.NoError(t, err)
	lc := miniapp.ReadLaunchContext(launchURL.Query(), worker.ID, nil, nil)
	_, ok := lc.Catalog.Find("ДЗ")
	require.True(t, ok)
}

func TestMCPRequiresBearer(t *testing.T) {
	ts := testserver.New(t)

	resp, err := http.Post(ts.Server.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRemindersOverMCP(t *testing.T) {
	ts := testserver.New(t)

	status, _ := request(t, ts, http.MethodGet, "/webapp/launch", worker, "")
	require.Equal(t, http.StatusOK, status)

	session := ts.Connect(t)
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "send_reminders",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, ts.Outbox.To(worker.ID), 1)
}
