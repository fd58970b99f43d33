package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/launch"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/testserver"
	"github.com/rpggio/timesheet/internal/webappdata"
	"github.com/stretchr/testify/require"
)

func TestHTTPBridgeDeliversReport(t *testing.T) {
	ts := testserver.New(t)
	worker := user.Identity{ID: 42, Username: "anna", FirstName: "Анна"}
	client := NewClient(ts.Server.URL+"/", ts.InitData(t, worker), nil)

	reply, params, err := client.Launch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, reply.URL)
	require.Equal(t, "false", params.Get(launch.ParamAdmin))

	lc := miniapp.ReadLaunchContext(params, worker.ID, miniapp.AdminIDs{testserver.AdminID}, nil)
	require.NotEmpty(t, lc.Catalog)

	var bell bytes.Buffer
	bridge := NewHTTPBridge(client, miniapp.Theme{}, &bell)
	m := NewModel(lc, bridge, miniapp.Options{})
	m = press(m, "enter", "enter", "1")
	m, cmd := pressKey(m, "s")
	requireQuit(t, cmd)
	require.Empty(t, bell.String())

	got, closed := bridge.Reply()
	require.True(t, closed)
	require.Contains(t, got.Text, lc.Catalog[0].Full)
	require.Contains(t, m.View(), lc.Catalog[0].Full)
	require.NotEmpty(t, ts.Outbox.To(testserver.AdminID))
}

func TestHTTPBridgeRejectedPayload(t *testing.T) {
	ts := testserver.New(t)
	worker := user.Identity{ID: 42, Username: "anna"}
	client := NewClient(ts.Server.URL, ts.InitData(t, worker), nil)
	_, _, err := client.Launch(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(webappdata.NewAddProject("ДЗ", "Дизайн"))
	require.NoError(t, err)

	var bell bytes.Buffer
	bridge := NewHTTPBridge(client, miniapp.Theme{}, &bell)
	err = bridge.SendData(data)

	var serr *ServerError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, 403, serr.Status)
	require.NotEmpty(t, serr.Code)

	bridge.Haptic(miniapp.HapticError)
	require.Equal(t, "\a", bell.String())
	_, closed := bridge.Reply()
	require.False(t, closed)
}

func TestClientRejectsUnsignedInitData(t *testing.T) {
	ts := testserver.New(t)
	client := NewClient(ts.Server.URL, "user=%7B%22id%22%3A1%7D&hash=00", nil)

	_, _, err := client.Launch(context.Background())
	var serr *ServerError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, 401, serr.Status)
	require.Contains(t, serr.Error(), "401")
}

func TestPrintBridge(t *testing.T) {
	var out bytes.Buffer
	bridge := NewPrintBridge(&out, miniapp.Theme{BgColor: "#000000"})
	require.Equal(t, "#000000", bridge.Theme().Background())

	require.NoError(t, bridge.SendData([]byte(`{"type":"report"}`)))
	require.NoError(t, bridge.Close())
	require.Equal(t, "{\"type\":\"report\"}\n", out.String())

	reply, closed := bridge.Reply()
	require.True(t, closed)
	require.Equal(t, "payload printed", reply.Text)
}

func TestServerErrorMessage(t *testing.T) {
	require.Equal(t, "server returned 502", (&ServerError{Status: 502}).Error())
	require.Equal(t, "server returned 400: bad", (&ServerError{Status: 400, Message: "bad"}).Error())
}
