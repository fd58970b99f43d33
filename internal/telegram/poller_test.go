package telegram

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin  int64 = 10
	testWorker int64 = 20
)

func newTestPoller(t *testing.T) (*Poller, *fakeAPI) {
	t.Helper()
	client, api := newTestClient(t)

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	d := bot.NewDispatcher(bot.Deps{
		Projects:  project.NewService(sqlite.NewProjectRepository(db), nil),
		Reports:   report.NewService(sqlite.NewReportRepository(db), nil),
		Users:     user.NewService(sqlite.NewUserRepository(db), nil),
		Notifier:  client,
		Admins:    miniapp.AdminIDs{testAdmin},
		WebAppURL: "https://example.org/app/",
	}, nil)

	p := NewPoller(client, d, nil)
	p.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return p, api
}

func message(from int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		From: &models.User{ID: from, FirstName: "Анна", Username: "anna"},
		Chat: models.Chat{ID: from},
		Text: text,
	}}
}

func TestPollerStart(t *testing.T) {
	p, api := newTestPoller(t)

	p.HandleUpdate(context.Background(), message(testWorker, "/start"))

	calls := api.callsTo("sendMessage")
	require.Len(t, calls, 1)
	require.Contains(t, calls[0].form["text"], "Привет, Анна")
	var markup map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].form["reply_markup"]), &markup))
	button := markup["keyboard"].([]any)[0].([]any)[0].(map[string]any)
	require.Equal(t, OpenAppButton, button["text"])
	webApp := button["web_app"].(map[string]any)
	require.True(t, strings.HasPrefix(webApp["url"].(string), "https://example.org/app/?"))
}

func TestPollerWebAppData(t *testing.T) {
	p, api := newTestPoller(t)

	u := message(testWorker, "")
	u.Message.WebAppData = &models.WebAppData{Data: `{"type":"report","project":"Маркетинг","hours":4,"comments":"-"}`}
	p.HandleUpdate(context.Background(), u)

	calls := api.callsTo("sendMessage")
	require.Len(t, calls, 2)
	var toWorker, toAdmin int
	for _, c := range calls {
		switch c.form["chat_id"] {
		case strconv.FormatInt(testWorker, 10):
			toWorker++
			require.Contains(t, c.form["text"], "Отчёт сохранён")
		case strconv.FormatInt(testAdmin, 10):
			toAdmin++
		}
	}
	require.Equal(t, 1, toWorker)
	require.Equal(t, 1, toAdmin)
}

func TestPollerRejectsAdminAction(t *testing.T) {
	p, api := newTestPoller(t)

	u := message(testWorker, "")
	u.Message.WebAppData = &models.WebAppData{Data: `{"type":"add_project","abbr":"НП","full":"Новый проект"}`}
	p.HandleUpdate(context.Background(), u)

	calls := api.callsTo("sendMessage")
	require.Len(t, calls, 1)
	require.Equal(t, "⚠️ Только для администратора.", calls[0].form["text"])
}

func TestPollerExport(t *testing.T) {
	p, api := newTestPoller(t)
	ctx := context.Background()

	p.HandleUpdate(ctx, message(testAdmin, "/export"))
	require.Equal(t, "📭 Нет данных.", api.callsTo("sendMessage")[0].form["text"])

	u := message(testAdmin, "")
	u.Message.WebAppData = &models.WebAppData{Data: `{"type":"report","project":"Дизайн","hours":2,"comments":"-"}`}
	p.HandleUpdate(ctx, u)

	p.HandleUpdate(ctx, message(testAdmin, "/export@timesheet_bot"))
	docs := api.callsTo("sendDocument")
	require.Len(t, docs, 1)
	require.True(t, strings.HasPrefix(docs[0].file, "reports_20250314.csv:"))
	require.Equal(t, "📊 Экспорт | 1 отчётов", docs[0].form["caption"])
}

func TestPollerIgnoresOtherMessages(t *testing.T) {
	p, api := newTestPoller(t)

	p.HandleUpdate(context.Background(), &models.Update{ID: 1})
	p.HandleUpdate(context.Background(), nil)
	p.HandleUpdate(context.Background(), message(testWorker, "hello"))
	require.Empty(t, api.callsTo("sendMessage"))
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	p, api := newTestPoller(t)
	u := message(testWorker, "/help")
	u.ID = 7
	api.updates = []*models.Update{u}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(api.callsTo("sendMessage")) == 1 && len(api.callsTo("getUpdates")) >= 2
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}

	second := api.callsTo("getUpdates")[1]
	require.Equal(t, "8", second.form["offset"])
}

func TestCommand(t *testing.T) {
	require.Equal(t, "/start", command("/start"))
	require.Equal(t, "/export", command("/export@bot extra"))
	require.Equal(t, "", command("start"))
}
