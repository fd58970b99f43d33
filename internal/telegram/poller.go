package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/user"
)

// OpenAppButton is the label of the keyboard button opening the web app.
const OpenAppButton = "📱 Открыть приложение"

const helpText = "📚 <b>Как пользоваться:</b>\n\n" +
	"1. Нажми кнопку \"" + OpenAppButton + "\"\n" +
	"2. Создавай отчёты и смотри статистику\n" +
	"3. (Админ) Управляй проектами, /export и /notify"

// Poller receives updates by long polling and routes them to a dispatcher.
type Poller struct {
	client     *Client
	dispatcher *bot.Dispatcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewPoller creates a poller.
func NewPoller(client *Client, dispatcher *bot.Dispatcher, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		client:     client,
		dispatcher: dispatcher,
		now:        time.Now,
		logger:     logger,
	}
}

// Run polls until ctx is cancelled. Failed polls are logged and retried.
func (p *Poller) Run(ctx context.Context) error {
	p.client.Start(ctx, p.HandleUpdate)
	return ctx.Err()
}

// HandleUpdate processes a single update.
func (p *Poller) HandleUpdate(ctx context.Context, u *models.Update) {
	if u == nil {
		return
	}
	msg := u.Message
	if msg == nil || msg.From == nil {
		return
	}
	sender := identity(msg.From)
	chatID := msg.Chat.ID

	if msg.WebAppData != nil {
		reply, err := p.dispatcher.Handle(ctx, sender, []byte(msg.WebAppData.Data))
		p.reply(ctx, chatID, reply, err)
		return
	}

	switch command(msg.Text) {
	case "/start":
		reply, err := p.dispatcher.Launch(ctx, sender)
		if err != nil {
			p.reply(ctx, chatID, reply, err)
			return
		}
		p.send(ctx, chatID, reply.Text, WebAppKeyboard(OpenAppButton, reply.URL))
	case "/help":
		p.send(ctx, chatID, helpText, nil)
	case "/notify":
		reply, err := p.dispatcher.NotifyAll(ctx, sender)
		p.reply(ctx, chatID, reply, err)
	case "/export":
		p.export(ctx, chatID, sender)
	}
}

func (p *Poller) export(ctx context.Context, chatID int64, sender user.Identity) {
	var buf bytes.Buffer
	n, err := p.dispatcher.Export(ctx, sender, &buf)
	if err != nil {
		p.reply(ctx, chatID, bot.Reply{}, err)
		return
	}
	if err := p.client.SendDocument(ctx, chatID, bot.ExportFilename(p.now()), buf.Bytes(), bot.ExportCaption(n)); err != nil {
		p.logger.Error("sending export failed", "chat_id", chatID, "error", err)
	}
}

func (p *Poller) reply(ctx context.Context, chatID int64, reply bot.Reply, err error) {
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, bot.ErrAdminOnly) || errors.Is(err, bot.ErrNoData) {
			level = slog.LevelInfo
		}
		p.logger.Log(ctx, level, "request failed", "chat_id", chatID, "error", err)
		p.send(ctx, chatID, bot.ErrorText(err), nil)
		return
	}
	p.send(ctx, chatID, reply.Text, nil)
}

func (p *Poller) send(ctx context.Context, chatID int64, text string, keyboard models.ReplyMarkup) {
	if err := p.client.SendMessage(ctx, chatID, text, keyboard); err != nil {
		p.logger.Error("sendMessage failed", "chat_id", chatID, "error", err)
	}
}

// command extracts "/cmd" from "/cmd@botname args".
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}
