// Package telegram connects the dispatcher to the Bot API: sending messages
// and documents, and long polling for updates.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

const redacted = "<token>"

// pollTimeout bounds one getUpdates long poll.
const pollTimeout = 30 * time.Second

// UpdateHandler processes one incoming update.
type UpdateHandler func(ctx context.Context, u *models.Update)

// Client calls Bot API methods for one bot.
type Client struct {
	api    *tgbot.Bot
	token  string
	logger *slog.Logger
	handle UpdateHandler
}

// NewClient creates a client. An empty apiURL means DefaultAPIURL.
func NewClient(apiURL, token string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: pollTimeout + 10*time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{token: token, logger: logger}
	api, err := tgbot.New(token,
		tgbot.WithServerURL(strings.TrimRight(apiURL, "/")),
		tgbot.WithHTTPClient(pollTimeout, httpClient),
		tgbot.WithSkipGetMe(),
		tgbot.WithDefaultHandler(c.dispatch),
		tgbot.WithErrorsHandler(func(err error) {
			logger.Warn("telegram polling failed", "error", c.scrub(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bot client: %w", c.scrub(err))
	}
	c.api = api
	return c, nil
}

// SendMessage sends an HTML-formatted message, optionally with a keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard models.ReplyMarkup) error {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := c.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", c.scrub(err))
	}
	c.logger.Debug("telegram call", "method", "sendMessage", "chat_id", chatID)
	return nil
}

// Notify implements bot.Notifier.
func (c *Client) Notify(ctx context.Context, chatID int64, text string) error {
	return c.SendMessage(ctx, chatID, text, nil)
}

// SendDocument uploads a file to a chat.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	_, err := c.api.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("telegram sendDocument: %w", c.scrub(err))
	}
	c.logger.Debug("telegram call", "method", "sendDocument", "chat_id", chatID)
	return nil
}

// Start long-polls for updates and passes each to handle until ctx is done.
func (c *Client) Start(ctx context.Context, handle UpdateHandler) {
	c.handle = handle
	c.api.Start(ctx)
}

func (c *Client) dispatch(ctx context.Context, _ *tgbot.Bot, u *models.Update) {
	if c.handle != nil {
		c.handle(ctx, u)
	}
}

// scrub removes the bot token from err. Request URLs carry the token in
// their path, and transport errors quote the URL.
func (c *Client) scrub(err error) error {
	if err == nil {
		return nil
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, c.token, redacted)
	}
	if msg := err.Error(); strings.Contains(msg, c.token) {
		return &scrubbedError{msg: strings.ReplaceAll(msg, c.token, redacted), err: err}
	}
	return err
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }

func (e *scrubbedError) Unwrap() error { return e.err }
