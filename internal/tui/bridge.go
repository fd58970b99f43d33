package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/miniapp"
)

// ServerError is a non-2xx answer of the backend.
type ServerError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to the backend on behalf of one signed-in user.
type Client struct {
	base     string
	initData string
	http     *http.Client
}

// NewClient creates a client. initData is sent as "Authorization: tma ...".
func NewClient(server, initData string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(server, "/"), initData: initData, http: httpClient}
}

// Launch asks the backend for the launch link and returns the bot reply
// with the parameters of the link.
func (c *Client) Launch(ctx context.Context) (bot.Reply, url.Values, error) {
	var reply bot.Reply
	if err := c.do(ctx, http.MethodGet, "/webapp/launch", nil, &reply); err != nil {
		return bot.Reply{}, nil, err
	}
	u, err := url.Parse(reply.URL)
	if err != nil {
		return bot.Reply{}, nil, fmt.Errorf("parsing launch url: %w", err)
	}
	return reply, u.Query(), nil
}

// SendData posts a web app payload.
func (c *Client) SendData(ctx context.Context, data []byte) (bot.Reply, error) {
	var reply bot.Reply
	if err := c.do(ctx, http.MethodPost, "/webapp/data", data, &reply); err != nil {
		return bot.Reply{}, err
	}
	return reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "tma "+c.initData)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServerError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, serr)
		return serr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// HTTPBridge delivers payloads to the backend. The terminal bell stands in
// for error haptics.
type HTTPBridge struct {
	client *Client
	theme  miniapp.Theme
	bell   io.Writer

	reply   bot.Reply
	closed  bool
	haptics []miniapp.Haptic
}

// NewHTTPBridge creates a bridge. bell may be nil.
func NewHTTPBridge(client *Client, theme miniapp.Theme, bell io.Writer) *HTTPBridge {
	return &HTTPBridge{client: client, theme: theme, bell: bell}
}

func (b *HTTPBridge) SendData(data []byte) error {
	reply, err := b.client.SendData(context.Background(), data)
	if err != nil {
		return err
	}
	b.reply = reply
	return nil
}

func (b *HTTPBridge) Close() error {
	b.closed = true
	return nil
}

func (b *HTTPBridge) Haptic(h miniapp.Haptic) {
	b.haptics = append(b.haptics, h)
	if h == miniapp.HapticError && b.bell != nil {
		_, _ = io.WriteString(b.bell, "\a")
	}
}

func (b *HTTPBridge) Theme() miniapp.Theme { return b.theme }

// Reply is the backend's answer to the sent payload.
func (b *HTTPBridge) Reply() (bot.Reply, bool) { return b.reply, b.closed }

// PrintBridge writes payloads as JSON lines instead of sending them.
type PrintBridge struct {
	w      io.Writer
	theme  miniapp.Theme
	closed bool
}

// NewPrintBridge creates a bridge that prints to w.
func NewPrintBridge(w io.Writer, theme miniapp.Theme) *PrintBridge {
	return &PrintBridge{w: w, theme: theme}
}

func (b *PrintBridge) SendData(data []byte) error {
	_, err := fmt.Fprintf(b.w, "%s\n", data)
	return err
}

func (b *PrintBridge) Close() error {
	b.closed = true
	return nil
}

func (b *PrintBridge) Haptic(miniapp.Haptic) {}

func (b *PrintBridge) Theme() miniapp.Theme { return b.theme }

// Reply reports the printed payload as the answer.
func (b *PrintBridge) Reply() (bot.Reply, bool) {
	return bot.Reply{Text: "payload printed"}, b.closed
}

var (
	_ miniapp.Bridge = (*HTTPBridge)(nil)
	_ miniapp.Bridge = (*PrintBridge)(nil)
)
