// miniapp runs the time-report mini-app in a terminal.
//
// By default it signs launch data for the given user with the bot token,
// asks the server for the launch link and sends the finished payload back,
// exactly as the chat client would. With --print the payload is written to
// stdout instead, and --launch-url or --projects replace the server round
// trip entirely.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/timesheet/internal/config"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/initdata"
	"github.com/rpggio/timesheet/internal/launch"
	"github.com/rpggio/timesheet/internal/miniapp"
	"github.com/rpggio/timesheet/internal/tui"
	"github.com/spf13/pflag"
)

type options struct {
	server    string
	token     string
	identity  user.Identity
	admins    []int64
	admin     bool
	projects  string
	launchURL string
	print     bool
	bgColor   string
	logOutput string
	report    string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if opts.logOutput != "" {
		file, err := os.OpenFile(opts.logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log output: %w", err)
		}
		defer file.Close()
		logger = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	initData, err := initdata.Encode(opts.identity, time.Now(), opts.token)
	if err != nil {
		return err
	}
	client := tui.NewClient(opts.server, initData, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	params, err := launchParams(ctx, opts, client)
	cancel()
	if err != nil {
		return err
	}

	lc := miniapp.ReadLaunchContext(params, opts.identity.ID, miniapp.AdminIDs(opts.admins), logger)
	if lc.Demo {
		logger.Warn("no projects supplied, showing demo catalog")
	}

	theme := miniapp.Theme{BgColor: opts.bgColor}
	var printed bytes.Buffer
	var host tui.Host
	if opts.print {
		host = tui.NewPrintBridge(&printed, theme)
	} else {
		host = tui.NewHTTPBridge(client, theme, os.Stderr)
	}

	model := tui.NewModel(lc, host, miniapp.Options{
		AdminReportLocation: opts.report,
		Logger:              logger,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running mini-app: %w", err)
	}

	if _, err := io.Copy(stdout, &printed); err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Done() && !opts.print {
		fmt.Fprint(stdout, m.View())
	}
	return nil
}

func parseFlags(args []string, cfg config.Config) (options, error) {
	var opts options
	defaultServer := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	fs := pflag.NewFlagSet("miniapp", pflag.ContinueOnError)
	fs.StringVar(&opts.server, "server", defaultServer, "bot server base URL")
	fs.StringVar(&opts.token, "token", cfg.Bot.Token, "bot token used to sign init data")
	fs.Int64Var(&opts.identity.ID, "user-id", 0, "chat user id to act as")
	fs.StringVar(&opts.identity.Username, "username", "", "chat username")
	fs.StringVar(&opts.identity.FirstName, "first-name", "", "chat first name")
	fs.Int64SliceVar(&opts.admins, "admin-ids", cfg.Bot.AdminIDs, "administrator user ids")
	fs.BoolVar(&opts.admin, "admin", false, "open with the admin flag set (offline modes only)")
	fs.StringVar(&opts.projects, "projects", "", `project catalog as JSON, e.g. [{"abbr":"РС","full":"Разработка сайта"}]`)
	fs.StringVar(&opts.launchURL, "launch-url", "", "launch link to read parameters from instead of asking the server")
	fs.BoolVar(&opts.print, "print", false, "print the payload instead of sending it")
	fs.StringVar(&opts.bgColor, "bg-color", "", "host background colour")
	fs.StringVar(&opts.logOutput, "log-output", "", "append debug logs to this file")
	fs.StringVar(&opts.report, "admin-report", cfg.WebApp.AdminReportLocation, "admin statistics resource")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.identity.ID == 0 {
		if v := os.Getenv("TIMESHEET_USER_ID"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return options{}, fmt.Errorf("invalid TIMESHEET_USER_ID: %w", err)
			}
			opts.identity.ID = id
		}
	}
	if opts.identity.ID == 0 && !opts.offline() {
		return options{}, errors.New("--user-id is required to talk to the server")
	}
	return opts, nil
}

// offline reports whether the launch parameters come from flags.
func (o options) offline() bool {
	return o.launchURL != "" || o.projects != "" || o.print
}

// launchParams resolves the launch parameters from --launch-url, from
// --projects, or by asking the server.
func launchParams(ctx context.Context, opts options, client *tui.Client) (url.Values, error) {
	switch {
	case opts.launchURL != "":
		u, err := url.Parse(opts.launchURL)
		if err != nil {
			return nil, fmt.Errorf("parsing launch url: %w", err)
		}
		return u.Query(), nil
	case opts.projects != "":
		var catalog project.Catalog
		if err := json.Unmarshal([]byte(opts.projects), &catalog); err != nil {
			return nil, fmt.Errorf("parsing --projects: %w", err)
		}
		data, err := json.Marshal(catalog)
		if err != nil {
			return nil, err
		}
		params := url.Values{}
		params.Set(launch.ParamProjects, url.PathEscape(string(data)))
		params.Set(launch.ParamAdmin, strconv.FormatBool(opts.admin))
		return params, nil
	case opts.print && opts.identity.ID == 0:
		return url.Values{launch.ParamAdmin: {strconv.FormatBool(opts.admin)}}, nil
	}

	_, params, err := client.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching launch link: %w", err)
	}
	return params, nil
}
