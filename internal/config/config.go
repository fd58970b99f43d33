package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Bot      BotConfig      `yaml:"bot"`
	Reminder ReminderConfig `yaml:"reminder"`
	MCP      MCPConfig      `yaml:"mcp"`
	WebApp   WebAppConfig   `yaml:"webapp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// BotConfig configures the chat bot and init data validation.
type BotConfig struct {
	Token     string  `yaml:"token"`
	APIURL    string  `yaml:"api_url"`
	WebAppURL string  `yaml:"webapp_url"`
	AdminIDs  []int64 `yaml:"admin_ids"`
	// InitDataMaxAge is a Go duration string; "0" disables the age check.
	InitDataMaxAge string `yaml:"init_data_max_age"`
	// Polling enables the long-poll update loop.
	Polling bool `yaml:"polling"`
	// InsecureDev allows running without a token, loopback only.
	InsecureDev bool `yaml:"insecure_dev"`

	MaxAge time.Duration `yaml:"-"`
}

// ReminderConfig schedules the daily reminder.
type ReminderConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Hour     int      `yaml:"hour"`
	Minute   int      `yaml:"minute"`
	Days     []string `yaml:"days"`
	Timezone string   `yaml:"timezone"`
}

// MCPConfig configures the operator tool surface.
type MCPConfig struct {
	// Mode is "http", "stdio" or "off".
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// WebAppConfig configures what the mini-app is told at launch.
type WebAppConfig struct {
	AdminReportLocation string `yaml:"admin_report_location"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "timesheet.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Bot: BotConfig{
			AdminIDs:       []int64{699229724},
			InitDataMaxAge: "24h",
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Hour:     16,
			Minute:   50,
			Days:     []string{"mon", "tue", "wed", "thu", "fri"},
			Timezone: "Europe/Moscow",
		},
		MCP: MCPConfig{
			Mode: "http",
		},
		WebApp: WebAppConfig{
			AdminReportLocation: "admin_stats.html",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TIMESHEET_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TIMESHEET_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMESHEET_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESHEET_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TIMESHEET_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMESHEET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TIMESHEET_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if token := os.Getenv("TIMESHEET_BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if apiURL := os.Getenv("TIMESHEET_BOT_API_URL"); apiURL != "" {
		cfg.Bot.APIURL = apiURL
	}
	if webAppURL := os.Getenv("TIMESHEET_WEBAPP_URL"); webAppURL != "" {
		cfg.Bot.WebAppURL = webAppURL
	}
	if ids := os.Getenv("TIMESHEET_ADMIN_IDS"); ids != "" {
		parsed, err := parseIDs(ids)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESHEET_ADMIN_IDS: %w", err)
		}
		cfg.Bot.AdminIDs = parsed
	}
	if maxAge := os.Getenv("TIMESHEET_INIT_DATA_MAX_AGE"); maxAge != "" {
		cfg.Bot.InitDataMaxAge = maxAge
	}
	if polling := os.Getenv("TIMESHEET_BOT_POLLING"); polling != "" {
		enabled, err := strconv.ParseBool(polling)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESHEET_BOT_POLLING: %w", err)
		}
		cfg.Bot.Polling = enabled
	}
	if dev := os.Getenv("TIMESHEET_DEV_MODE"); dev != "" {
		enabled, err := strconv.ParseBool(dev)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESHEET_DEV_MODE: %w", err)
		}
		cfg.Bot.InsecureDev = enabled
	}
	if enabled := os.Getenv("TIMESHEET_REMINDER_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESHEET_REMINDER_ENABLED: %w", err)
		}
		cfg.Reminder.Enabled = v
	}
	if tz := os.Getenv("TIMESHEET_REMINDER_TIMEZONE"); tz != "" {
		cfg.Reminder.Timezone = tz
	}
	if mode := os.Getenv("TIMESHEET_MCP_MODE"); mode != "" {
		cfg.MCP.Mode = mode
	}
	if token := os.Getenv("TIMESHEET_MCP_TOKEN"); token != "" {
		cfg.MCP.Token = token
	}
	if location := os.Getenv("TIMESHEET_ADMIN_REPORT_LOCATION"); location != "" {
		cfg.WebApp.AdminReportLocation = location
	}

	maxAge, err := time.ParseDuration(cfg.Bot.InitDataMaxAge)
	if err != nil {
		return Config{}, fmt.Errorf("invalid init_data_max_age: %w", err)
	}
	cfg.Bot.MaxAge = maxAge

	switch cfg.MCP.Mode {
	case "http", "stdio", "off":
	default:
		return Config{}, fmt.Errorf("invalid mcp mode %q", cfg.MCP.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
