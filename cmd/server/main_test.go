package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/timesheet/internal/config"
	"github.com/rpggio/timesheet/internal/reminder"
	"github.com/stretchr/testify/require"
)

func TestReminderSchedule(t *testing.T) {
	schedule, err := reminderSchedule(config.Default().Reminder)
	require.NoError(t, err)
	require.Equal(t, 16, schedule.Hour)
	require.Equal(t, 50, schedule.Minute)
	require.Equal(t, reminder.Weekdays, schedule.Days)
	require.NotNil(t, schedule.Location)

	_, err = reminderSchedule(config.ReminderConfig{Hour: 9, Days: []string{"someday"}})
	require.ErrorIs(t, err, reminder.ErrInvalidSchedule)

	_, err = reminderSchedule(config.ReminderConfig{Hour: 25, Days: []string{"mon"}})
	require.ErrorIs(t, err, reminder.ErrInvalidSchedule)
}

func TestCheckBotToken(t *testing.T) {
	cfg := config.Default()
	require.ErrorIs(t, checkBotToken(&cfg), errNoBotToken)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)

	cfg.Bot.InsecureDev = true
	require.NoError(t, checkBotToken(&cfg))
	require.Equal(t, "127.0.0.1", cfg.Server.Host)

	cfg = config.Default()
	cfg.MCP.Mode = "stdio"
	require.NoError(t, checkBotToken(&cfg))

	cfg = config.Default()
	cfg.Bot.Token = "123456:ABC"
	require.NoError(t, checkBotToken(&cfg))
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))

	path := filepath.Join(t.TempDir(), "nested", "timesheet.db")
	require.NoError(t, ensureDBDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLogFileWriterKeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	writer, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	line := strings.Repeat("x", 1023) + "\n"
	for written := 0; written <= maxLogSizeBytes; written += len(line) {
		_, err := writer.Write([]byte(line))
		require.NoError(t, err)
	}
	_, err = writer.Write([]byte("last\n"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "last\n"))
}
