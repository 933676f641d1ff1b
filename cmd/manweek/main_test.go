package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/manweek/internal/config"
	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "data", "manweek.db")
	for _, key := range []string{
		"MANWEEK_CONFIG_PATH",
		"MANWEEK_LOG_PATH",
		"MANWEEK_IDLE_TIMEOUT_SECONDS",
		"MANWEEK_DISCARD_SHORT_ENTRIES",
		"MANWEEK_IDLE_COMMAND",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("MANWEEK_DB_PATH", dbPath)
	t.Setenv("MANWEEK_LOG_LEVEL", "error")
	return dbPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProjectsCommands(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "projects")
	require.NoError(t, err)
	require.Contains(t, out, "No projects")

	out, err = execute(t, "projects", "add", "ACME", "Acme", "Corp")
	require.NoError(t, err)
	require.Contains(t, out, "Saved project 1: ACME - Acme Corp")

	out, err = execute(t, "projects")
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")

	_, err = execute(t, "projects", "archive", "1")
	require.NoError(t, err)
	out, err = execute(t, "projects")
	require.NoError(t, err)
	require.Contains(t, out, "No projects")

	_, err = execute(t, "projects", "archive", "x")
	require.Error(t, err)
}

func TestTodayAndModesCommands(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "today", "--date", "2024-01-01")
	require.NoError(t, err)
	require.Contains(t, out, "No time recorded on 2024-01-01.")

	cfg, err := config.Load()
	require.NoError(t, err)
	a, err := openApp(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	_, err = a.entries.AddManual(context.Background(), entry.ManualRequest{
		Day:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		ManualSeconds: 1800,
		ModeLabel:     "Meeting",
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	out, err = execute(t, "today", "--date", "2024-01-01")
	require.NoError(t, err)
	require.Contains(t, out, "Meeting")
	require.Contains(t, out, "manual")
	require.Contains(t, out, "Work: 30m")

	out, err = execute(t, "modes")
	require.NoError(t, err)
	require.Contains(t, out, "Meeting")

	out, err = execute(t, "modes", "--cloud", "1")
	require.NoError(t, err)
	require.Equal(t, "Meeting\n", out)

	_, err = execute(t, "today", "--date", "yesterday")
	require.Error(t, err)
}

func TestClearRequiresConfirmation(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "clear")
	require.ErrorContains(t, err, "--yes")

	out, err := execute(t, "clear", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "Removed 0 time entries")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestFormatSeconds(t *testing.T) {
	require.Equal(t, "0s", formatSeconds(-5))
	require.Equal(t, "45s", formatSeconds(45))
	require.Equal(t, "12m", formatSeconds(12*60+30))
	require.Equal(t, "1h05m", formatSeconds(3900))
}

func TestLogFileWriterKeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manweek.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	require.NoError(t, err)
	defer file.Close()

	w := &logFileWriter{file: file, maxSize: 100, keep: 40}
	_, err = w.Write([]byte(strings.Repeat("a", 60)))
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("b", 60)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("b", 40), string(data))

	_, err = w.Write([]byte("c"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("b", 40)+"c", string(data))
}

func TestNewLogFileWriterCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "manweek.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.FileExists(t, path)
}
