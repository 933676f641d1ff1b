// Package idle supplies wall-clock time and OS-level idle readings to the
// tracker driver.
package idle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Source reports how long the user has been idle according to the OS.
// ok is false when no reading is available.
type Source interface {
	IdleSeconds(ctx context.Context) (secs int64, ok bool)
}

// SystemClock reads the host clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// NoneSource never reports idle time; the tracker then relies on pings alone.
type NoneSource struct{}

func (NoneSource) IdleSeconds(context.Context) (int64, bool) {
	return 0, false
}

const commandTimeout = 2 * time.Second

// CommandSource runs an external command, such as xprintidle, that prints the
// idle time in milliseconds. It is used from a single goroutine.
type CommandSource struct {
	name    string
	args    []string
	logger  *slog.Logger
	lastErr string
}

// NewCommandSource splits command on whitespace into a program and arguments.
func NewCommandSource(command string, logger *slog.Logger) (*CommandSource, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("idle command is empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CommandSource{name: fields[0], args: fields[1:], logger: logger}, nil
}

// NewSource returns a CommandSource for command, or NoneSource when command
// is blank.
func NewSource(command string, logger *slog.Logger) (Source, error) {
	if strings.TrimSpace(command) == "" {
		return NoneSource{}, nil
	}
	src, err := NewCommandSource(command, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// IdleSeconds runs the command and converts its output to whole seconds.
// Failures report no reading and are logged once until the error changes.
func (c *CommandSource) IdleSeconds(ctx context.Context) (int64, bool) {
	ms, err := c.read(ctx)
	if err != nil {
		if msg := err.Error(); msg != c.lastErr {
			c.logger.Warn("idle command failed", "command", c.name, "error", err)
			c.lastErr = msg
		}
		return 0, false
	}
	if c.lastErr != "" {
		c.logger.Info("idle command recovered", "command", c.name)
		c.lastErr = ""
	}
	return ms / 1000, true
}

func (c *CommandSource) read(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.name, c.args...).Output()
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", c.name, err)
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle output: %w", err)
	}
	if ms < 0 {
		return 0, nil
	}
	return ms, nil
}
