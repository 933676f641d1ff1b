// Package driver runs the tracker on a fixed cadence and serializes every
// call into it.
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/manweek/internal/domain/tracker"
	"github.com/rpggio/manweek/internal/idle"
)

// Driver owns a Tracker. All methods are safe for concurrent use.
type Driver struct {
	mu       sync.Mutex
	tracker  *tracker.Tracker
	source   idle.Source
	interval time.Duration
	logger   *slog.Logger
}

// New creates a driver that polls every interval.
func New(t *tracker.Tracker, source idle.Source, interval time.Duration, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if source == nil {
		source = idle.NoneSource{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{
		tracker:  t,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run ticks until ctx is done, then persists the active session.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("tracker loop started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("tracker loop stopping, flushing active session")
			if err := d.FlushAll(context.WithoutCancel(ctx)); err != nil {
				return fmt.Errorf("flushing on shutdown: %w", err)
			}
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				d.logger.Error("tracker tick failed", "error", err)
			}
		}
	}
}

// Tick reads the OS idle time, polls the tracker and, when the user is
// present, records activity.
func (d *Driver) Tick(ctx context.Context) error {
	idleSecs, ok := d.source.IdleSeconds(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.tracker.Poll(ctx, idleSecs); err != nil {
		return fmt.Errorf("poll: %w", err)
	}
	if ok && idleSecs < d.tracker.Settings().IdleTimeoutSeconds {
		if err := d.tracker.ActivityPing(ctx); err != nil {
			return fmt.Errorf("activity ping: %w", err)
		}
	}
	return nil
}

// Ping records user activity reported by a client.
func (d *Driver) Ping(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.ActivityPing(ctx)
}

// Start opens a new session, closing any active one.
func (d *Driver) Start(ctx context.Context, req tracker.StartRequest) (tracker.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tracker.Start(ctx, req); err != nil {
		return tracker.Snapshot{}, err
	}
	snap, _ := d.tracker.Snapshot()
	return snap, nil
}

// Switch changes the mode or project of the live session.
func (d *Driver) Switch(ctx context.Context, req tracker.StartRequest) (tracker.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.tracker.Switch(ctx, req); err != nil {
		return tracker.Snapshot{}, err
	}
	snap, _ := d.tracker.Snapshot()
	return snap, nil
}

// Stop closes the active session.
func (d *Driver) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Stop(ctx)
}

// StopWithManual closes the active session with an explicit manual credit.
func (d *Driver) StopWithManual(ctx context.Context, manualSeconds int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.StopWithManual(ctx, manualSeconds)
}

// FlushAll persists the active session.
func (d *Driver) FlushAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.FlushAll(ctx)
}

// Status returns the active session, if any.
func (d *Driver) Status() (tracker.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Snapshot()
}

// Settings returns the tracker tuning in effect.
func (d *Driver) Settings() tracker.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Settings()
}

// ApplySettings swaps the tracker tuning without closing the session.
func (d *Driver) ApplySettings(settings tracker.Settings) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.ApplySettings(settings)
}
