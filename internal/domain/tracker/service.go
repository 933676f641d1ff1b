package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
)

// Tracker partitions wall-clock time into time entries from a stream of
// activity pings and periodic polls. It owns at most one live session.
//
// Tracker has no goroutines of its own and is not safe for concurrent use;
// callers serialize access.
type Tracker struct {
	settings Settings
	store    EntryStore
	clock    Clock
	logger   *slog.Logger

	active *session

	resumeMode      string
	resumeProjectID *int64
	resumeActive    mark
	activeRecovery  mark
}

// New creates a tracker with no active session.
func New(settings Settings, store EntryStore, clock Clock, logger *slog.Logger) (*Tracker, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		settings: settings,
		store:    store,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Settings returns the tuning in effect.
func (t *Tracker) Settings() Settings {
	return t.settings
}

// ApplySettings replaces the tuning. The active session is kept.
func (t *Tracker) ApplySettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	t.settings = settings
	t.logger.Info("tracker settings applied",
		"idle_timeout_seconds", settings.IdleTimeoutSeconds,
		"discard_sub_10s_entries", settings.DiscardShortEntries)
	return nil
}

// Start closes any active session and opens a new one.
func (t *Tracker) Start(ctx context.Context, req StartRequest) error {
	label := mode.Normalize(req.Mode)
	if label == "" || req.ManualSeconds < 0 {
		return ErrInvalidInput
	}
	if err := t.checkProject(ctx, req.ProjectID); err != nil {
		return err
	}

	now := t.now()
	if err := t.closeActive(ctx, now); err != nil {
		return err
	}
	return t.open(ctx, req.ProjectID, label, req.Description, req.ManualSeconds, now, now)
}

// Switch is Start under the name callers use when changing mode.
func (t *Tracker) Switch(ctx context.Context, req StartRequest) error {
	return t.Start(ctx, req)
}

// Stop closes the active session. It is a no-op when nothing is tracked.
func (t *Tracker) Stop(ctx context.Context) error {
	if t.active == nil {
		return nil
	}
	if err := t.closeActive(ctx, t.now()); err != nil {
		return err
	}
	t.clearResume()
	t.activeRecovery.clear()
	return nil
}

// StopWithManual closes the active session, crediting manualSeconds in place
// of the manual time given at start.
func (t *Tracker) StopWithManual(ctx context.Context, manualSeconds int64) error {
	if manualSeconds < 0 {
		return ErrInvalidInput
	}
	if t.active == nil {
		return nil
	}
	t.active.manualSeconds = manualSeconds
	return t.Stop(ctx)
}

// FlushAll persists the active session before shutdown.
func (t *Tracker) FlushAll(ctx context.Context) error {
	return t.Stop(ctx)
}

// Snapshot returns a copy of the active session state.
func (t *Tracker) Snapshot() (Snapshot, bool) {
	s := t.active
	if s == nil {
		return Snapshot{}, false
	}
	now := t.now()
	elapsed := s.elapsed(now)
	idle := min(clampNonNegative(s.idleAccum), elapsed)

	snap := Snapshot{
		SessionID:      s.id,
		Mode:           s.mode,
		Description:    s.description,
		ManualSeconds:  s.manualSeconds,
		StartedAt:      time.Unix(s.startTS, 0),
		LastActivityAt: time.Unix(s.lastActivityTS, 0),
		ElapsedSeconds: elapsed,
		IdleSeconds:    idle,
		ActiveSeconds:  elapsed - idle,
		Idle:           idle > 0 || mode.IsIdle(s.mode),
		ResumeMode:     t.resumeMode,
	}
	if s.projectID != nil {
		id := *s.projectID
		snap.ProjectID = &id
	}
	return snap, true
}

// ActivityPing records fresh user input. Sustained input either restores the
// mode that was interrupted by an auto-split, or discounts idle time already
// attributed to the current session.
func (t *Tracker) ActivityPing(ctx context.Context) error {
	s := t.active
	if s == nil {
		return nil
	}
	now := t.now()
	sinceActivity := now - s.lastActivityTS
	s.lastActivityTS = max(now, s.startTS)

	threshold := t.settings.IdleTimeoutSeconds
	delay := t.settings.RestoreActiveDelaySeconds

	if mode.IsIdle(s.mode) {
		if t.resumeMode == "" {
			return nil
		}
		if sinceActivity >= threshold {
			t.resumeActive.clear()
		}
		if !t.resumeActive.set {
			t.resumeActive.start(now)
			return nil
		}
		if t.resumeActive.since(now) < delay {
			return nil
		}
		return t.autoResume(ctx, now)
	}

	if s.idleAccum <= 0 || sinceActivity >= threshold {
		t.activeRecovery.clear()
		return nil
	}
	if !t.activeRecovery.set {
		t.activeRecovery.start(now)
		return nil
	}
	if t.activeRecovery.since(now) >= delay {
		t.logger.Info("idle time discounted after sustained activity",
			"session_id", s.id, "mode", s.mode, "idle_seconds", s.idleAccum)
		s.idleAccum = 0
		t.activeRecovery.clear()
	}
	return nil
}

// Poll reconciles elapsed and idle time. It is called on a fixed cadence;
// idleSecs is the OS-measured idle time, or zero when unavailable.
func (t *Tracker) Poll(ctx context.Context, idleSecs int64) error {
	s := t.active
	if s == nil {
		return nil
	}
	nowT := t.clock.Now()
	now := nowT.Unix()

	capped, err := t.dailyCapReached(ctx, nowT)
	if err != nil {
		return err
	}
	if capped {
		t.logger.Warn("daily cap reached, closing session",
			"session_id", s.id, "mode", s.mode, "cap_seconds", t.settings.DailyCapSeconds)
		return t.closeActive(ctx, now)
	}

	gap := now - s.lastPollTS
	if gap < 0 {
		t.logger.Warn("clock moved backwards", "session_id", s.id, "gap_seconds", gap)
		gap = 0
	}

	threshold := t.settings.IdleTimeoutSeconds
	if gap >= t.settings.PollGapSleepMin {
		sleep := gap >= threshold+sleepMarginSeconds
		if sleep && gap > threshold*t.settings.SplitGapFactor {
			return t.autoSplit(ctx, now, gap)
		}
		t.attributeGap(now, gap, sleep)
	}
	s.lastPollTS = now

	elapsed := s.elapsed(now)
	switch {
	case idleSecs >= threshold:
		s.idleAccum = min(elapsed, idleSecs)
		s.lastActivityTS = now - s.idleAccum
		t.resetTimers()
	case now-s.lastActivityTS >= threshold:
		s.idleAccum = min(elapsed, now-s.lastActivityTS)
		t.resetTimers()
	}
	return nil
}

// attributeGap books a poll gap as idle time on the still-open session.
func (t *Tracker) attributeGap(now, gap int64, sleep bool) {
	s := t.active
	add := min(gap, t.settings.MaxGapIdleSeconds)
	s.idleAccum = min(s.idleAccum+add, s.elapsed(now))
	if back := now - s.idleAccum; back < s.lastActivityTS {
		s.lastActivityTS = back
	}
	t.resetTimers()

	kind := "short-sleep"
	if sleep {
		kind = "sleep"
	}
	t.logger.Info("poll gap attributed as idle",
		"session_id", s.id, "kind", kind, "gap_seconds", gap, "idle_seconds", s.idleAccum)
}

// autoSplit closes the session at roughly the moment input stopped and opens
// an idle session covering the away period.
func (t *Tracker) autoSplit(ctx context.Context, now, gap int64) error {
	s := t.active
	splitEnd := min(now, s.lastActivityTS+t.settings.IdleTimeoutSeconds)
	if splitEnd < s.startTS {
		splitEnd = s.startTS
	}
	s.idleAccum = min(clampNonNegative(splitEnd-s.lastActivityTS), splitEnd-s.startTS)

	prevMode, prevProject := s.mode, s.projectID
	t.logger.Info("sleep gap detected, splitting session",
		"session_id", s.id, "mode", prevMode, "gap_seconds", gap,
		"split_at", time.Unix(splitEnd, 0), "idle_seconds", s.idleAccum)

	if err := t.closeActive(ctx, splitEnd); err != nil {
		return err
	}
	if err := t.open(ctx, prevProject, mode.IdleLabel, "", 0, splitEnd, now); err != nil {
		return err
	}
	t.active.idleAccum = now - splitEnd

	t.resumeActive.clear()
	if mode.IsIdle(prevMode) {
		t.clearResume()
		return nil
	}
	t.resumeMode = prevMode
	t.resumeProjectID = prevProject
	return nil
}

func (t *Tracker) autoResume(ctx context.Context, now int64) error {
	label, projectID := t.resumeMode, t.resumeProjectID
	t.logger.Info("sustained activity, resuming mode", "mode", label)
	if err := t.closeActive(ctx, now); err != nil {
		return err
	}
	return t.open(ctx, projectID, label, AutoResumeDescription, 0, now, now)
}

func (t *Tracker) dailyCapReached(ctx context.Context, nowT time.Time) (bool, error) {
	s := t.active
	stored, err := t.store.WorkSecondsOn(ctx, nowT)
	if err != nil {
		return false, fmt.Errorf("loading today's work: %w", err)
	}
	var live int64
	if !mode.IsIdle(s.mode) {
		elapsed := s.elapsed(nowT.Unix())
		live = elapsed - min(clampNonNegative(s.idleAccum), elapsed)
	}
	return stored+live >= t.settings.DailyCapSeconds, nil
}

// checkProject rejects references the store could never persist.
func (t *Tracker) checkProject(ctx context.Context, projectID *int64) error {
	if projectID == nil {
		return nil
	}
	ok, err := t.store.ProjectExists(ctx, *projectID)
	if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProject, *projectID)
	}
	return nil
}

func (t *Tracker) open(ctx context.Context, projectID *int64, label, description string, manualSeconds, startTS, now int64) error {
	if _, err := t.store.RegisterMode(ctx, label); err != nil {
		return fmt.Errorf("registering mode: %w", err)
	}
	t.active = &session{
		id:             uuid.NewString(),
		projectID:      projectID,
		mode:           label,
		startTS:        startTS,
		lastActivityTS: startTS,
		lastPollTS:     now,
		description:    description,
		manualSeconds:  manualSeconds,
	}
	t.activeRecovery.clear()
	if !mode.IsIdle(label) {
		t.clearResume()
	}
	t.logger.Info("session started",
		"session_id", t.active.id, "project_id", projectLogValue(projectID), "mode", label)
	return nil
}

// closeActive ends the active session at end and persists it. When the store
// fails the session stays open so the caller may retry.
func (t *Tracker) closeActive(ctx context.Context, end int64) error {
	s := t.active
	if s == nil {
		return nil
	}

	duration := end - s.startTS
	if duration < 0 {
		t.logger.Warn("session end before start, clamping", "session_id", s.id, "duration_seconds", duration)
		duration = 0
	}
	if duration < shortEntrySeconds && t.settings.DiscardShortEntries {
		t.logger.Info("discarding short session",
			"session_id", s.id, "mode", s.mode, "duration_seconds", duration, "manual_seconds", s.manualSeconds)
		t.active = nil
		return nil
	}

	idle := min(clampNonNegative(s.idleAccum), duration)
	e := &entry.TimeEntry{
		ID:            s.id,
		StartedAt:     time.Unix(s.startTS, 0),
		EndedAt:       time.Unix(s.startTS+duration, 0),
		ActiveSeconds: duration - idle,
		IdleSeconds:   idle,
		ManualSeconds: s.manualSeconds,
		ProjectID:     s.projectID,
		ModeLabel:     s.mode,
		Description:   s.description,
		Source:        entry.SourceAuto,
	}
	if err := t.store.AppendTimeEntry(ctx, e); err != nil {
		return fmt.Errorf("appending time entry: %w", err)
	}

	t.logger.Info("session closed",
		"session_id", s.id, "project_id", projectLogValue(s.projectID), "mode", s.mode,
		"duration_seconds", duration, "idle_seconds", e.IdleSeconds, "active_seconds", e.ActiveSeconds)
	t.active = nil
	return nil
}

func (t *Tracker) resetTimers() {
	t.resumeActive.clear()
	t.activeRecovery.clear()
}

func (t *Tracker) clearResume() {
	t.resumeMode = ""
	t.resumeProjectID = nil
	t.resumeActive.clear()
}

func (t *Tracker) now() int64 {
	return t.clock.Now().Unix()
}

func projectLogValue(id *int64) any {
	if id == nil {
		return "none"
	}
	return *id
}
