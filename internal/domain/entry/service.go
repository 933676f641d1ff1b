package entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/manweek/internal/repository"
)

// Service handles time entry queries and manual edits.
type Service struct {
	repo   Repository
	modes  ModeRegistrar
	logger *slog.Logger
}

// NewService creates a new entry service.
func NewService(repo Repository, modes ModeRegistrar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, modes: modes, logger: logger}
}

// ManualRequest describes a manually credited block of time.
type ManualRequest struct {
	Day           time.Time
	ManualSeconds int64
	ProjectID     *int64
	ModeLabel     string
	Description   string
}

func (r ManualRequest) validate() error {
	if strings.TrimSpace(r.ModeLabel) == "" {
		return ErrInvalidInput
	}
	if r.ManualSeconds <= 0 {
		return ErrInvalidInput
	}
	if r.Day.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

// ListForDate returns the entries recorded on the day containing t.
func (s *Service) ListForDate(ctx context.Context, t time.Time) ([]TimeEntry, error) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return s.ListRange(ctx, from, from.AddDate(0, 0, 1))
}

// ListRange returns entries starting in [from, to).
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	if !to.After(from) {
		return nil, ErrInvalidInput
	}
	entries, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// Recent returns the newest entries first.
func (s *Service) Recent(ctx context.Context, limit int) ([]TimeEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	return entries, nil
}

// AddManual records time that was not tracked live.
func (s *Service) AddManual(ctx context.Context, req ManualRequest) (*TimeEntry, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	e, err := s.buildManual(ctx, req, SourceManual)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("appending manual entry: %w", err)
	}
	return e, nil
}

// Replace supersedes an entry with a manual correction covering the same
// span. The original row is kept and points at its replacement.
func (s *Service) Replace(ctx context.Context, id string, req ManualRequest) (*TimeEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	orig, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("loading entry: %w", err)
	}
	if orig.ReplacedBy != nil {
		return nil, ErrAlreadyReplaced
	}
	if req.Day.IsZero() {
		req.Day = orig.StartedAt
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	e, err := s.buildManual(ctx, req, SourceManualReplace)
	if err != nil {
		return nil, err
	}
	e.StartedAt = orig.StartedAt
	e.EndedAt = orig.EndedAt
	if err := s.repo.AppendReplacement(ctx, e, orig.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyReplaced
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("appending replacement entry: %w", err)
	}
	s.logger.Info("entry replaced", "entry_id", orig.ID, "replacement_id", e.ID)
	return e, nil
}

// ModeDistribution returns active time per mode, largest first.
func (s *Service) ModeDistribution(ctx context.Context, limit int) ([]ModeTotal, error) {
	totals, err := s.repo.ModeDistribution(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading mode distribution: %w", err)
	}
	return totals, nil
}

// ClearLogged removes all logged time and resets mode usage statistics.
func (s *Service) ClearLogged(ctx context.Context) (ClearStats, error) {
	stats, err := s.repo.ClearLogged(ctx)
	if err != nil {
		return ClearStats{}, fmt.Errorf("clearing entries: %w", err)
	}
	s.logger.Warn("logged entries cleared", "time_entries", stats.TimeEntries, "weeks", stats.Weeks)
	return stats, nil
}

func (s *Service) buildManual(ctx context.Context, req ManualRequest, source Source) (*TimeEntry, error) {
	label := strings.TrimSpace(req.ModeLabel)
	if _, err := s.modes.Register(ctx, label); err != nil {
		return nil, fmt.Errorf("registering mode: %w", err)
	}
	day := time.Date(req.Day.Year(), req.Day.Month(), req.Day.Day(), 12, 0, 0, 0, req.Day.Location())
	return &TimeEntry{
		ID:            uuid.NewString(),
		StartedAt:     day,
		EndedAt:       day,
		ManualSeconds: req.ManualSeconds,
		ProjectID:     req.ProjectID,
		ModeLabel:     label,
		Description:   req.Description,
		Source:        source,
	}, nil
}
