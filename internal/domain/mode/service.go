package mode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/rpggio/manweek/internal/repository"
)

// Service handles mode operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new mode service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// Register upserts a mode and bumps its usage counter.
func (s *Service) Register(ctx context.Context, label string) (int64, error) {
	norm := Normalize(label)
	if norm == "" {
		return 0, ErrInvalidInput
	}
	id, err := s.repo.Register(ctx, norm)
	if err != nil {
		return 0, fmt.Errorf("registering mode: %w", err)
	}
	return id, nil
}

// List returns all modes ordered by label.
func (s *Service) List(ctx context.Context) ([]Mode, error) {
	modes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modes: %w", err)
	}
	return modes, nil
}

// Suggestions returns the distinct known labels, sorted case-insensitively.
// The idle sentinel is always offered.
func (s *Service) Suggestions(ctx context.Context) ([]string, error) {
	modes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	labels := []string{IdleLabel}
	for _, m := range modes {
		if IsIdle(m.Label) {
			continue
		}
		labels = append(labels, m.Label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})
	return labels, nil
}

// TagCloud returns up to limit labels, most used first.
func (s *Service) TagCloud(ctx context.Context, limit int) ([]string, error) {
	modes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(modes, func(i, j int) bool {
		return modes[i].UsageCount > modes[j].UsageCount
	})
	if limit > 0 && len(modes) > limit {
		modes = modes[:limit]
	}
	labels := make([]string, 0, len(modes))
	for _, m := range modes {
		labels = append(labels, m.Label)
	}
	return labels, nil
}

// Delete removes a mode. Recorded entries keep their label.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrModeNotFound
		}
		return fmt.Errorf("deleting mode: %w", err)
	}
	s.logger.Info("mode deleted", "mode_id", id)
	return nil
}
