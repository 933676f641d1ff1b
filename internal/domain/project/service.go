package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/manweek/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// UpsertRequest defines project creation inputs.
type UpsertRequest struct {
	Code string
	Name string
}

// Upsert creates a project or renames the one with the same code.
// Codes are matched case-insensitively.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*Project, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = code
	}

	id, err := s.repo.Upsert(ctx, code, name)
	if err != nil {
		return nil, fmt.Errorf("upserting project: %w", err)
	}
	s.logger.Info("project saved", "project_id", id, "code", code)
	return s.Get(ctx, id)
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// ListActive returns projects that are not archived, ordered by code.
func (s *Service) ListActive(ctx context.Context) ([]Project, error) {
	return s.repo.ListActive(ctx)
}

// SetArchived hides or restores a project.
func (s *Service) SetArchived(ctx context.Context, id int64, archived bool) error {
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("archiving project: %w", err)
	}
	s.logger.Info("project archive state changed", "project_id", id, "archived", archived)
	return nil
}
