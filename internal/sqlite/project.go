package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Upsert inserts a project or renames the existing one with the same code,
// compared case-insensitively. It returns the project ID.
func (r *ProjectRepository) Upsert(ctx context.Context, code, name string) (int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, repository.ErrInvalidInput
	}
	now := time.Now().Unix()

	query := `
		INSERT INTO projects (code, code_lower, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code_lower) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, code, strings.ToLower(code), name, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert project: %w", err)
	}

	return id, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	query := `
		SELECT id, code, name, archived, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// ListActive returns non-archived projects ordered by code
func (r *ProjectRepository) ListActive(ctx context.Context) ([]project.Project, error) {
	query := `
		SELECT id, code, name, archived, created_at, updated_at
		FROM projects
		WHERE archived = 0
		ORDER BY LOWER(code)
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// SetArchived hides or restores a project
func (r *ProjectRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	query := `UPDATE projects SET archived = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, boolToInt(archived), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		proj             project.Project
		archived         int
		created, updated int64
	)
	if err := row.Scan(&proj.ID, &proj.Code, &proj.Name, &archived, &created, &updated); err != nil {
		return nil, err
	}
	proj.Archived = archived != 0
	proj.CreatedAt = time.Unix(created, 0)
	proj.UpdatedAt = time.Unix(updated, 0)
	return &proj, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
