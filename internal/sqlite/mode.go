package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/repository"
)

// ModeRepository implements mode.Repository for SQLite
type ModeRepository struct {
	db *DB
}

// NewModeRepository creates a new ModeRepository
func NewModeRepository(db *DB) *ModeRepository {
	return &ModeRepository{db: db}
}

// Register inserts a mode or bumps the usage of an existing one. Labels are
// matched trimmed and case-insensitively; the first spelling seen is kept.
func (r *ModeRepository) Register(ctx context.Context, label string) (int64, error) {
	label = mode.Normalize(label)
	if label == "" {
		return 0, repository.ErrInvalidInput
	}

	query := `
		INSERT INTO modes (label, label_lower, usage_count, last_used_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(label_lower) DO UPDATE SET
			usage_count = usage_count + 1,
			last_used_at = excluded.last_used_at
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, label, strings.ToLower(label), time.Now().Unix()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to register mode: %w", err)
	}

	return id, nil
}

// List returns all modes ordered by label
func (r *ModeRepository) List(ctx context.Context) ([]mode.Mode, error) {
	query := `
		SELECT id, label, usage_count, last_used_at
		FROM modes
		ORDER BY LOWER(label)
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list modes: %w", err)
	}
	defer rows.Close()

	modes := []mode.Mode{}
	for rows.Next() {
		var (
			m        mode.Mode
			lastUsed sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.Label, &m.UsageCount, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan mode: %w", err)
		}
		if lastUsed.Valid {
			ts := time.Unix(lastUsed.Int64, 0)
			m.LastUsedAt = &ts
		}
		modes = append(modes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate modes: %w", err)
	}

	return modes, nil
}

// Delete removes a mode. Time entries keep their label.
func (r *ModeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM modes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mode: %w", err)
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
