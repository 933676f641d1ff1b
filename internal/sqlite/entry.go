package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/repository"
)

// EntryRepository implements entry.Repository for SQLite
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, date, start_ts, end_ts, active_seconds, idle_seconds, manual_seconds,
	project_id, mode_label, description, source, replaced_by`

// Append stores a closed time entry in the ISO week of its start. A missing
// ID is assigned; Date is always derived from StartedAt in local time.
func (r *EntryRepository) Append(ctx context.Context, e *entry.TimeEntry) error {
	if e.ModeLabel == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit time entry: %w", err)
	}
	return nil
}

// AppendReplacement stores e and marks replacedID as superseded by it in one
// transaction. It returns repository.ErrNotFound for an unknown replacedID and
// repository.ErrConflict when that entry was already replaced; nothing is
// written in either case.
func (r *EntryRepository) AppendReplacement(ctx context.Context, e *entry.TimeEntry, replacedID string) error {
	if e.ModeLabel == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, e); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE time_entries SET replaced_by = ? WHERE id = ? AND replaced_by IS NULL`,
		e.ID, replacedID)
	if err != nil {
		return fmt.Errorf("failed to mark time entry replaced: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM time_entries WHERE id = ?`, replacedID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up replaced entry: %w", err)
		}
		return fmt.Errorf("%w: time entry %s already replaced", repository.ErrConflict, replacedID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replacement: %w", err)
	}
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, e *entry.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = entry.SourceAuto
	}
	start := e.StartedAt.Local()
	e.Date = entry.DateKey(start)

	weekID, err := ensureWeek(ctx, tx, start)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO time_entries (id, week_id, date, start_ts, end_ts, active_seconds, idle_seconds,
			manual_seconds, project_id, mode_label, description, source, replaced_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		e.ID,
		weekID,
		e.Date,
		e.StartedAt.Unix(),
		e.EndedAt.Unix(),
		e.ActiveSeconds,
		e.IdleSeconds,
		e.ManualSeconds,
		nullInt64(e.ProjectID),
		e.ModeLabel,
		e.Description,
		string(e.Source),
		nullString(e.ReplacedBy),
	)
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: duplicate time entry %s", repository.ErrInvalidInput, e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

// Get retrieves a time entry by ID
func (r *EntryRepository) Get(ctx context.Context, id string) (*entry.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	return e, nil
}

// ListRange returns entries starting in [from, to), oldest first
func (r *EntryRepository) ListRange(ctx context.Context, from, to time.Time) ([]entry.TimeEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM time_entries
		WHERE start_ts >= ? AND start_ts < ?
		ORDER BY start_ts, rowid`
	return r.query(ctx, query, from.Unix(), to.Unix())
}

// Recent returns the latest entries, newest first
func (r *EntryRepository) Recent(ctx context.Context, limit int) ([]entry.TimeEntry, error) {
	query := `SELECT ` + entryColumns + `
		FROM time_entries
		ORDER BY start_ts DESC, rowid DESC
		LIMIT ?`
	return r.query(ctx, query, limit)
}

// ModeDistribution sums active seconds per mode label over entries that have
// not been replaced, largest first. A non-positive limit returns all modes.
func (r *EntryRepository) ModeDistribution(ctx context.Context, limit int) ([]entry.ModeTotal, error) {
	query := `
		SELECT mode_label, SUM(active_seconds) AS total_active
		FROM time_entries
		WHERE replaced_by IS NULL
		GROUP BY mode_label
		ORDER BY total_active DESC, LOWER(mode_label)`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mode distribution: %w", err)
	}
	defer rows.Close()

	totals := []entry.ModeTotal{}
	for rows.Next() {
		var t entry.ModeTotal
		if err := rows.Scan(&t.Mode, &t.ActiveSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan mode total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mode totals: %w", err)
	}
	return totals, nil
}

// ClearLogged deletes every time entry and week and resets mode usage.
// Mode labels and projects are kept.
func (r *EntryRepository) ClearLogged(ctx context.Context) (entry.ClearStats, error) {
	var stats entry.ClearStats

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM time_entries`)
	if err != nil {
		return stats, fmt.Errorf("failed to delete time entries: %w", err)
	}
	if stats.TimeEntries, err = result.RowsAffected(); err != nil {
		return stats, fmt.Errorf("failed to get rows affected: %w", err)
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM weeks`)
	if err != nil {
		return stats, fmt.Errorf("failed to delete weeks: %w", err)
	}
	if stats.Weeks, err = result.RowsAffected(); err != nil {
		return stats, fmt.Errorf("failed to get rows affected: %w", err)
	}

	result, err = tx.ExecContext(ctx, `UPDATE modes SET usage_count = 0, last_used_at = NULL`)
	if err != nil {
		return stats, fmt.Errorf("failed to reset modes: %w", err)
	}
	if stats.ModesReset, err = result.RowsAffected(); err != nil {
		return stats, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit clear: %w", err)
	}
	return stats, nil
}

// WorkSecondsOn sums active and manual seconds booked on the local date of
// day, skipping idle-mode and replaced entries.
func (r *EntryRepository) WorkSecondsOn(ctx context.Context, day time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(active_seconds + manual_seconds), 0)
		FROM time_entries
		WHERE date = ?
			AND LOWER(TRIM(mode_label)) <> 'idle'
			AND replaced_by IS NULL`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, entry.DateKey(day.Local())).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum work seconds: %w", err)
	}
	return total, nil
}

func (r *EntryRepository) query(ctx context.Context, query string, args ...any) ([]entry.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	entries := []entry.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

// ensureWeek returns the weeks row for the ISO week containing day,
// creating it when missing.
func ensureWeek(ctx context.Context, tx *sql.Tx, day time.Time) (int64, error) {
	year, week := day.ISOWeek()

	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM weeks WHERE iso_year = ? AND iso_week = ?`, year, week).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up week: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO weeks (iso_year, iso_week, start_date, created_at) VALUES (?, ?, ?, ?)`,
		year, week, entry.DateKey(isoWeekStart(day)), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create week: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get week id: %w", err)
	}
	return id, nil
}

// isoWeekStart returns the Monday of the ISO week containing day.
func isoWeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	y, m, d := day.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, day.Location())
}

func scanEntry(row rowScanner) (*entry.TimeEntry, error) {
	var (
		e          entry.TimeEntry
		start, end int64
		projectID  sql.NullInt64
		source     string
		replacedBy sql.NullString
	)
	err := row.Scan(
		&e.ID,
		&e.Date,
		&start,
		&end,
		&e.ActiveSeconds,
		&e.IdleSeconds,
		&e.ManualSeconds,
		&projectID,
		&e.ModeLabel,
		&e.Description,
		&source,
		&replacedBy,
	)
	if err != nil {
		return nil, err
	}
	e.StartedAt = time.Unix(start, 0)
	e.EndedAt = time.Unix(end, 0)
	e.Source = entry.Source(source)
	if projectID.Valid {
		id := projectID.Int64
		e.ProjectID = &id
	}
	if replacedBy.Valid {
		s := replacedBy.String
		e.ReplacedBy = &s
	}
	return &e, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
