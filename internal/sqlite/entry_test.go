package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/tracker"
	"github.com/rpggio/manweek/internal/repository"
	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)

func newEntry(start time.Time, active, idle int64, mode string) *entry.TimeEntry {
	return &entry.TimeEntry{
		StartedAt:     start,
		EndedAt:       start.Add(time.Duration(active+idle) * time.Second),
		ActiveSeconds: active,
		IdleSeconds:   idle,
		ModeLabel:     mode,
		Source:        entry.SourceAuto,
	}
}

func TestEntryRepository_AppendAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	projects := NewProjectRepository(db)
	ctx := context.Background()

	projectID, err := projects.Upsert(ctx, "ACME", "")
	require.NoError(t, err)

	e := newEntry(wednesday, 100, 20, "Dev")
	e.ProjectID = &projectID
	e.Description = "refactor"
	require.NoError(t, repo.Append(ctx, e))
	require.NotEmpty(t, e.ID, "an ID is assigned")
	require.Equal(t, "2024-01-03", e.Date)

	retrieved, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, e.ID, retrieved.ID)
	require.Equal(t, "2024-01-03", retrieved.Date)
	require.Equal(t, wednesday.Unix(), retrieved.StartedAt.Unix())
	require.Equal(t, int64(120), retrieved.DurationSeconds())
	require.Equal(t, int64(100), retrieved.ActiveSeconds)
	require.Equal(t, int64(20), retrieved.IdleSeconds)
	require.Equal(t, projectID, *retrieved.ProjectID)
	require.Equal(t, "refactor", retrieved.Description)
	require.Equal(t, entry.SourceAuto, retrieved.Source)
	require.Nil(t, retrieved.ReplacedBy)
}

func TestEntryRepository_AppendKeepsGivenID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	e := newEntry(wednesday, 60, 0, "Dev")
	e.ID = "session-1"
	require.NoError(t, repo.Append(ctx, e))

	dup := newEntry(wednesday, 60, 0, "Dev")
	dup.ID = "session-1"
	require.ErrorIs(t, repo.Append(ctx, dup), repository.ErrInvalidInput)
}

func TestEntryRepository_AppendUnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)

	e := newEntry(wednesday, 60, 0, "Dev")
	missing := int64(404)
	e.ProjectID = &missing
	require.ErrorIs(t, repo.Append(context.Background(), e), repository.ErrForeignKeyViolation)
}

func TestEntryRepository_AppendCreatesISOWeekOnce(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newEntry(wednesday, 60, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.AddDate(0, 0, 2), 60, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.AddDate(0, 0, 7), 60, 0, "Dev")))

	rows, err := db.Query("SELECT iso_year, iso_week, start_date FROM weeks ORDER BY iso_week")
	require.NoError(t, err)
	defer rows.Close()

	type week struct {
		year, week int
		start      string
	}
	var weeks []week
	for rows.Next() {
		var w week
		require.NoError(t, rows.Scan(&w.year, &w.week, &w.start))
		weeks = append(weeks, w)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []week{
		{year: 2024, week: 1, start: "2024-01-01"},
		{year: 2024, week: 2, start: "2024-01-08"},
	}, weeks)
}

func TestEntryRepository_ListRangeAndRecent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newEntry(wednesday.Add(2*time.Hour), 60, 0, "Meeting")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday, 60, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.AddDate(0, 0, 1), 60, 0, "Admin")))

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local)
	entries, err := repo.ListRange(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Dev", entries[0].ModeLabel)
	require.Equal(t, "Meeting", entries[1].ModeLabel)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "Admin", recent[0].ModeLabel)
	require.Equal(t, "Meeting", recent[1].ModeLabel)
}

func newReplacement(manual int64) *entry.TimeEntry {
	e := newEntry(wednesday, 0, 0, "Dev")
	e.ManualSeconds = manual
	e.Source = entry.SourceManualReplace
	return e
}

func TestEntryRepository_AppendReplacement(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	orig := newEntry(wednesday, 600, 0, "Dev")
	require.NoError(t, repo.Append(ctx, orig))

	replacement := newReplacement(1200)
	require.NoError(t, repo.AppendReplacement(ctx, replacement, orig.ID))

	retrieved, err := repo.Get(ctx, orig.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.ReplacedBy)
	require.Equal(t, replacement.ID, *retrieved.ReplacedBy)

	work, err := repo.WorkSecondsOn(ctx, wednesday)
	require.NoError(t, err)
	require.Equal(t, int64(1200), work, "the replaced entry no longer counts")
}

func TestEntryRepository_AppendReplacementWritesNothingOnFailure(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	orig := newEntry(wednesday, 600, 0, "Dev")
	require.NoError(t, repo.Append(ctx, orig))
	require.NoError(t, repo.AppendReplacement(ctx, newReplacement(1200), orig.ID))

	second := newReplacement(300)
	require.ErrorIs(t, repo.AppendReplacement(ctx, second, orig.ID), repository.ErrConflict)
	_, err := repo.Get(ctx, second.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	orphan := newReplacement(300)
	require.ErrorIs(t, repo.AppendReplacement(ctx, orphan, "missing"), repository.ErrNotFound)
	_, err = repo.Get(ctx, orphan.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	badProject := newReplacement(300)
	missingProject := int64(999)
	badProject.ProjectID = &missingProject
	fresh := newEntry(wednesday.Add(time.Hour), 60, 0, "Dev")
	require.NoError(t, repo.Append(ctx, fresh))
	require.ErrorIs(t, repo.AppendReplacement(ctx, badProject, fresh.ID), repository.ErrForeignKeyViolation)
	retrieved, err := repo.Get(ctx, fresh.ID)
	require.NoError(t, err)
	require.Nil(t, retrieved.ReplacedBy)

	work, err := repo.WorkSecondsOn(ctx, wednesday)
	require.NoError(t, err)
	require.Equal(t, int64(1260), work)
}

func TestEntryRepository_ConcurrentReplacementsKeepOne(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	orig := newEntry(wednesday, 600, 0, "Dev")
	require.NoError(t, repo.Append(ctx, orig))

	const writers = 8
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AppendReplacement(ctx, newReplacement(100), orig.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, repository.ErrConflict)
	}
	require.Equal(t, 1, succeeded)

	entries, err := repo.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestEntryRepository_WorkSecondsOn(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	withManual := newEntry(wednesday, 100, 50, "Dev")
	withManual.ManualSeconds = 30
	require.NoError(t, repo.Append(ctx, withManual))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.Add(time.Hour), 200, 0, "IDLE")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.AddDate(0, 0, 1), 400, 0, "Dev")))

	work, err := repo.WorkSecondsOn(ctx, wednesday.Add(5*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(130), work)

	work, err = repo.WorkSecondsOn(ctx, wednesday.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Equal(t, int64(0), work)
}

func TestEntryRepository_ModeDistribution(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newEntry(wednesday, 100, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.Add(time.Hour), 300, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.Add(2*time.Hour), 250, 0, "Meeting")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.Add(3*time.Hour), 10, 0, "Admin")))

	totals, err := repo.ModeDistribution(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []entry.ModeTotal{
		{Mode: "Dev", ActiveSeconds: 400},
		{Mode: "Meeting", ActiveSeconds: 250},
		{Mode: "Admin", ActiveSeconds: 10},
	}, totals)

	totals, err = repo.ModeDistribution(ctx, 1)
	require.NoError(t, err)
	require.Len(t, totals, 1)
}

func TestEntryRepository_ClearLogged(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)
	modes := NewModeRepository(db)
	ctx := context.Background()

	_, err := modes.Register(ctx, "Dev")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, newEntry(wednesday, 100, 0, "Dev")))
	require.NoError(t, repo.Append(ctx, newEntry(wednesday.AddDate(0, 0, 7), 100, 0, "Dev")))

	stats, err := repo.ClearLogged(ctx)
	require.NoError(t, err)
	require.Equal(t, entry.ClearStats{TimeEntries: 2, Weeks: 2, ModesReset: 1}, stats)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, recent)

	list, err := modes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(0), list[0].UsageCount)
	require.Nil(t, list[0].LastUsedAt)
}

func TestStore_ImplementsTrackerStore(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	id, err := store.RegisterMode(ctx, "Dev")
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, store.AppendTimeEntry(ctx, newEntry(wednesday, 42, 0, "Dev")))
	work, err := store.WorkSecondsOn(ctx, wednesday)
	require.NoError(t, err)
	require.Equal(t, int64(42), work)
}

func TestStore_ProjectExists(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	id, err := store.Projects.Upsert(ctx, "ACME", "Acme")
	require.NoError(t, err)
	require.NoError(t, store.Projects.SetArchived(ctx, id, true))

	ok, err := store.ProjectExists(ctx, id)
	require.NoError(t, err)
	require.True(t, ok, "archived projects still exist")

	ok, err = store.ProjectExists(ctx, id+100)
	require.NoError(t, err)
	require.False(t, ok)
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

func TestStore_TrackerRejectsUnknownProjectBeforeWriting(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	clock := &stepClock{now: wednesday}

	tr, err := tracker.New(tracker.DefaultSettings(), store, clock, nil)
	require.NoError(t, err)

	missing := int64(999)
	err = tr.Start(ctx, tracker.StartRequest{ProjectID: &missing, Mode: "Dev"})
	require.ErrorIs(t, err, tracker.ErrUnknownProject)

	require.NoError(t, tr.Start(ctx, tracker.StartRequest{Mode: "Dev"}))
	clock.now = wednesday.Add(time.Minute)
	require.NoError(t, tr.Start(ctx, tracker.StartRequest{Mode: "Meeting"}))
	clock.now = wednesday.Add(2 * time.Minute)
	require.NoError(t, tr.FlushAll(ctx))

	entries, err := store.Entries.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
