package entry_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/repository"
	"github.com/rpggio/manweek/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 5, 8, 30, 0, 0, time.Local)

func TestEntryService_AddManual(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	modes := &mocks.ModeRepository{}
	projectID := int64(4)

	modes.On("Register", ctx, "Meeting").Return(int64(1), nil)
	var stored *entry.TimeEntry
	repo.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entry.TimeEntry)
	}).Return(nil)

	svc := entry.NewService(repo, modes, nil)
	e, err := svc.AddManual(ctx, entry.ManualRequest{
		Day:           day,
		ManualSeconds: 1800,
		ProjectID:     &projectID,
		ModeLabel:     " Meeting ",
		Description:   "planning",
	})
	require.NoError(t, err)
	require.Same(t, stored, e)
	require.NotEmpty(t, e.ID)
	require.Equal(t, entry.SourceManual, e.Source)
	require.Equal(t, "Meeting", e.ModeLabel)
	require.Equal(t, int64(1800), e.ManualSeconds)
	require.Equal(t, int64(0), e.ActiveSeconds)
	require.Equal(t, int64(0), e.DurationSeconds())
	require.Equal(t, 12, e.StartedAt.Hour())
	require.Equal(t, int64(1800), e.WorkSeconds())
}

func TestEntryService_AddManualValidates(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	modes := &mocks.ModeRepository{}
	svc := entry.NewService(repo, modes, nil)

	_, err := svc.AddManual(ctx, entry.ManualRequest{Day: day, ManualSeconds: 60})
	require.ErrorIs(t, err, entry.ErrInvalidInput)

	_, err = svc.AddManual(ctx, entry.ManualRequest{Day: day, ModeLabel: "Dev"})
	require.ErrorIs(t, err, entry.ErrInvalidInput)

	_, err = svc.AddManual(ctx, entry.ManualRequest{ManualSeconds: 60, ModeLabel: "Dev"})
	require.ErrorIs(t, err, entry.ErrInvalidInput)

	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	modes.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestEntryService_Replace(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	modes := &mocks.ModeRepository{}

	orig := &entry.TimeEntry{
		ID:            "orig",
		StartedAt:     day,
		EndedAt:       day.Add(time.Hour),
		ActiveSeconds: 3600,
		ModeLabel:     "Dev",
		Source:        entry.SourceAuto,
	}
	repo.On("Get", ctx, "orig").Return(orig, nil)
	modes.On("Register", ctx, "Review").Return(int64(2), nil)
	repo.On("AppendReplacement", ctx, mock.Anything, "orig").Return(nil)

	svc := entry.NewService(repo, modes, nil)
	e, err := svc.Replace(ctx, "orig", entry.ManualRequest{ManualSeconds: 2700, ModeLabel: "Review"})
	require.NoError(t, err)
	require.Equal(t, entry.SourceManualReplace, e.Source)
	require.Equal(t, orig.StartedAt, e.StartedAt)
	require.Equal(t, orig.EndedAt, e.EndedAt)
	require.Equal(t, int64(2700), e.ManualSeconds)
	repo.AssertCalled(t, "AppendReplacement", ctx, e, "orig")
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestEntryService_ReplaceLosingRace(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	modes := &mocks.ModeRepository{}

	repo.On("Get", ctx, "orig").Return(&entry.TimeEntry{ID: "orig", StartedAt: day, ModeLabel: "Dev"}, nil)
	repo.On("Get", ctx, "gone").Return(&entry.TimeEntry{ID: "gone", StartedAt: day, ModeLabel: "Dev"}, nil)
	modes.On("Register", ctx, "Review").Return(int64(2), nil)
	repo.On("AppendReplacement", ctx, mock.Anything, "orig").
		Return(fmt.Errorf("%w: time entry orig already replaced", repository.ErrConflict))
	repo.On("AppendReplacement", ctx, mock.Anything, "gone").Return(repository.ErrNotFound)

	svc := entry.NewService(repo, modes, nil)
	req := entry.ManualRequest{ManualSeconds: 60, ModeLabel: "Review"}

	_, err := svc.Replace(ctx, "orig", req)
	require.ErrorIs(t, err, entry.ErrAlreadyReplaced)

	_, err = svc.Replace(ctx, "gone", req)
	require.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestEntryService_ReplaceErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	modes := &mocks.ModeRepository{}
	replacedBy := "other"

	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
	repo.On("Get", ctx, "done").Return(&entry.TimeEntry{ID: "done", StartedAt: day, ReplacedBy: &replacedBy}, nil)

	svc := entry.NewService(repo, modes, nil)
	req := entry.ManualRequest{ManualSeconds: 60, ModeLabel: "Dev"}

	_, err := svc.Replace(ctx, " ", req)
	require.ErrorIs(t, err, entry.ErrInvalidInput)

	_, err = svc.Replace(ctx, "missing", req)
	require.ErrorIs(t, err, entry.ErrEntryNotFound)

	_, err = svc.Replace(ctx, "done", req)
	require.ErrorIs(t, err, entry.ErrAlreadyReplaced)

	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestEntryService_ListForDateUsesLocalDay(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	repo.On("ListRange", ctx, from, from.AddDate(0, 0, 1)).Return([]entry.TimeEntry{{ID: "a"}}, nil)

	svc := entry.NewService(repo, &mocks.ModeRepository{}, nil)
	entries, err := svc.ListForDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestEntryService_ListRangeRejectsEmptyRange(t *testing.T) {
	svc := entry.NewService(&mocks.EntryRepository{}, &mocks.ModeRepository{}, nil)
	_, err := svc.ListRange(context.Background(), day, day)
	require.ErrorIs(t, err, entry.ErrInvalidInput)
}

func TestEntryService_RecentDefaultsLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	repo.On("Recent", ctx, 100).Return([]entry.TimeEntry{}, nil)

	svc := entry.NewService(repo, &mocks.ModeRepository{}, nil)
	_, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEntryService_ClearLogged(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EntryRepository{}
	repo.On("ClearLogged", ctx).Return(entry.ClearStats{TimeEntries: 3, Weeks: 1, ModesReset: 2}, nil)

	svc := entry.NewService(repo, &mocks.ModeRepository{}, nil)
	stats, err := svc.ClearLogged(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TimeEntries)
}
