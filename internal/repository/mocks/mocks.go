package mocks

import (
	"context"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Upsert(ctx context.Context, code, name string) (int64, error) {
	args := m.Called(ctx, code, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListActive(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

// ModeRepository is a mock for mode.Repository.
type ModeRepository struct {
	mock.Mock
}

func (m *ModeRepository) Register(ctx context.Context, label string) (int64, error) {
	args := m.Called(ctx, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ModeRepository) List(ctx context.Context) ([]mode.Mode, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]mode.Mode); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ModeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// EntryRepository is a mock for entry.Repository.
type EntryRepository struct {
	mock.Mock
}

func (m *EntryRepository) Append(ctx context.Context, e *entry.TimeEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) Get(ctx context.Context, id string) (*entry.TimeEntry, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*entry.TimeEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) ListRange(ctx context.Context, from, to time.Time) ([]entry.TimeEntry, error) {
	args := m.Called(ctx, from, to)
	if list, ok := args.Get(0).([]entry.TimeEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) Recent(ctx context.Context, limit int) ([]entry.TimeEntry, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]entry.TimeEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) AppendReplacement(ctx context.Context, e *entry.TimeEntry, replacedID string) error {
	args := m.Called(ctx, e, replacedID)
	return args.Error(0)
}

func (m *EntryRepository) ModeDistribution(ctx context.Context, limit int) ([]entry.ModeTotal, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]entry.ModeTotal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) ClearLogged(ctx context.Context) (entry.ClearStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(entry.ClearStats), args.Error(1)
}

// EntryStore is a mock for tracker.EntryStore.
type EntryStore struct {
	mock.Mock
}

func (m *EntryStore) RegisterMode(ctx context.Context, label string) (int64, error) {
	args := m.Called(ctx, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EntryStore) AppendTimeEntry(ctx context.Context, e *entry.TimeEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryStore) ProjectExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *EntryStore) WorkSecondsOn(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}
