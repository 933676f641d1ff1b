package main

import (
	"fmt"
	"log/slog"

	"github.com/rpggio/manweek/internal/config"
	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/sqlite"
)

// app holds the database and the domain services built on it.
type app struct {
	db       *sqlite.DB
	store    *sqlite.Store
	projects *project.Service
	modes    *mode.Service
	entries  *entry.Service
}

func openApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := ensureParentDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := sqlite.NewStore(db)
	modeSvc := mode.NewService(store.Modes, logger)
	return &app{
		db:       db,
		store:    store,
		projects: project.NewService(sqlite.NewProjectRepository(db), logger),
		modes:    modeSvc,
		entries:  entry.NewService(store.Entries, modeSvc, logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
