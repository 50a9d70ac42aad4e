// Package infrastructure assembles the systems every domain depends on:
// lifecycle coordination, logging, the database pool and the attachment store.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/recipe-lab/internal/config"
	"github.com/JaimeStill/recipe-lab/internal/migrations"
	"github.com/JaimeStill/recipe-lab/pkg/database"
	"github.com/JaimeStill/recipe-lab/pkg/lifecycle"
	"github.com/JaimeStill/recipe-lab/pkg/logging"
	"github.com/JaimeStill/recipe-lab/pkg/storage"
)

// Infrastructure holds the core systems required by the recipe and ingredient domains.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System

	dbConfig *database.Config
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		dbConfig:  &cfg.Database,
	}, nil
}

// Migrate brings the schema up to date. It runs synchronously so no request
// is served against a stale schema.
func (i *Infrastructure) Migrate() error {
	if err := migrations.Up(i.dbConfig, i.Logger.With("system", "migrations")); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
