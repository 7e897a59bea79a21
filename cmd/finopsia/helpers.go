package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/finopsia/finopsia/internal/artifact"
	"github.com/finopsia/finopsia/internal/config"
	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/engine"
	"github.com/finopsia/finopsia/internal/forecaster"
	"github.com/finopsia/finopsia/internal/service"
	"github.com/finopsia/finopsia/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/finopsia/finopsia.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initRegistry wires the model registry on top of storage: artifact
// store, currency converter, series builder and the per-kind trainers.
func initRegistry(store service.Storage) (*engine.Registry, error) {
	artifactDir := viper.GetString("models.dir")
	if artifactDir == "" {
		artifactDir = "$HOME/.local/share/finopsia/artifacts"
	}
	artifactDir = config.ExpandPath(artifactDir)

	blobs, err := artifact.NewFileStore(artifactDir)
	if err != nil {
		return nil, err
	}

	converter := currency.NewConverter()
	builder := forecaster.NewBuilder(store, converter)

	return engine.NewRegistry(blobs, engine.DefaultTrainers(builder)), nil
}
