package config

import (
	"context"
	"fmt"
	"os"

	"todolist/internal/repository"
	"todolist/internal/repository/memory"
	"todolist/internal/repository/postgres"
	"todolist/internal/repository/sqlite"
)

// CreateStore creates the storage backend selected by Database.Driver
func CreateStore(ctx context.Context, config *Config) (repository.Store, error) {
	switch config.Database.Driver {
	case DriverMemory:
		return memory.New(), nil

	case DriverSQLite:
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		store, err := sqlite.NewWithOptions(config.GetDatabasePath(), sqlite.Options{
			QueryTimeout: config.GetQueryTimeout(),
			WriteTimeout: config.GetWriteTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil

	case DriverPostgres:
		store, err := postgres.New(ctx, config.Database.URL, postgres.Options{
			QueryTimeout: config.GetQueryTimeout(),
			WriteTimeout: config.GetWriteTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil

	default:
		return nil, &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", config.Database.Driver)}
	}
}

// CreateTestStore creates an in-memory SQLite store for testing
func CreateTestStore() (repository.Store, error) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}
