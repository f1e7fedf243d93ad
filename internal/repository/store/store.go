// Package store opens the configured database backend and returns its
// repository set.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite"
)

// Open connects to the backend named by cfg.Database.Driver and applies
// pending migrations. The returned func releases the connection.
func Open(ctx context.Context, cfg *config.Config) (repository.Set, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repository.Set{}, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		applied, err := postgresql.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return repository.Set{}, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if len(applied) > 0 {
			slog.Info("applied migrations", "driver", cfg.Database.Driver, "versions", applied)
		}
		return postgresql.NewRepositories(db), db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return repository.Set{}, nil, err
		}
		return sqlite.NewRepositories(db), func() { _ = db.Close() }, nil

	default:
		return repository.Set{}, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
