package main

import (
	"context"
	"fmt"

	"github.com/aimd54/gametracker/internal/api"
	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/mongostore"
	"github.com/aimd54/gametracker/internal/repository"
	"github.com/aimd54/gametracker/internal/service/library"
	"github.com/aimd54/gametracker/pkg/logger"
)

// store bundles the game and review stores of the configured driver.
type store struct {
	games   library.GameRepository
	reviews library.ReviewRepository
	health  api.HealthChecker
	close   func(ctx context.Context) error
}

// openStore connects to the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := repository.NewDB(&cfg.Database.Postgres, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Postgres.RunMigrations {
			version, err := db.RunMigrations()
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info().Uint("version", version).Msg("Database migrations applied")
		} else if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlStore(db), nil

	case config.DriverSQLite:
		db, err := repository.NewSQLiteDB(cfg.Database.SQLite.Path, log)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlStore(db), nil

	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, &cfg.Database.Mongo, log)
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, err
		}
		return &store{
			games:   ms.Games(),
			reviews: ms.Reviews(),
			health:  ms,
			close:   ms.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func sqlStore(db *repository.DB) *store {
	return &store{
		games:   repository.NewGameRepository(db),
		reviews: repository.NewReviewRepository(db),
		health:  db,
		close:   func(context.Context) error { return db.Close() },
	}
}
