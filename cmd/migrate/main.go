package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/serenvista/portal/internal/config"
	"github.com/serenvista/portal/internal/logger"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up, down")
		steps     = flag.Int("steps", 0, "Number of migration steps (0 for all)")
	)
	flag.Parse()

	log := logger.NewLogger("migrate")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required for migrations")
		os.Exit(1)
	}

	ctx := context.Background()

	// River's own schema first, then the portal tables.
	if err := runRiverMigrations(ctx, cfg.DatabaseURL, log); err != nil {
		log.Error("Failed to run River migrations", "error", err)
		os.Exit(1)
	}
	if err := runAppMigrations(cfg.DatabaseURL, *direction, *steps, log); err != nil {
		log.Error("Failed to run application migrations", "error", err)
		os.Exit(1)
	}

	log.Info("All migrations completed")
}

func runRiverMigrations(ctx context.Context, databaseURL string, log *slog.Logger) error {
	dbPool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(dbPool), nil)
	if err != nil {
		return fmt.Errorf("create River migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("run River migrations: %w", err)
	}

	for _, v := range res.Versions {
		log.Info("Applied River migration", "version", v.Version, "name", v.Name)
	}
	if len(res.Versions) == 0 {
		log.Info("River schema already up to date")
	}
	return nil
}

func runAppMigrations(databaseURL, direction string, steps int, log *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://db/migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		log.Warn("Database is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
	}

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Steps(-1)
		}
	default:
		return fmt.Errorf("invalid direction: %s (must be 'up' or 'down')", direction)
	}
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations %s: %w", direction, err)
	}

	final, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("read final version: %w", err)
	}
	log.Info("Application migrations completed", "version", final, "dirty", dirty)
	return nil
}
