package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"bookly/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		logger.Fatal().Msg("usage: migrate <up|down|version>")
	}

	postgresURL := os.Getenv("DATABASE_URL")
	if postgresURL == "" {
		// Fall back to the same DB_* variables the API server reads.
		dbCfg := config.DatabaseFromEnv()
		postgresURL = dbCfg.ConnectionString()
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "file://migrations"
	}

	m, err := migrate.New(migrationsPath, postgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create migrate instance")
	}
	defer func() { _, _ = m.Close() }()

	command := args[0]

	switch command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no pending migrations")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("migration up failed")
		}
		logger.Info().Msg("migrations applied successfully")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no migrations to rollback")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("migration down failed")
		}
		logger.Info().Msg("migration rolled back successfully")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info().Msg("no migrations applied yet")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to get version")
		}
		logger.Info().
			Uint("version", version).
			Bool("dirty", dirty).
			Msg("current migration version")

	default:
		logger.Fatal().Msg(fmt.Sprintf("unknown command: %s", command))
	}
}
