package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pharmacy-payments/internal/config"
	"github.com/anyulbade/pharmacy-payments/internal/database"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "Path to migrations directory")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	database.MigrationsDir = "file://" + migrationsPath

	switch args[0] {
	case "up":
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("migrate up failed")
		}
	case "down":
		if err := database.RollbackMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("migrate down failed")
		}
	case "seed":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.SeedRegionalDefaults(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [-path dir] <command>

Commands:
  up    apply all pending migrations
  down  roll back every migration
  seed  insert the per-country regional defaults

Connection settings come from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE.
`)
}
