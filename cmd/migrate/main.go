// Command migrate applies the embedded goose SQL migrations to the database
// configured via DATABASE_DSN (or the YAML config at CONFIG_PATH).
//
// Usage:
//
//	migrate [command]
//
// Commands: up (default), down, status.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/flashstudy/backend/internal/app"
	"github.com/flashstudy/backend/internal/config"
	"github.com/flashstudy/backend/migrations"
)

func main() {
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg.Database.DSN, command); err != nil {
		logger.Error("migration failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, dsn, command string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		for _, r := range results {
			logger.Info("applied migration",
				slog.String("source", r.Source.Path),
				slog.Duration("took", r.Duration),
			)
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		logger.Info("rolled back migration", slog.String("source", result.Source.Path))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range statuses {
			logger.Info("migration status",
				slog.String("source", s.Source.Path),
				slog.String("state", string(s.State)),
			)
		}
	default:
		return fmt.Errorf("unknown command %q (want up, down, or status)", command)
	}

	return nil
}
