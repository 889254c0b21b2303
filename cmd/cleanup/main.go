// Command cleanup physically removes soft-deleted cards and decks older
// than the configured retention period. Review logs of purged cards go with
// them. It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/adapter/postgres/card"
	"github.com/flashstudy/backend/internal/adapter/postgres/deck"
	"github.com/flashstudy/backend/internal/app"
	"github.com/flashstudy/backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	cardRepo := card.New(pool)
	deckRepo := deck.New(pool)

	threshold := time.Now().AddDate(0, 0, -cfg.Cleanup.HardDeleteRetentionDays)

	// Cards go first so emptied decks qualify for the deck purge.
	cardsDeleted, err := cardRepo.HardDeleteOld(ctx, threshold)
	if err != nil {
		logger.Error("hard delete cards failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	decksDeleted, err := deckRepo.HardDeleteOld(ctx, threshold)
	if err != nil {
		logger.Error("hard delete decks failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("hard delete completed",
		slog.Int64("cards_deleted", cardsDeleted),
		slog.Int64("decks_deleted", decksDeleted),
		slog.Time("threshold", threshold),
	)
}
