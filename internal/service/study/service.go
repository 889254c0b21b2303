// Package study implements the spaced-repetition scheduling engine: the
// candidate selector that orders cards for a session, the session queue
// that stays consistent as the learner answers one card at a time, and the
// review recorder that commits each outcome.
package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error)
	ListLearning(ctx context.Context, userID, deckID uuid.UUID, dueBefore time.Time) ([]domain.Card, error)
	ListReviewDue(ctx context.Context, userID, deckID uuid.UUID, now time.Time) ([]domain.Card, error)
	ListNew(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]domain.Card, error)
	UpdateSRS(ctx context.Context, userID, cardID uuid.UUID, params domain.SRSUpdateParams) (domain.Card, error)
}

type reviewLogRepo interface {
	Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewLog, int, error)
}

type deckRepo interface {
	GetByID(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// scheduler is the external Scheduler capability: a pure transformation of
// one card's memory state in response to one rating, plus a preview mode.
type scheduler interface {
	Commit(card domain.Card, rating domain.Rating, now time.Time) (domain.SRSUpdateParams, error)
	Preview(card domain.Card, now time.Time) (domain.SchedulePreview, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the scheduling engine's business logic.
type Service struct {
	cards   cardRepo
	reviews reviewLogRepo
	decks   deckRepo
	tx      txManager
	sched   scheduler
	log     *slog.Logger
	cfg     domain.SRSConfig
}

// NewService creates a new study service.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	reviews reviewLogRepo,
	decks deckRepo,
	tx txManager,
	sched scheduler,
	cfg domain.SRSConfig,
) (*Service, error) {
	if sched == nil {
		return nil, fmt.Errorf("study: scheduler capability is required")
	}
	if cfg.NewCardsPerSession <= 0 {
		cfg.NewCardsPerSession = DefaultMaxNew
	}

	return &Service{
		cards:   cards,
		reviews: reviews,
		decks:   decks,
		tx:      tx,
		sched:   sched,
		log:     log.With("service", "study"),
		cfg:     cfg,
	}, nil
}

// CardHistory returns the review log of one card, newest first, with
// limit/offset pagination. The card must exist and belong to the user.
// Review-log rows are read-only inputs for downstream statistics.
func (s *Service) CardHistory(ctx context.Context, input HistoryInput) ([]domain.ReviewLog, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	card, err := s.cards.GetByID(ctx, input.UserID, input.CardID)
	if err != nil {
		return nil, 0, fmt.Errorf("get card: %w", err)
	}

	logs, total, err := s.reviews.GetByCardID(ctx, card.ID, input.Limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get review logs: %w", err)
	}

	return logs, total, nil
}
