// Package collection implements deck and card management: the write paths
// that feed the scheduling engine. Review-driven memory-state mutation stays
// in the study service; this package only creates and retires material.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

type deckRepo interface {
	Create(ctx context.Context, userID uuid.UUID, name string) (domain.Deck, error)
	GetByID(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)
	SoftDelete(ctx context.Context, userID, deckID uuid.UUID) error
}

type cardRepo interface {
	Create(ctx context.Context, userID, deckID uuid.UUID, prompt, answer string) (domain.Card, error)
	SoftDelete(ctx context.Context, userID, cardID uuid.UUID) error
	SoftDeleteByDeck(ctx context.Context, userID, deckID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements collection management.
type Service struct {
	decks deckRepo
	cards cardRepo
	tx    txManager
	log   *slog.Logger
}

// NewService creates a new collection service.
func NewService(log *slog.Logger, decks deckRepo, cards cardRepo, tx txManager) *Service {
	return &Service{
		decks: decks,
		cards: cards,
		tx:    tx,
		log:   log.With("service", "collection"),
	}
}

const maxNameLen = 200

// CreateDeck creates an empty deck.
func (s *Service) CreateDeck(ctx context.Context, userID uuid.UUID, name string) (domain.Deck, error) {
	name = strings.TrimSpace(name)

	var errs []domain.FieldError
	if userID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be at most 200 characters"})
	}
	if len(errs) > 0 {
		return domain.Deck{}, domain.NewValidationErrors(errs)
	}

	deck, err := s.decks.Create(ctx, userID, name)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("create deck: %w", err)
	}

	s.log.InfoContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()),
	)

	return deck, nil
}

// ListDecks returns all live decks of a user.
func (s *Service) ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "required")
	}

	decks, err := s.decks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}

	return decks, nil
}

// DeleteDeck soft-deletes a deck and all its cards in one transaction.
// Review logs stay untouched: history outlives the material.
func (s *Service) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if userID == uuid.Nil || deckID == uuid.Nil {
		return domain.NewValidationError("deck_id", "user_id and deck_id are required")
	}

	var cascaded int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.decks.SoftDelete(ctx, userID, deckID); err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}

		n, err := s.cards.SoftDeleteByDeck(ctx, userID, deckID)
		if err != nil {
			return fmt.Errorf("delete deck cards: %w", err)
		}
		cascaded = n
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.Int("cards_cascaded", cascaded),
	)

	return nil
}

// CreateCard adds a card in state New to an existing deck owned by the user.
func (s *Service) CreateCard(ctx context.Context, userID, deckID uuid.UUID, prompt, answer string) (domain.Card, error) {
	prompt = strings.TrimSpace(prompt)
	answer = strings.TrimSpace(answer)

	var errs []domain.FieldError
	if userID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if deckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	if prompt == "" {
		errs = append(errs, domain.FieldError{Field: "prompt", Message: "required"})
	}
	if answer == "" {
		errs = append(errs, domain.FieldError{Field: "answer", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.Card{}, domain.NewValidationErrors(errs)
	}

	// Ownership check before insert: a foreign deck id must read as not
	// found, not as an FK surprise.
	if _, err := s.decks.GetByID(ctx, userID, deckID); err != nil {
		return domain.Card{}, fmt.Errorf("get deck: %w", err)
	}

	card, err := s.cards.Create(ctx, userID, deckID, prompt, answer)
	if err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}

	return card, nil
}

// DeleteCard soft-deletes a single card.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if userID == uuid.Nil || cardID == uuid.Nil {
		return domain.NewValidationError("card_id", "user_id and card_id are required")
	}

	if err := s.cards.SoftDelete(ctx, userID, cardID); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	return nil
}
