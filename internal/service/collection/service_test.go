package collection

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

func TestService_CreateDeck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	decks := &deckRepoMock{
		CreateFunc: func(ctx context.Context, u uuid.UUID, name string) (domain.Deck, error) {
			if name != "Kanji N5" {
				t.Errorf("name = %q, want trimmed %q", name, "Kanji N5")
			}
			return domain.Deck{ID: uuid.New(), UserID: u, Name: name}, nil
		},
	}
	svc := NewService(slog.Default(), decks, &cardRepoMock{}, &txManagerMock{})

	deck, err := svc.CreateDeck(ctx, userID, "  Kanji N5  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deck.Name != "Kanji N5" {
		t.Errorf("Name = %q, want %q", deck.Name, "Kanji N5")
	}
}

func TestService_CreateDeck_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &deckRepoMock{}, &cardRepoMock{}, &txManagerMock{})

	if _, err := svc.CreateDeck(context.Background(), uuid.New(), "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateDeck(context.Background(), uuid.Nil, "ok"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nil user: err = %v, want ErrValidation", err)
	}
}

func TestService_DeleteDeck_CascadesInTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	var inTx, deckDeleted, cardsDeleted bool
	tx := &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			inTx = true
			return fn(ctx)
		},
	}
	decks := &deckRepoMock{
		SoftDeleteFunc: func(ctx context.Context, u, d uuid.UUID) error {
			deckDeleted = true
			return nil
		},
	}
	cards := &cardRepoMock{
		SoftDeleteByDeckFunc: func(ctx context.Context, u, d uuid.UUID) (int, error) {
			cardsDeleted = true
			return 3, nil
		},
	}
	svc := NewService(slog.Default(), decks, cards, tx)

	if err := svc.DeleteDeck(ctx, userID, deckID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inTx || !deckDeleted || !cardsDeleted {
		t.Errorf("cascade incomplete: inTx=%v deck=%v cards=%v", inTx, deckDeleted, cardsDeleted)
	}
}

func TestService_DeleteDeck_UnknownDeck(t *testing.T) {
	t.Parallel()

	decks := &deckRepoMock{
		SoftDeleteFunc: func(ctx context.Context, u, d uuid.UUID) error {
			return domain.ErrNotFound
		},
	}
	cards := &cardRepoMock{
		SoftDeleteByDeckFunc: func(ctx context.Context, u, d uuid.UUID) (int, error) {
			t.Error("cascade must not run when the deck delete fails")
			return 0, nil
		},
	}
	svc := NewService(slog.Default(), decks, cards, &txManagerMock{})

	err := svc.DeleteDeck(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_CreateCard_ChecksDeckOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID, deckID := uuid.New(), uuid.New()

	decks := &deckRepoMock{
		GetByIDFunc: func(ctx context.Context, u, d uuid.UUID) (domain.Deck, error) {
			if u != userID || d != deckID {
				return domain.Deck{}, domain.ErrNotFound
			}
			return domain.Deck{ID: deckID, UserID: userID}, nil
		},
	}
	cards := &cardRepoMock{
		CreateFunc: func(ctx context.Context, u, d uuid.UUID, prompt, answer string) (domain.Card, error) {
			return domain.Card{ID: uuid.New(), UserID: u, DeckID: d,
				Prompt: prompt, Answer: answer, State: domain.CardStateNew}, nil
		},
	}
	svc := NewService(slog.Default(), decks, cards, &txManagerMock{})

	card, err := svc.CreateCard(ctx, userID, deckID, "chat", "cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.State != domain.CardStateNew {
		t.Errorf("State = %s, want NEW", card.State)
	}

	_, err = svc.CreateCard(ctx, uuid.New(), deckID, "chat", "cat")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign deck: err = %v, want ErrNotFound", err)
	}
}

func TestService_CreateCard_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &deckRepoMock{}, &cardRepoMock{}, &txManagerMock{})

	_, err := svc.CreateCard(context.Background(), uuid.New(), uuid.New(), "", "cat")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty prompt: err = %v, want ErrValidation", err)
	}
}

func TestService_DeleteCard(t *testing.T) {
	t.Parallel()

	called := false
	cards := &cardRepoMock{
		SoftDeleteFunc: func(ctx context.Context, u, c uuid.UUID) error {
			called = true
			return nil
		},
	}
	svc := NewService(slog.Default(), &deckRepoMock{}, cards, &txManagerMock{})

	if err := svc.DeleteCard(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected card repo SoftDelete to be called")
	}
}
