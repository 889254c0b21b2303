package collection

import (
	"context"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

var (
	_ deckRepo  = &deckRepoMock{}
	_ cardRepo  = &cardRepoMock{}
	_ txManager = &txManagerMock{}
)

type deckRepoMock struct {
	CreateFunc     func(ctx context.Context, userID uuid.UUID, name string) (domain.Deck, error)
	GetByIDFunc    func(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)
	SoftDeleteFunc func(ctx context.Context, userID, deckID uuid.UUID) error
}

func (mock *deckRepoMock) Create(ctx context.Context, userID uuid.UUID, name string) (domain.Deck, error) {
	if mock.CreateFunc == nil {
		panic("deckRepoMock.CreateFunc: method is nil but deckRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, userID, name)
}

func (mock *deckRepoMock) GetByID(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error) {
	if mock.GetByIDFunc == nil {
		panic("deckRepoMock.GetByIDFunc: method is nil but deckRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, userID, deckID)
}

func (mock *deckRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	if mock.ListByUserFunc == nil {
		panic("deckRepoMock.ListByUserFunc: method is nil but deckRepo.ListByUser was just called")
	}
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *deckRepoMock) SoftDelete(ctx context.Context, userID, deckID uuid.UUID) error {
	if mock.SoftDeleteFunc == nil {
		panic("deckRepoMock.SoftDeleteFunc: method is nil but deckRepo.SoftDelete was just called")
	}
	return mock.SoftDeleteFunc(ctx, userID, deckID)
}

type cardRepoMock struct {
	CreateFunc           func(ctx context.Context, userID, deckID uuid.UUID, prompt, answer string) (domain.Card, error)
	SoftDeleteFunc       func(ctx context.Context, userID, cardID uuid.UUID) error
	SoftDeleteByDeckFunc func(ctx context.Context, userID, deckID uuid.UUID) (int, error)
}

func (mock *cardRepoMock) Create(ctx context.Context, userID, deckID uuid.UUID, prompt, answer string) (domain.Card, error) {
	if mock.CreateFunc == nil {
		panic("cardRepoMock.CreateFunc: method is nil but cardRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, userID, deckID, prompt, answer)
}

func (mock *cardRepoMock) SoftDelete(ctx context.Context, userID, cardID uuid.UUID) error {
	if mock.SoftDeleteFunc == nil {
		panic("cardRepoMock.SoftDeleteFunc: method is nil but cardRepo.SoftDelete was just called")
	}
	return mock.SoftDeleteFunc(ctx, userID, cardID)
}

func (mock *cardRepoMock) SoftDeleteByDeck(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	if mock.SoftDeleteByDeckFunc == nil {
		panic("cardRepoMock.SoftDeleteByDeckFunc: method is nil but cardRepo.SoftDeleteByDeck was just called")
	}
	return mock.SoftDeleteByDeckFunc(ctx, userID, deckID)
}

// txManagerMock runs the function inline, no transaction semantics.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		return fn(ctx)
	}
	return mock.RunInTxFunc(ctx, fn)
}
