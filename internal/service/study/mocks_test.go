package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flashstudy/backend/internal/domain"
)

var (
	_ cardRepo      = &cardRepoMock{}
	_ reviewLogRepo = &reviewLogRepoMock{}
	_ deckRepo      = &deckRepoMock{}
	_ txManager     = &txManagerMock{}
	_ scheduler     = &schedulerMock{}
)

type cardRepoMock struct {
	GetByIDFunc       func(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error)
	ListLearningFunc  func(ctx context.Context, userID, deckID uuid.UUID, dueBefore time.Time) ([]domain.Card, error)
	ListReviewDueFunc func(ctx context.Context, userID, deckID uuid.UUID, now time.Time) ([]domain.Card, error)
	ListNewFunc       func(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]domain.Card, error)
	UpdateSRSFunc     func(ctx context.Context, userID, cardID uuid.UUID, params domain.SRSUpdateParams) (domain.Card, error)

	mu             sync.Mutex
	updateSRSCalls []struct {
		CardID uuid.UUID
		Params domain.SRSUpdateParams
	}
}

func (mock *cardRepoMock) GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error) {
	if mock.GetByIDFunc == nil {
		panic("cardRepoMock.GetByIDFunc: method is nil but cardRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, userID, cardID)
}

func (mock *cardRepoMock) ListLearning(ctx context.Context, userID, deckID uuid.UUID, dueBefore time.Time) ([]domain.Card, error) {
	if mock.ListLearningFunc == nil {
		panic("cardRepoMock.ListLearningFunc: method is nil but cardRepo.ListLearning was just called")
	}
	return mock.ListLearningFunc(ctx, userID, deckID, dueBefore)
}

func (mock *cardRepoMock) ListReviewDue(ctx context.Context, userID, deckID uuid.UUID, now time.Time) ([]domain.Card, error) {
	if mock.ListReviewDueFunc == nil {
		panic("cardRepoMock.ListReviewDueFunc: method is nil but cardRepo.ListReviewDue was just called")
	}
	return mock.ListReviewDueFunc(ctx, userID, deckID, now)
}

func (mock *cardRepoMock) ListNew(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]domain.Card, error) {
	if mock.ListNewFunc == nil {
		panic("cardRepoMock.ListNewFunc: method is nil but cardRepo.ListNew was just called")
	}
	return mock.ListNewFunc(ctx, userID, deckID, limit)
}

func (mock *cardRepoMock) UpdateSRS(ctx context.Context, userID, cardID uuid.UUID, params domain.SRSUpdateParams) (domain.Card, error) {
	if mock.UpdateSRSFunc == nil {
		panic("cardRepoMock.UpdateSRSFunc: method is nil but cardRepo.UpdateSRS was just called")
	}
	mock.mu.Lock()
	mock.updateSRSCalls = append(mock.updateSRSCalls, struct {
		CardID uuid.UUID
		Params domain.SRSUpdateParams
	}{CardID: cardID, Params: params})
	mock.mu.Unlock()
	return mock.UpdateSRSFunc(ctx, userID, cardID, params)
}

func (mock *cardRepoMock) UpdateSRSCalls() []struct {
	CardID uuid.UUID
	Params domain.SRSUpdateParams
} {
	mock.mu.Lock()
	calls := mock.updateSRSCalls
	mock.mu.Unlock()
	return calls
}

type reviewLogRepoMock struct {
	CreateFunc      func(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	GetByCardIDFunc func(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewLog, int, error)

	mu          sync.Mutex
	createCalls []domain.ReviewLog
}

func (mock *reviewLogRepoMock) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	if mock.CreateFunc == nil {
		panic("reviewLogRepoMock.CreateFunc: method is nil but reviewLogRepo.Create was just called")
	}
	mock.mu.Lock()
	mock.createCalls = append(mock.createCalls, *log)
	mock.mu.Unlock()
	return mock.CreateFunc(ctx, log)
}

func (mock *reviewLogRepoMock) CreateCalls() []domain.ReviewLog {
	mock.mu.Lock()
	calls := mock.createCalls
	mock.mu.Unlock()
	return calls
}

func (mock *reviewLogRepoMock) GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewLog, int, error) {
	if mock.GetByCardIDFunc == nil {
		panic("reviewLogRepoMock.GetByCardIDFunc: method is nil but reviewLogRepo.GetByCardID was just called")
	}
	return mock.GetByCardIDFunc(ctx, cardID, limit, offset)
}

type deckRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error)
}

func (mock *deckRepoMock) GetByID(ctx context.Context, userID, deckID uuid.UUID) (domain.Deck, error) {
	if mock.GetByIDFunc == nil {
		panic("deckRepoMock.GetByIDFunc: method is nil but deckRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, userID, deckID)
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

type schedulerMock struct {
	CommitFunc  func(card domain.Card, rating domain.Rating, now time.Time) (domain.SRSUpdateParams, error)
	PreviewFunc func(card domain.Card, now time.Time) (domain.SchedulePreview, error)

	mu          sync.Mutex
	commitCalls []struct {
		CardID uuid.UUID
		Rating domain.Rating
	}
}

func (mock *schedulerMock) Commit(card domain.Card, rating domain.Rating, now time.Time) (domain.SRSUpdateParams, error) {
	if mock.CommitFunc == nil {
		panic("schedulerMock.CommitFunc: method is nil but scheduler.Commit was just called")
	}
	mock.mu.Lock()
	mock.commitCalls = append(mock.commitCalls, struct {
		CardID uuid.UUID
		Rating domain.Rating
	}{CardID: card.ID, Rating: rating})
	mock.mu.Unlock()
	return mock.CommitFunc(card, rating, now)
}

func (mock *schedulerMock) CommitCalls() []struct {
	CardID uuid.UUID
	Rating domain.Rating
} {
	mock.mu.Lock()
	calls := mock.commitCalls
	mock.mu.Unlock()
	return calls
}

func (mock *schedulerMock) Preview(card domain.Card, now time.Time) (domain.SchedulePreview, error) {
	if mock.PreviewFunc == nil {
		panic("schedulerMock.PreviewFunc: method is nil but scheduler.Preview was just called")
	}
	return mock.PreviewFunc(card, now)
}
