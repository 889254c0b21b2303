// Package reviewlog implements the append-only review history repository.
// The snapshot column is JSONB: review logs are read-only inputs for
// statistics, never joined back into scheduling decisions, so a document
// column beats eighteen scalar ones.
package reviewlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashstudy/backend/internal/adapter/postgres"
	"github.com/flashstudy/backend/internal/domain"
)

// Repo provides review-log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review-log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const logColumns = `id, card_id, user_id, rating, snapshot, prev_scheduled_days, reviewed_at, deleted_at`

const insertSQL = `
INSERT INTO review_logs (id, card_id, user_id, rating, snapshot, prev_scheduled_days, reviewed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + logColumns

const getByCardSQL = `
SELECT ` + logColumns + `
FROM review_logs
WHERE card_id = $1 AND deleted_at IS NULL
ORDER BY reviewed_at DESC
LIMIT $2 OFFSET $3`

const countByCardSQL = `
SELECT count(*) FROM review_logs
WHERE card_id = $1 AND deleted_at IS NULL`

const listByPeriodSQL = `
SELECT ` + logColumns + `
FROM review_logs
WHERE user_id = $1 AND reviewed_at >= $2 AND reviewed_at < $3 AND deleted_at IS NULL
ORDER BY reviewed_at ASC`

const countByDaySQL = `
SELECT date_trunc('day', reviewed_at AT TIME ZONE $4) AS day, count(*)
FROM review_logs
WHERE user_id = $1 AND reviewed_at >= $2 AND reviewed_at < $3 AND deleted_at IS NULL
GROUP BY day
ORDER BY day ASC`

// Create appends a review-log row. The unique key on (card_id, reviewed_at)
// makes a duplicate commit surface as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	snapshot, err := json.Marshal(log.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	reviewedAt := log.ReviewedAt.UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, insertSQL,
		log.ID, log.CardID, log.UserID, string(log.Rating),
		snapshot, log.PrevScheduledDays, reviewedAt,
	)
	created, err := scanLog(row)
	if err != nil {
		return nil, postgres.MapError(err, "review_log", log.ID)
	}

	return &created, nil
}

// GetByCardID returns a card's review history, newest first, with the total
// row count for pagination. Limit 0 falls back to 50.
func (r *Repo) GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewLog, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := querier.QueryRow(ctx, countByCardSQL, cardID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count review logs: %w", err)
	}

	rows, err := querier.Query(ctx, getByCardSQL, cardID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get review logs: %w", err)
	}
	defer rows.Close()

	logs, err := scanLogs(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("get review logs: %w", err)
	}

	return logs, total, nil
}

// ListByPeriod returns a user's reviews in [from, to), oldest first.
func (r *Repo) ListByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.ReviewLog, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByPeriodSQL, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list reviews by period: %w", err)
	}
	defer rows.Close()

	logs, err := scanLogs(rows)
	if err != nil {
		return nil, fmt.Errorf("list reviews by period: %w", err)
	}

	return logs, nil
}

// CountByDay returns per-day review counts for [from, to), bucketed in the
// given timezone. Days with no reviews are absent from the result.
func (r *Repo) CountByDay(ctx context.Context, userID uuid.UUID, from, to time.Time, tz string) ([]domain.DayReviewCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if tz == "" {
		tz = "UTC"
	}

	rows, err := querier.Query(ctx, countByDaySQL, userID, from, to, tz)
	if err != nil {
		return nil, fmt.Errorf("count reviews by day: %w", err)
	}
	defer rows.Close()

	var counts []domain.DayReviewCount
	for rows.Next() {
		var dc domain.DayReviewCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day counts: %w", err)
	}

	if counts == nil {
		counts = []domain.DayReviewCount{}
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanLog(row pgx.Row) (domain.ReviewLog, error) {
	var (
		l        domain.ReviewLog
		rating   string
		snapshot []byte
	)
	err := row.Scan(
		&l.ID, &l.CardID, &l.UserID, &rating, &snapshot,
		&l.PrevScheduledDays, &l.ReviewedAt, &l.DeletedAt,
	)
	if err != nil {
		return domain.ReviewLog{}, err
	}
	l.Rating = domain.Rating(rating)

	if err := json.Unmarshal(snapshot, &l.Snapshot); err != nil {
		return domain.ReviewLog{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return l, nil
}

func scanLogs(rows pgx.Rows) ([]domain.ReviewLog, error) {
	var logs []domain.ReviewLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if logs == nil {
		logs = []domain.ReviewLog{}
	}

	return logs, nil
}
