package subscription

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed Store. The upsert is a single
// INSERT ... ON CONFLICT statement, which makes concurrent writes for the
// same user atomic at the database level.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a Store backed by the given connection pool.
// Panics on nil pool to fail fast during initialization.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	if pool == nil {
		panic("subscription: pgxpool is required")
	}
	return &PgStore{pool: pool}
}

func (s *PgStore) Get(ctx context.Context, userID string) (*Record, error) {
	const query = `
		SELECT user_id, status, plan, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1`

	var record Record
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Status,
		&record.Plan,
		&record.CurrentPeriodEnd,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &record, nil
}

func (s *PgStore) Upsert(ctx context.Context, record *Record) error {
	const query = `
		INSERT INTO subscriptions (user_id, status, plan, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			plan = EXCLUDED.plan,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = now()`

	_, err := s.pool.Exec(ctx, query,
		record.UserID,
		record.Status,
		record.Plan,
		record.CurrentPeriodEnd,
	)
	return err
}
