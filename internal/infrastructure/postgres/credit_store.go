package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/repository"
)

// CreditStore reads the user_credits ledger. A user without a row simply has
// no credits.
type CreditStore struct {
	pool *pgxpool.Pool
}

func NewCreditStore(pool *pgxpool.Pool) *CreditStore {
	return &CreditStore{pool: pool}
}

// BalanceCents scales the numeric(12,2) column to cents in SQL. Doing the
// arithmetic in Postgres keeps the amount exact; a float64 round trip drops a
// cent on balances like 4.35.
func (s *CreditStore) BalanceCents(ctx context.Context, userID string) (int64, error) {
	var cents int64
	err := s.pool.QueryRow(ctx, `
		SELECT (credits * 100)::bigint FROM user_credits WHERE user_id = $1
	`, userID).Scan(&cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return cents, err
}

var _ repository.CreditStore = (*CreditStore)(nil)
