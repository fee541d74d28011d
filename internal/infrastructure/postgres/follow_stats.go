package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/repository"
)

// FollowStats counts follow relations for the analytics export. Self-follows
// are excluded from the followers count.
type FollowStats struct {
	pool *pgxpool.Pool
}

func NewFollowStats(pool *pgxpool.Pool) *FollowStats {
	return &FollowStats{pool: pool}
}

func (s *FollowStats) FollowsCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_follows WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

func (s *FollowStats) FollowersCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_follows WHERE follow_id = $1 AND user_id <> $1
	`, userID).Scan(&n)
	return n, err
}

var _ repository.FollowStats = (*FollowStats)(nil)
