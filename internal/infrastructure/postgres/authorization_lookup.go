package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/application"
)

// AuthorizationLookup answers third-party sign-in questions from the
// authorizations table. The OAuth flow itself lives outside this service.
type AuthorizationLookup struct {
	pool *pgxpool.Pool
}

func NewAuthorizationLookup(pool *pgxpool.Pool) *AuthorizationLookup {
	return &AuthorizationLookup{pool: pool}
}

func (l *AuthorizationLookup) HasFacebookAuth(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := l.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM authorizations WHERE user_id = $1 AND provider = 'facebook')
	`, userID).Scan(&exists)
	return exists, err
}

var _ application.ExternalAuthLookup = (*AuthorizationLookup)(nil)
