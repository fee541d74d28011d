package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/internal/domain/repository"
)

var errNotFound = errors.New("not found")

const userColumns = `
	id, email, password_hash, name, public_name, permalink, document,
	account_type, zero_credits, subscribed_to_project_posts, admin,
	confirmed_email_at, deactivated_at, banned_at, reactivate_token,
	reset_token_digest, reset_token_sent_at, sign_in_count, last_sign_in_at,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var permalink, reactivateToken, resetDigest *string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.PublicName, &permalink, &u.Document,
		&u.AccountType, &u.ZeroCredits, &u.SubscribedToProjectPosts, &u.Admin,
		&u.ConfirmedEmailAt, &u.DeactivatedAt, &u.BannedAt, &reactivateToken,
		&resetDigest, &u.ResetTokenSentAt, &u.SignInCount, &u.LastSignInAt,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	if permalink != nil {
		u.Permalink = *permalink
	}
	if reactivateToken != nil {
		u.ReactivateToken = *reactivateToken
	}
	if resetDigest != nil {
		u.ResetTokenDigest = *resetDigest
	}
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			email, password_hash, name, public_name, permalink, document,
			account_type, zero_credits, subscribed_to_project_posts, admin,
			confirmed_email_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.PublicName, nullable(u.Permalink), u.Document,
		u.AccountType, u.ZeroCredits, u.SubscribedToProjectPosts, u.Admin,
		u.ConfirmedEmailAt)
	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetActiveByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1 AND deactivated_at IS NULL`, id))
}

func (r *UserRepository) GetByResetDigest(ctx context.Context, digest string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE reset_token_digest = $1`, digest))
}

func (r *UserRepository) GetByReactivateToken(ctx context.Context, token string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE reactivate_token = $1`, token))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, public_name = $3, permalink = $4, document = $5,
		    account_type = $6, zero_credits = $7, subscribed_to_project_posts = $8,
		    deactivated_at = $9, banned_at = $10, reactivate_token = $11,
		    updated_at = $12
		WHERE id = $13
	`, u.Email, u.Name, u.PublicName, nullable(u.Permalink), u.Document,
		u.AccountType, u.ZeroCredits, u.SubscribedToProjectPosts,
		u.DeactivatedAt, u.BannedAt, nullable(u.ReactivateToken),
		u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// SaveResetToken writes digest and issued-at in one statement; the row-level
// write lock gives concurrent verifies for the same user a serial order.
func (r *UserRepository) SaveResetToken(ctx context.Context, id, digest string, sentAt *time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_token_digest = $1, reset_token_sent_at = $2, updated_at = now()
		WHERE id = $3
	`, nullable(digest), sentAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)
	`, email, excludeID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) PermalinkTaken(ctx context.Context, permalink, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE permalink = $1 AND id <> $2)
	`, permalink, excludeID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) RecordSignIn(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET sign_in_count = sign_in_count + 1, last_sign_in_at = now() WHERE id = $1
	`, id)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
