package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/internal/domain/repository"
)

type UnsubscribeRepository struct {
	pool *pgxpool.Pool
}

func NewUnsubscribeRepository(pool *pgxpool.Pool) *UnsubscribeRepository {
	return &UnsubscribeRepository{pool: pool}
}

func (r *UnsubscribeRepository) ByUser(ctx context.Context, userID string) ([]entity.Unsubscribe, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_id FROM unsubscribes WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Unsubscribe
	for rows.Next() {
		var u entity.Unsubscribe
		if err := rows.Scan(&u.ID, &u.UserID, &u.ProjectID); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnsubscribeRepository) Exists(ctx context.Context, userID string, projectID *string) (bool, error) {
	var exists bool
	var err error
	if projectID == nil {
		err = r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM unsubscribes WHERE user_id = $1 AND project_id IS NULL)
		`, userID).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM unsubscribes WHERE user_id = $1 AND project_id = $2)
		`, userID, *projectID).Scan(&exists)
	}
	return exists, err
}

func (r *UnsubscribeRepository) Create(ctx context.Context, userID string, projectID *string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO unsubscribes (user_id, project_id) VALUES ($1, $2)
	`, userID, projectID)
	return err
}

var _ repository.UnsubscribeRepository = (*UnsubscribeRepository)(nil)
