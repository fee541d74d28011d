package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/internal/domain/repository"
)

type ContributionRepository struct {
	pool *pgxpool.Pool
}

func NewContributionRepository(pool *pgxpool.Pool) *ContributionRepository {
	return &ContributionRepository{pool: pool}
}

func (r *ContributionRepository) ConfirmedByUser(ctx context.Context, userID string) ([]entity.Contribution, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_id, was_confirmed, anonymous
		FROM contributions
		WHERE user_id = $1 AND was_confirmed
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Contribution
	for rows.Next() {
		var c entity.Contribution
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProjectID, &c.WasConfirmed, &c.Anonymous); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContributionRepository) HasConfirmedForProject(ctx context.Context, userID, projectID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM contributions
			WHERE user_id = $1 AND project_id = $2 AND was_confirmed
		)
	`, userID, projectID).Scan(&exists)
	return exists, err
}

func (r *ContributionRepository) CountConfirmedProjects(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT project_id) FROM contributions
		WHERE user_id = $1 AND was_confirmed
	`, userID).Scan(&n)
	return n, err
}

func (r *ContributionRepository) AnonymizeByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE contributions SET anonymous = true WHERE user_id = $1
	`, userID)
	return err
}

var _ repository.ContributionRepository = (*ContributionRepository)(nil)
