package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/internal/domain/repository"
)

// Published states mirror the platform's project lifecycle: anything that has
// been visible to backers counts as published.
var publishedStates = []string{"online", "waiting_funds", "successful", "failed"}

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) ByUser(ctx context.Context, userID string) ([]entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, state FROM projects
		WHERE user_id = $1 AND state <> 'deleted'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.State); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE user_id = $1 AND state <> 'deleted'
	`, userID).Scan(&n)
	return n, err
}

func (r *ProjectRepository) CountPublishedByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE user_id = $1 AND state = ANY($2)
	`, userID, publishedStates).Scan(&n)
	return n, err
}

func (r *ProjectRepository) HasWithState(ctx context.Context, userID, state string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM projects WHERE user_id = $1 AND state = $2)
	`, userID, state).Scan(&exists)
	return exists, err
}

func (r *ProjectRepository) HasPublishedByUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM projects WHERE user_id = $1 AND state = ANY($2))
	`, userID, publishedStates).Scan(&exists)
	return exists, err
}

func (r *ProjectRepository) HasPostsByUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_posts pp
			JOIN projects p ON p.id = pp.project_id
			WHERE p.user_id = $1
		)
	`, userID).Scan(&exists)
	return exists, err
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
