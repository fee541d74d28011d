package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/internal/domain/repository"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// ByUser joins the user's payments with their owning projects through
// contributions, oldest first, for the refund filter to narrow down.
func (r *PaymentRepository) ByUser(ctx context.Context, userID string) ([]entity.PaymentWithProject, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.contribution_id, c.project_id, p.state, p.gateway,
		       p.payment_method, p.paid_at,
		       pr.id, pr.user_id, pr.state
		FROM payments p
		JOIN contributions c ON c.id = p.contribution_id
		JOIN projects pr ON pr.id = c.project_id
		WHERE c.user_id = $1
		ORDER BY p.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.PaymentWithProject
	for rows.Next() {
		var pp entity.PaymentWithProject
		if err := rows.Scan(
			&pp.Payment.ID, &pp.Payment.ContributionID, &pp.Payment.ProjectID,
			&pp.Payment.State, &pp.Payment.Gateway, &pp.Payment.PaymentMethod,
			&pp.Payment.PaidAt,
			&pp.Project.ID, &pp.Project.UserID, &pp.Project.State,
		); err != nil {
			return nil, err
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
