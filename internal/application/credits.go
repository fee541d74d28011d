package application

import (
	"context"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
)

// CreditLedger derives the spendable credit balance for a user.
type CreditLedger struct {
	Credits repo.CreditStore
}

func NewCreditLedger(credits repo.CreditStore) *CreditLedger {
	return &CreditLedger{Credits: credits}
}

// AvailableCredits returns the balance in minor currency units (cents). The
// zero-credits override wins unconditionally; otherwise the store resolves
// the cent amount. A user without a ledger row has a balance of zero.
func (l *CreditLedger) AvailableCredits(ctx context.Context, u *entity.User) (int64, error) {
	if u.ZeroCredits {
		return 0, nil
	}
	return l.Credits.BalanceCents(ctx, u.ID)
}
