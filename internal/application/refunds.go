package application

import (
	"github.com/colabore/colabore-api/internal/domain/entity"
)

// RefundQueuedFunc reports whether a payment is already waiting in the
// external refund queue. Queue state is owned by the refund processor, so it
// is injected as a predicate rather than queried here.
type RefundQueuedFunc func(entity.Payment) bool

// RefundFilter selects payments eligible for manual refund after a project
// fails. Gateway names the boleto-capable gateway the platform refunds by
// hand.
type RefundFilter struct {
	Gateway string
}

func NewRefundFilter(gateway string) *RefundFilter {
	return &RefundFilter{Gateway: gateway}
}

// PendingRefunds keeps paid boleto payments of the configured gateway whose
// project failed, minus those the predicate reports as already queued. Input
// order is preserved; the filter performs no I/O.
func (f *RefundFilter) PendingRefunds(payments []entity.PaymentWithProject, alreadyQueued RefundQueuedFunc) []entity.PaymentWithProject {
	out := make([]entity.PaymentWithProject, 0, len(payments))
	for _, pp := range payments {
		p := pp.Payment
		if p.State != entity.PaymentStatePaid ||
			p.Gateway != f.Gateway ||
			p.PaymentMethod != entity.PaymentBoletoMethod ||
			pp.Project.State != entity.ProjectStateFailed {
			continue
		}
		if alreadyQueued != nil && alreadyQueued(p) {
			continue
		}
		out = append(out, pp)
	}
	return out
}

// PendingRefundProjects returns the owning project of each pending refund,
// in the same order.
func (f *RefundFilter) PendingRefundProjects(payments []entity.PaymentWithProject, alreadyQueued RefundQueuedFunc) []entity.Project {
	pending := f.PendingRefunds(payments, alreadyQueued)
	projects := make([]entity.Project, 0, len(pending))
	for _, pp := range pending {
		projects = append(projects, pp.Project)
	}
	return projects
}
