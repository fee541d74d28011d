package entity

import "time"

// Payment states and methods consumed by the refund filter.
const (
	PaymentStatePaid    = "paid"
	PaymentBoletoMethod = "BoletoBancario"

	ProjectStateFailed = "failed"
	ProjectStateOnline = "online"
)

// Contribution is a user's pledge to a project. Only the fields the account
// core consumes are modeled; the record itself is owned by the storage layer.
type Contribution struct {
	ID           string
	UserID       string
	ProjectID    string
	WasConfirmed bool
	Anonymous    bool
}

// Payment belongs to a contribution and carries gateway details.
type Payment struct {
	ID             string
	ContributionID string
	ProjectID      string
	State          string
	Gateway        string
	PaymentMethod  string
	PaidAt         *time.Time
}

// Project is referenced by contributions and payments; the account core only
// reads its state.
type Project struct {
	ID     string
	UserID string
	State  string
}

// PaymentWithProject pairs a payment with its owning project for refund
// initiation downstream.
type PaymentWithProject struct {
	Payment Payment
	Project Project
}

// Unsubscribe records an opt-out from project post notifications.
// A nil ProjectID is a global opt-out.
type Unsubscribe struct {
	ID        string
	UserID    string
	ProjectID *string
}

// Global reports whether the opt-out applies to all projects.
func (u Unsubscribe) Global() bool { return u.ProjectID == nil }
