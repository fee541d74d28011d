package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
	"github.com/colabore/colabore-api/pkg/helpers"
)

// InactiveReason explains why an account cannot authenticate.
type InactiveReason string

const (
	ReasonNone   InactiveReason = ""
	ReasonBanned InactiveReason = "banned"
	ReasonLocked InactiveReason = "locked"
)

// Notifier dispatches outbound account notifications. Delivery itself is an
// external collaborator (queue plus worker); failures are logged, not fatal.
type Notifier interface {
	UserDeactivated(ctx context.Context, u *entity.User) error
	PasswordReset(ctx context.Context, u *entity.User, resetLink string) error
}

// BaseAuthPolicy is the authentication framework's own activity check,
// composed with the lifecycle's ban/deactivation rules.
type BaseAuthPolicy interface {
	Active(u *entity.User) bool
	InactiveReason(u *entity.User) InactiveReason
}

// ConfirmedEmailPolicy is the default base policy: an account is active for
// authentication once its email address has been confirmed.
type ConfirmedEmailPolicy struct{}

func (ConfirmedEmailPolicy) Active(u *entity.User) bool { return u.ConfirmedEmailAt != nil }

func (p ConfirmedEmailPolicy) InactiveReason(u *entity.User) InactiveReason {
	if !p.Active(u) || u.Deactivated() {
		return ReasonLocked
	}
	return ReasonNone
}

// Lifecycle governs active/deactivated/banned transitions. Deactivation and a
// ban are independent: a user may be both.
type Lifecycle struct {
	Users         repo.UserRepository
	Contributions repo.ContributionRepository
	Notifier      Notifier
	Base          BaseAuthPolicy
	Logger        *logrus.Logger
}

func NewLifecycle(users repo.UserRepository, contribs repo.ContributionRepository, notifier Notifier, base BaseAuthPolicy, logger *logrus.Logger) *Lifecycle {
	if base == nil {
		base = ConfirmedEmailPolicy{}
	}
	return &Lifecycle{Users: users, Contributions: contribs, Notifier: notifier, Base: base, Logger: logger}
}

// Deactivate stamps the account as deactivated, rotates the reactivation
// token (a fresh value on every call, including repeated ones), anonymizes
// all of the user's contributions in bulk, and requests a deactivation
// notification. Calling it on an already deactivated account never
// un-deactivates it.
func (l *Lifecycle) Deactivate(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	u.DeactivatedAt = &now
	token, err := helpers.GenerateToken(20)
	if err != nil {
		return err
	}
	u.ReactivateToken = token

	if err := l.Users.Update(ctx, u); err != nil {
		return err
	}
	if err := l.Contributions.AnonymizeByUser(ctx, u.ID); err != nil {
		return err
	}
	if l.Notifier != nil {
		if err := l.Notifier.UserDeactivated(ctx, u); err != nil && l.Logger != nil {
			l.Logger.WithError(err).WithField("user_id", u.ID).Warn("deactivation notification failed")
		}
	}
	if l.Logger != nil {
		l.Logger.WithField("user_id", u.ID).Info("account deactivated")
	}
	return nil
}

// Reactivate clears the deactivation stamp and the reactivation token. No
// notification is sent.
func (l *Lifecycle) Reactivate(ctx context.Context, u *entity.User) error {
	u.DeactivatedAt = nil
	u.ReactivateToken = ""
	return l.Users.Update(ctx, u)
}

// ActiveForAuthentication composes the base policy check with the lifecycle
// rules: banned or deactivated accounts never authenticate.
func (l *Lifecycle) ActiveForAuthentication(u *entity.User) bool {
	return l.Base.Active(u) && !u.Banned() && !u.Deactivated()
}

// InactiveReasonFor reports why the account cannot authenticate. A ban wins
// over everything else; otherwise the base policy decides.
func (l *Lifecycle) InactiveReasonFor(u *entity.User) InactiveReason {
	if u.Banned() {
		return ReasonBanned
	}
	if l.ActiveForAuthentication(u) {
		return ReasonNone
	}
	return l.Base.InactiveReason(u)
}
