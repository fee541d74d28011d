package entity

import (
	"time"
)

// AccountType discriminates which tax document a user carries.
type AccountType string

const (
	AccountIndividual        AccountType = "individual"
	AccountCorporate         AccountType = "corporate"
	AccountMicroEntrepreneur AccountType = "micro-entrepreneur"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountIndividual, AccountCorporate, AccountMicroEntrepreneur:
		return true
	}
	return false
}

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; ResetTokenDigest holds a SHA-256 hex digest
// of the last issued password-reset secret (never the secret itself).
type User struct {
	ID          string
	Email       string
	Password    string
	Name        string
	PublicName  string
	Permalink   string // empty means unset; stored as NULL
	Document    string
	AccountType AccountType

	ZeroCredits              bool
	SubscribedToProjectPosts bool
	Admin                    bool
	ConfirmedEmailAt         *time.Time

	DeactivatedAt   *time.Time
	BannedAt        *time.Time
	ReactivateToken string

	ResetTokenDigest string
	ResetTokenSentAt *time.Time

	SignInCount  int
	LastSignInAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Deactivated reports whether the account is currently deactivated.
func (u *User) Deactivated() bool { return u.DeactivatedAt != nil }

// Banned reports whether the account carries a ban timestamp.
func (u *User) Banned() bool { return u.BannedAt != nil }

// CreatedToday is true for accounts created on the given day that have
// signed in at most once. Used by the analytics projection.
func (u *User) CreatedToday(now time.Time) bool {
	y1, m1, d1 := u.CreatedAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && u.SignInCount <= 1
}
