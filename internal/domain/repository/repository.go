// Package repository declares the storage contracts the account core depends
// on. The core never touches the database directly; implementations live in
// internal/infrastructure/postgres and in-memory fakes back the tests.
package repository

import (
	"context"
	"time"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

// UserRepository persists the user aggregate.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetActiveByID excludes deactivated accounts.
	GetActiveByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	GetByResetDigest(ctx context.Context, digest string) (*entity.User, error)
	GetByReactivateToken(ctx context.Context, token string) (*entity.User, error)
	// SaveResetToken writes the reset digest and issued-at in a single
	// statement so concurrent verifies for the same user serialize on the row.
	SaveResetToken(ctx context.Context, id, digest string, sentAt *time.Time) error
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	PermalinkTaken(ctx context.Context, permalink, excludeID string) (bool, error)
	RecordSignIn(ctx context.Context, id string) error
}

// ContributionRepository reads and mutates the user's pledges.
type ContributionRepository interface {
	ConfirmedByUser(ctx context.Context, userID string) ([]entity.Contribution, error)
	HasConfirmedForProject(ctx context.Context, userID, projectID string) (bool, error)
	CountConfirmedProjects(ctx context.Context, userID string) (int, error)
	// AnonymizeByUser flips the anonymous flag on every contribution of the
	// user in one bulk statement.
	AnonymizeByUser(ctx context.Context, userID string) error
}

// PaymentRepository lists payments joined with their owning projects.
type PaymentRepository interface {
	ByUser(ctx context.Context, userID string) ([]entity.PaymentWithProject, error)
}

// ProjectRepository reads the user's own projects.
type ProjectRepository interface {
	ByUser(ctx context.Context, userID string) ([]entity.Project, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountPublishedByUser(ctx context.Context, userID string) (int, error)
	HasWithState(ctx context.Context, userID, state string) (bool, error)
	HasPublishedByUser(ctx context.Context, userID string) (bool, error)
	HasPostsByUser(ctx context.Context, userID string) (bool, error)
}

// UnsubscribeRepository reads opt-out records. A nil project id means the
// opt-out is global.
type UnsubscribeRepository interface {
	ByUser(ctx context.Context, userID string) ([]entity.Unsubscribe, error)
	Exists(ctx context.Context, userID string, projectID *string) (bool, error)
	Create(ctx context.Context, userID string, projectID *string) error
}

// CreditStore resolves the user's stored credit balance in minor currency
// units (cents). The conversion from the decimal column happens inside the
// store so no float arithmetic touches the amount. A user without a ledger
// row has balance zero, not an error.
type CreditStore interface {
	BalanceCents(ctx context.Context, userID string) (int64, error)
}

// FollowStats supplies follower/following counts for the analytics export.
type FollowStats interface {
	FollowsCount(ctx context.Context, userID string) (int, error)
	FollowersCount(ctx context.Context, userID string) (int, error)
}
