package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

// In-memory fakes for the storage contracts. Each one keeps just enough
// state for the behavior under test.

type fakeUserRepo struct {
	users          map[string]*entity.User
	saveResetCalls int
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for i, u := range users {
		if u.ID == "" {
			u.ID = "user-" + strconv.Itoa(i+1)
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = "user-" + strconv.Itoa(len(r.users)+1)
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) GetActiveByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil || u.Deactivated() {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) GetByResetDigest(_ context.Context, digest string) (*entity.User, error) {
	if digest == "" {
		return nil, errors.New("not found")
	}
	for _, u := range r.users {
		if u.ResetTokenDigest == digest {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) GetByReactivateToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, errors.New("not found")
	}
	for _, u := range r.users {
		if u.ReactivateToken == token {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) SaveResetToken(_ context.Context, id, digest string, sentAt *time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.ResetTokenDigest = digest
	u.ResetTokenSentAt = sentAt
	r.saveResetCalls++
	return nil
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) PermalinkTaken(_ context.Context, permalink, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Permalink == permalink && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) RecordSignIn(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.SignInCount++
	return nil
}

type fakeContributionRepo struct {
	confirmed  map[string][]entity.Contribution // by user id
	anonymized []string                         // user ids passed to AnonymizeByUser
}

func newFakeContributionRepo() *fakeContributionRepo {
	return &fakeContributionRepo{confirmed: map[string][]entity.Contribution{}}
}

func (r *fakeContributionRepo) ConfirmedByUser(_ context.Context, userID string) ([]entity.Contribution, error) {
	return r.confirmed[userID], nil
}

func (r *fakeContributionRepo) HasConfirmedForProject(_ context.Context, userID, projectID string) (bool, error) {
	for _, c := range r.confirmed[userID] {
		if c.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeContributionRepo) CountConfirmedProjects(_ context.Context, userID string) (int, error) {
	seen := map[string]bool{}
	for _, c := range r.confirmed[userID] {
		seen[c.ProjectID] = true
	}
	return len(seen), nil
}

func (r *fakeContributionRepo) AnonymizeByUser(_ context.Context, userID string) error {
	r.anonymized = append(r.anonymized, userID)
	return nil
}

type fakeProjectRepo struct {
	projects  []entity.Project // all owned by the same test user
	published int
	hasPosts  bool
}

func (r *fakeProjectRepo) ByUser(_ context.Context, _ string) ([]entity.Project, error) {
	return r.projects, nil
}

func (r *fakeProjectRepo) CountByUser(_ context.Context, _ string) (int, error) {
	return len(r.projects), nil
}

func (r *fakeProjectRepo) CountPublishedByUser(_ context.Context, _ string) (int, error) {
	return r.published, nil
}

func (r *fakeProjectRepo) HasWithState(_ context.Context, _ string, state string) (bool, error) {
	for _, p := range r.projects {
		if p.State == state {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProjectRepo) HasPublishedByUser(_ context.Context, _ string) (bool, error) {
	return r.published > 0, nil
}

func (r *fakeProjectRepo) HasPostsByUser(_ context.Context, _ string) (bool, error) {
	return r.hasPosts, nil
}

type unsubKey struct {
	userID    string
	projectID string // "" means global
}

type fakeUnsubscribeRepo struct {
	records map[unsubKey]bool
	creates int
}

func newFakeUnsubscribeRepo() *fakeUnsubscribeRepo {
	return &fakeUnsubscribeRepo{records: map[unsubKey]bool{}}
}

func (r *fakeUnsubscribeRepo) key(userID string, projectID *string) unsubKey {
	k := unsubKey{userID: userID}
	if projectID != nil {
		k.projectID = *projectID
	}
	return k
}

func (r *fakeUnsubscribeRepo) ByUser(_ context.Context, userID string) ([]entity.Unsubscribe, error) {
	var out []entity.Unsubscribe
	for k := range r.records {
		if k.userID != userID {
			continue
		}
		u := entity.Unsubscribe{UserID: k.userID}
		if k.projectID != "" {
			pid := k.projectID
			u.ProjectID = &pid
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUnsubscribeRepo) Exists(_ context.Context, userID string, projectID *string) (bool, error) {
	return r.records[r.key(userID, projectID)], nil
}

func (r *fakeUnsubscribeRepo) Create(_ context.Context, userID string, projectID *string) error {
	r.records[r.key(userID, projectID)] = true
	r.creates++
	return nil
}

type fakeCreditStore struct {
	cents map[string]int64
}

func (s *fakeCreditStore) BalanceCents(_ context.Context, userID string) (int64, error) {
	return s.cents[userID], nil
}

type fakeFollowStats struct {
	follows   int
	followers int
}

func (s *fakeFollowStats) FollowsCount(_ context.Context, _ string) (int, error) {
	return s.follows, nil
}

func (s *fakeFollowStats) FollowersCount(_ context.Context, _ string) (int, error) {
	return s.followers, nil
}

type fakeNotifier struct {
	deactivated []string // user ids
	resetLinks  []string
}

func (n *fakeNotifier) UserDeactivated(_ context.Context, u *entity.User) error {
	n.deactivated = append(n.deactivated, u.ID)
	return nil
}

func (n *fakeNotifier) PasswordReset(_ context.Context, _ *entity.User, resetLink string) error {
	n.resetLinks = append(n.resetLinks, resetLink)
	return nil
}

type fakeExtAuth struct {
	hasFB bool
}

func (a *fakeExtAuth) HasFacebookAuth(_ context.Context, _ string) (bool, error) {
	return a.hasFB, nil
}
