package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

func confirmedUser(id string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{ID: id, Email: id + "@example.com", ConfirmedEmailAt: &now}
}

func newLifecycle(users *fakeUserRepo, contribs *fakeContributionRepo, n *fakeNotifier) *Lifecycle {
	return NewLifecycle(users, contribs, n, nil, nil)
}

func TestDeactivate(t *testing.T) {
	u := confirmedUser("u1")
	users := newFakeUserRepo(u)
	contribs := newFakeContributionRepo()
	notifier := &fakeNotifier{}
	lc := newLifecycle(users, contribs, notifier)

	require.NoError(t, lc.Deactivate(context.Background(), u))

	assert.True(t, u.Deactivated())
	assert.NotEmpty(t, u.ReactivateToken)
	assert.Equal(t, []string{"u1"}, contribs.anonymized)
	assert.Equal(t, []string{"u1"}, notifier.deactivated)
}

func TestDeactivateTwiceStaysDeactivatedAndRotatesToken(t *testing.T) {
	u := confirmedUser("u1")
	users := newFakeUserRepo(u)
	lc := newLifecycle(users, newFakeContributionRepo(), &fakeNotifier{})

	require.NoError(t, lc.Deactivate(context.Background(), u))
	first := u.ReactivateToken

	require.NoError(t, lc.Deactivate(context.Background(), u))

	assert.True(t, u.Deactivated())
	assert.NotEqual(t, first, u.ReactivateToken)
}

func TestReactivate(t *testing.T) {
	u := confirmedUser("u1")
	users := newFakeUserRepo(u)
	lc := newLifecycle(users, newFakeContributionRepo(), &fakeNotifier{})

	require.NoError(t, lc.Deactivate(context.Background(), u))
	require.NoError(t, lc.Reactivate(context.Background(), u))

	assert.False(t, u.Deactivated())
	assert.Empty(t, u.ReactivateToken)
	assert.True(t, lc.ActiveForAuthentication(u))
}

func TestActiveForAuthentication(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		user *entity.User
		want bool
	}{
		{name: "confirmed and clean", user: confirmedUser("u1"), want: true},
		{name: "email not confirmed", user: &entity.User{ID: "u2"}, want: false},
		{
			name: "banned",
			user: &entity.User{ID: "u3", ConfirmedEmailAt: &now, BannedAt: &now},
			want: false,
		},
		{
			name: "deactivated",
			user: &entity.User{ID: "u4", ConfirmedEmailAt: &now, DeactivatedAt: &now},
			want: false,
		},
		{
			name: "banned and deactivated",
			user: &entity.User{ID: "u5", ConfirmedEmailAt: &now, BannedAt: &now, DeactivatedAt: &now},
			want: false,
		},
	}

	lc := newLifecycle(newFakeUserRepo(), newFakeContributionRepo(), &fakeNotifier{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lc.ActiveForAuthentication(tt.user))
		})
	}
}

func TestInactiveReasonFor(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		user *entity.User
		want InactiveReason
	}{
		{name: "active account", user: confirmedUser("u1"), want: ReasonNone},
		{name: "unconfirmed email", user: &entity.User{ID: "u2"}, want: ReasonLocked},
		{
			name: "deactivated",
			user: &entity.User{ID: "u3", ConfirmedEmailAt: &now, DeactivatedAt: &now},
			want: ReasonLocked,
		},
		{
			name: "banned",
			user: &entity.User{ID: "u4", ConfirmedEmailAt: &now, BannedAt: &now},
			want: ReasonBanned,
		},
		{
			// A ban always wins over every other reason.
			name: "banned and deactivated",
			user: &entity.User{ID: "u5", BannedAt: &now, DeactivatedAt: &now},
			want: ReasonBanned,
		},
	}

	lc := newLifecycle(newFakeUserRepo(), newFakeContributionRepo(), &fakeNotifier{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lc.InactiveReasonFor(tt.user))
		})
	}
}
