package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

func newResetService(users *fakeUserRepo) *ResetTokenService {
	return NewResetTokenService(users, 6*time.Hour, nil)
}

func TestResetTokenIssueStoresDigestOnly(t *testing.T) {
	u := &entity.User{ID: "u1", Email: "ana@example.com"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assert.NotEqual(t, raw, u.ResetTokenDigest)
	assert.Len(t, u.ResetTokenDigest, 64) // sha-256 hex
	require.NotNil(t, u.ResetTokenSentAt)
}

func TestResetTokenIssueRotates(t *testing.T) {
	u := &entity.User{ID: "u1"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	first, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)
	firstDigest := u.ResetTokenDigest

	second, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, firstDigest, u.ResetTokenDigest)

	// Only the latest token verifies.
	res, err := svc.Verify(context.Background(), u, first, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)

	res, err = svc.Verify(context.Background(), u, second, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetValid, res)
}

func TestResetTokenVerifyValidThenSingleUse(t *testing.T) {
	u := &entity.User{ID: "u1"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	res, err := svc.Verify(context.Background(), u, raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetValid, res)
	assert.Empty(t, u.ResetTokenDigest)
	assert.Nil(t, u.ResetTokenSentAt)

	// Replay of the same token is not found.
	res, err = svc.Verify(context.Background(), u, raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)
}

func TestResetTokenVerifyExpiredClearsDigest(t *testing.T) {
	u := &entity.User{ID: "u1"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	late := time.Now().Add(svc.Window + time.Minute)
	res, err := svc.Verify(context.Background(), u, raw, late)
	require.NoError(t, err)
	assert.Equal(t, ResetExpired, res)
	assert.Empty(t, u.ResetTokenDigest)

	// An expired token cannot come back to life, even within a fresh window.
	res, err = svc.Verify(context.Background(), u, raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)
}

func TestResetTokenVerifyAtWindowBoundary(t *testing.T) {
	u := &entity.User{ID: "u1"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	// Exactly at the window edge is still valid; only strictly past expires.
	edge := u.ResetTokenSentAt.Add(svc.Window)
	res, err := svc.Verify(context.Background(), u, raw, edge)
	require.NoError(t, err)
	assert.Equal(t, ResetValid, res)
}

func TestResetTokenVerifyBlankAndMismatch(t *testing.T) {
	u := &entity.User{ID: "u1"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	// Never issued: blank stored digest never matches, not even blank input.
	res, err := svc.Verify(context.Background(), u, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	res, err = svc.Verify(context.Background(), u, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)

	res, err = svc.Verify(context.Background(), u, "wrong-token", time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetNotFound, res)

	// Mismatches leave the stored digest untouched.
	res, err = svc.Verify(context.Background(), u, raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ResetValid, res)
}

func TestResetTokenLookup(t *testing.T) {
	u := &entity.User{ID: "u1", Email: "ana@example.com"}
	users := newFakeUserRepo(u)
	svc := newResetService(users)

	_, err := svc.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	raw, err := svc.Issue(context.Background(), u)
	require.NoError(t, err)

	found, err := svc.Lookup(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = svc.Lookup(context.Background(), "some-other-token")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
