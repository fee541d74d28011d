package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
)

// ResetResult is the outcome of a password-reset token verification.
type ResetResult string

const (
	ResetValid    ResetResult = "valid"
	ResetNotFound ResetResult = "not_found"
	ResetExpired  ResetResult = "expired"
)

// ResetTokenService issues and verifies single-use password-reset tokens.
// Only a SHA-256 digest of the secret is ever stored; the raw value is
// returned once to the caller for out-of-band delivery.
type ResetTokenService struct {
	Users  repo.UserRepository
	Window time.Duration
	Logger *logrus.Logger
}

func NewResetTokenService(users repo.UserRepository, window time.Duration, logger *logrus.Logger) *ResetTokenService {
	return &ResetTokenService{Users: users, Window: window, Logger: logger}
}

func digestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Issue generates a fresh reset secret for the user, persists its digest and
// issuance time, and returns the raw secret. The raw secret must not be
// persisted or logged anywhere.
func (s *ResetTokenService) Issue(ctx context.Context, u *entity.User) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	raw := base64.RawURLEncoding.EncodeToString(b)

	now := time.Now().UTC()
	u.ResetTokenDigest = digestToken(raw)
	u.ResetTokenSentAt = &now
	if err := s.Users.SaveResetToken(ctx, u.ID, u.ResetTokenDigest, u.ResetTokenSentAt); err != nil {
		return "", err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset token issued")
	}
	return raw, nil
}

// Lookup resolves the user a raw reset token was issued to, or
// ErrUserNotFound when no account carries its digest.
func (s *ResetTokenService) Lookup(ctx context.Context, raw string) (*entity.User, error) {
	if raw == "" {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByResetDigest(ctx, digestToken(raw))
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Verify checks raw against the stored digest at time now. A matching digest
// is cleared before returning, whether the result is valid or expired, so the
// same token can never authorize twice. Blank input and digest mismatches
// resolve to not_found without touching stored state.
func (s *ResetTokenService) Verify(ctx context.Context, u *entity.User, raw string, now time.Time) (ResetResult, error) {
	if raw == "" || u.ResetTokenDigest == "" || u.ResetTokenSentAt == nil {
		return ResetNotFound, nil
	}
	stored := []byte(u.ResetTokenDigest)
	candidate := []byte(digestToken(raw))
	if subtle.ConstantTimeCompare(stored, candidate) != 1 {
		return ResetNotFound, nil
	}

	expired := now.Sub(*u.ResetTokenSentAt) > s.Window
	u.ResetTokenDigest = ""
	u.ResetTokenSentAt = nil
	if err := s.Users.SaveResetToken(ctx, u.ID, "", nil); err != nil {
		return ResetNotFound, err
	}
	if expired {
		return ResetExpired, nil
	}
	return ResetValid, nil
}
