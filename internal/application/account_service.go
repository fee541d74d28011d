package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
	"github.com/colabore/colabore-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account inactive")
	ErrTokenNotFound      = errors.New("reset token not found")
	ErrTokenExpired       = errors.New("reset token expired")
)

// RefundQueue is the external refund processor's view of which payments are
// already waiting for a refund.
type RefundQueue interface {
	AlreadyQueued(ctx context.Context, p entity.Payment) (bool, error)
}

// Service is the account facade wiring the core components over the storage
// collaborators.
type Service struct {
	Users         repo.UserRepository
	Payments      repo.PaymentRepository
	Subscriptions *Subscriptions
	ResetTokens   *ResetTokenService
	Ledger        *CreditLedger
	Refunds       *RefundFilter
	RefundQueue   RefundQueue
	Lifecycle     *Lifecycle
	Validator     *ProfileValidator
	Analytics     *Analytics
	Notifier      Notifier

	JWT              *helpers.JWTManager
	Redis            *redis.Client
	Logger           *logrus.Logger
	ES               *elasticsearch.Client
	ESAnalyticsIndex string
	ResetLinkBase    string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password and the account's lifecycle state.
// Banned or deactivated accounts fail with ErrAccountInactive and a reason.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, InactiveReason, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ReasonNone, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ReasonNone, ErrInvalidCredentials
	}
	if !s.Lifecycle.ActiveForAuthentication(u) {
		return nil, s.Lifecycle.InactiveReasonFor(u), ErrAccountInactive
	}
	return u, ReasonNone, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, InactiveReason, error) {
	u, reason, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, reason, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, ReasonNone, err
	}
	if err := s.Users.RecordSignIn(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("record sign-in failed")
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, ReasonNone, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// The active-only lookup shuts out deactivated accounts even when their
	// refresh token has not expired yet.
	u, err := s.Users.GetActiveByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if !s.Lifecycle.ActiveForAuthentication(u) {
		return TokenPair{}, "", ErrAccountInactive
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name              string
	PublicName        *string
	Permalink         *string
	Document          *string
	AccountType       *string
	SubscribedToPosts *bool
	PublishingProject bool
}

// UpdateProfile applies the changes and validates the aggregate before
// persisting. Broken rules come back as field-scoped validation errors, not
// as a hard failure.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, []ValidationError, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, nil, ErrUserNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.PublicName != nil {
		u.PublicName = *in.PublicName
	}
	if in.Permalink != nil {
		// Blank permalinks are stored as unset, never as an empty slug.
		u.Permalink = strings.TrimSpace(*in.Permalink)
	}
	if in.Document != nil {
		u.Document = *in.Document
	}
	if in.AccountType != nil {
		u.AccountType = entity.AccountType(*in.AccountType)
	}
	if in.SubscribedToPosts != nil {
		u.SubscribedToProjectPosts = *in.SubscribedToPosts
	}

	verrs, err := s.Validator.Validate(ctx, u, ValidationContext{PublishingProject: in.PublishingProject})
	if err != nil {
		return nil, nil, err
	}
	if len(verrs) > 0 {
		return nil, verrs, nil
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, nil, err
	}
	_ = s.indexAnalytics(ctx, u)
	return u, nil, nil
}

// RequestPasswordReset issues a single-use token and hands the reset link to
// the notifier for out-of-band delivery. Unknown emails succeed silently to
// avoid account enumeration; the raw secret is never logged.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		if s.Logger != nil {
			s.Logger.WithField("email", email).Info("password reset requested for unknown email")
		}
		return nil
	}
	raw, err := s.ResetTokens.Issue(ctx, u)
	if err != nil {
		return err
	}
	if s.Notifier != nil {
		link := s.ResetLinkBase + "?token=" + raw
		if err := s.Notifier.PasswordReset(ctx, u, link); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reset notification failed")
		}
	}
	return nil
}

// ConfirmPasswordReset verifies the raw token and, when valid, sets the new
// password. The matched digest is invalidated on both the valid and expired
// paths before any other outcome is reported.
func (s *Service) ConfirmPasswordReset(ctx context.Context, raw, newPassword string) ([]ValidationError, error) {
	u, err := s.ResetTokens.Lookup(ctx, raw)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	res, err := s.ResetTokens.Verify(ctx, u, raw, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	switch res {
	case ResetExpired:
		return nil, ErrTokenExpired
	case ResetNotFound:
		return nil, ErrTokenNotFound
	}

	if len(newPassword) < minPasswordLen {
		return []ValidationError{{Field: "password", Code: CodeTooShort}}, nil
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset completed")
	}
	return nil, nil
}

// Deactivate runs the lifecycle transition for the user and drops the
// session so open tokens stop working.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if err := s.Lifecycle.Deactivate(ctx, u); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(u.ID)).Err()
	}
	return nil
}

// Reactivate restores a deactivated account identified by its reactivation
// token.
func (s *Service) Reactivate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByReactivateToken(ctx, token)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if err := s.Lifecycle.Reactivate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AvailableCredits reports the user's spendable balance in cents.
func (s *Service) AvailableCredits(ctx context.Context, userID string) (int64, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return 0, ErrUserNotFound
	}
	return s.Ledger.AvailableCredits(ctx, u)
}

// PendingRefunds lists the user's payments eligible for manual refund,
// excluding the ones the refund processor already queued.
func (s *Service) PendingRefunds(ctx context.Context, userID string) ([]entity.PaymentWithProject, error) {
	payments, err := s.Payments.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	queued := func(p entity.Payment) bool {
		if s.RefundQueue == nil {
			return false
		}
		q, qerr := s.RefundQueue.AlreadyQueued(ctx, p)
		if qerr != nil && s.Logger != nil {
			s.Logger.WithError(qerr).WithField("payment_id", p.ID).Warn("refund queue lookup failed")
		}
		return qerr == nil && q
	}
	return s.Refunds.PendingRefunds(payments, queued), nil
}

// AnalyticsExport builds the projection and pushes it to the analytics sink.
func (s *Service) AnalyticsExport(ctx context.Context, userID string) (map[string]any, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	doc, err := s.Analytics.Projection(ctx, u, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	_ = s.indexAnalyticsDoc(ctx, u.ID, doc)
	return doc, nil
}

func (s *Service) indexAnalytics(ctx context.Context, u *entity.User) error {
	doc, err := s.Analytics.Projection(ctx, u, time.Now().UTC())
	if err != nil {
		return err
	}
	return s.indexAnalyticsDoc(ctx, u.ID, doc)
}

func (s *Service) indexAnalyticsDoc(ctx context.Context, userID string, doc map[string]any) error {
	if s.ES == nil || s.ESAnalyticsIndex == "" {
		return nil
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAnalyticsIndex, DocumentID: userID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("analytics index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", userID).Warn("analytics index response error")
	}
	return nil
}
