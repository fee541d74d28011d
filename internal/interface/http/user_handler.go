package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/colabore/colabore-api/internal/application"
	"github.com/colabore/colabore-api/pkg/helpers"
	"github.com/colabore/colabore-api/pkg/response"
	"github.com/colabore/colabore-api/pkg/validation"
)

// UserHandler serves login/session endpoints and the profile resource.
type UserHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateProfileRequest struct {
	Name              string  `json:"name"`
	PublicName        *string `json:"public_name"`
	Permalink         *string `json:"permalink"`
	Document          *string `json:"document"`
	AccountType       *string `json:"account_type" binding:"omitempty,account_type"`
	SubscribedToPosts *bool   `json:"subscribed_to_project_posts"`
	PublishingProject bool    `json:"publishing_project"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pair, reason, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrAccountInactive) {
			response.Error[any](c, http.StatusForbidden, "account inactive", gin.H{"reason": string(reason)})
			return
		}
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":                          u.ID,
		"email":                       u.Email,
		"name":                        u.Name,
		"public_name":                 u.PublicName,
		"permalink":                   u.Permalink,
		"account_type":                u.AccountType,
		"subscribed_to_project_posts": u.SubscribedToProjectPosts,
		"deactivated_at":              u.DeactivatedAt,
		"created_at":                  u.CreatedAt,
		"updated_at":                  u.UpdatedAt,
	}, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, verrs, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:              req.Name,
		PublicName:        req.PublicName,
		Permalink:         req.Permalink,
		Document:          req.Document,
		AccountType:       req.AccountType,
		SubscribedToPosts: req.SubscribedToPosts,
		PublishingProject: req.PublishingProject,
	})
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to update profile", nil)
		return
	}
	if len(verrs) > 0 {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verrs)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"public_name":  u.PublicName,
		"permalink":    u.Permalink,
		"account_type": u.AccountType,
		"updated_at":   u.UpdatedAt,
	}, "profile updated", nil)
}
