package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/colabore/colabore-api/internal/application"
	"github.com/colabore/colabore-api/pkg/response"
	"github.com/colabore/colabore-api/pkg/validation"
)

// AccountHandler serves the password-reset flow, lifecycle transitions and
// the financial/analytics read endpoints.
type AccountHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

// ResetInit POST /api/password/reset {email}
// Always answers OK so the endpoint cannot be used to enumerate accounts.
func (h *AccountHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"requested": true}, "reset link sent if the account exists", nil)
}

// ResetConfirm POST /api/password/reset/confirm {token, new_password}
func (h *AccountHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	verrs, err := h.Svc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTokenExpired):
			response.Error[any](c, http.StatusBadRequest, "reset token expired", gin.H{"reason": "expired"})
		case errors.Is(err, application.ErrTokenNotFound):
			response.Error[any](c, http.StatusBadRequest, "invalid reset token", gin.H{"reason": "not_found"})
		default:
			response.Error[any](c, http.StatusInternalServerError, "reset failed", nil)
		}
		return
	}
	if len(verrs) > 0 {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verrs)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}

// Deactivate POST /api/account/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Deactivate(c.Request.Context(), uid); err != nil {
		response.Error[any](c, http.StatusBadRequest, "deactivation failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deactivated": true}, "account deactivated", nil)
}

// Reactivate POST /api/account/reactivate {token}
func (h *AccountHandler) Reactivate(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Reactivate(c.Request.Context(), req.Token)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "invalid reactivation token", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "reactivated": true}, "account reactivated", nil)
}

// Credits GET /api/account/credits
func (h *AccountHandler) Credits(c *gin.Context) {
	uid := c.GetString("userID")
	cents, err := h.Svc.AvailableCredits(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits_cents": cents}, "available credits", nil)
}

// PendingRefunds GET /api/account/refunds/pending
func (h *AccountHandler) PendingRefunds(c *gin.Context) {
	uid := c.GetString("userID")
	pending, err := h.Svc.PendingRefunds(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "refund lookup failed", nil)
		return
	}
	items := make([]gin.H, 0, len(pending))
	for _, pp := range pending {
		items = append(items, gin.H{
			"payment_id":     pp.Payment.ID,
			"gateway":        pp.Payment.Gateway,
			"payment_method": pp.Payment.PaymentMethod,
			"paid_at":        pp.Payment.PaidAt,
			"project_id":     pp.Project.ID,
			"project_state":  pp.Project.State,
		})
	}
	response.Success(c, http.StatusOK, items, "pending refunds", gin.H{"count": len(items)})
}

// Analytics GET /api/account/analytics
func (h *AccountHandler) Analytics(c *gin.Context) {
	uid := c.GetString("userID")
	doc, err := h.Svc.AnalyticsExport(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, doc, "analytics", nil)
}

// Subscriptions GET /api/account/subscriptions
func (h *AccountHandler) Subscriptions(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	subscribed, err := h.Svc.Subscriptions.SubscribedToProjectPosts(c.Request.Context(), u)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "subscription lookup failed", nil)
		return
	}
	projects, err := h.Svc.Subscriptions.ProjectSubscriptions(c.Request.Context(), u)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "subscription lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"subscribed_to_project_posts": subscribed,
		"projects":                    projects,
	}, "subscriptions", nil)
}

// Unsubscribe POST /api/account/unsubscribes {project_id}
// A null project_id opts out of all project posts.
func (h *AccountHandler) Unsubscribe(c *gin.Context) {
	uid := c.GetString("userID")
	var req struct {
		ProjectID *string `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err := h.Svc.Subscriptions.Unsubscribe(c.Request.Context(), u, req.ProjectID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "unsubscribe failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"unsubscribed": true}, "unsubscribed", nil)
}
