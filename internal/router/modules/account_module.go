package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colabore/colabore-api/internal/container"
	handlers "github.com/colabore/colabore-api/internal/interface/http"
	"github.com/colabore/colabore-api/internal/interface/middleware"
	"github.com/colabore/colabore-api/pkg/helpers"
)

type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits. Reset init is the
	// tightest: it sends mail.
	resetInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	reactivateLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/password/reset", resetInitLimiter, m.Handler.ResetInit)
	rg.POST("/password/reset/confirm", resetConfirmLimiter, m.Handler.ResetConfirm)
	rg.POST("/account/reactivate", reactivateLimiter, m.Handler.Reactivate)

	// Protected account endpoints
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/account/deactivate", m.Handler.Deactivate)
		auth.GET("/account/credits", m.Handler.Credits)
		auth.GET("/account/refunds/pending", m.Handler.PendingRefunds)
		auth.GET("/account/analytics", m.Handler.Analytics)
		auth.GET("/account/subscriptions", m.Handler.Subscriptions)
		auth.POST("/account/unsubscribes", m.Handler.Unsubscribe)
	}
}
