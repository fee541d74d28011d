package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colabore/colabore-api/internal/container"
	handlers "github.com/colabore/colabore-api/internal/interface/http"
	"github.com/colabore/colabore-api/internal/interface/middleware"
	"github.com/colabore/colabore-api/pkg/helpers"
)

// UserModule wires session and profile endpoints.
// Public: POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)   // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil) // 60 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	// Apply a softer per-IP limiter to all protected routes
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
