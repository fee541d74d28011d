package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/colabore/colabore-api/pkg/helpers"
	"github.com/colabore/colabore-api/pkg/response"
)

// Auth validates the access token and ensures a live session exists in Redis.
// It sets userID, userName, and userEmail in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}
		if sid := data["sid"]; sid != "" && sid != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session superseded", nil)
			c.Abort()
			return
		}

		c.Set("userID", data["user_id"])
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
