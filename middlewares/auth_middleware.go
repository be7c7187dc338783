package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the staff API with a bearer token. Browser routes
// use the session middleware instead.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user ID in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// LoginRequired rejects anonymous requests on session-backed routes.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("login required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
