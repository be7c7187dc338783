package middlewares

import (
	"fmt"
	"net/http"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
)

// RequireRoles allows only the listed roles through. Administrators pass
// every check.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := contextRole(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if role == models.RoleAdministrator {
			c.Next()
			return
		}

		if _, ok := allowed[role]; !ok {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", rolesLabel(roles)))
			c.Abort()
			return
		}

		c.Next()
	}
}

// contextRole reads the role set by the JWT middleware, falling back to
// the session user on browser routes.
func contextRole(c *gin.Context) (string, bool) {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	if user := CurrentUser(c); user != nil && user.Role != nil {
		return user.Role.Name, true
	}
	return "", false
}

func rolesLabel(roles []string) string {
	if len(roles) == 1 {
		return roles[0]
	}
	return "staff"
}
