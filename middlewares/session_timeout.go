package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
)

// SessionTimeoutSeconds is the inactivity window before a forced logout.
const SessionTimeoutSeconds = 900

// Paths that never trigger the timeout check. Login and registration must
// be reachable after a timeout or the user is locked out for good.
var timeoutExemptPrefixes = []string{
	"/accounts/login/",
	"/accounts/logout/",
	"/accounts/register",
	"/accounts/password-reset/",
	"/static/",
	"/media/",
	"/service-worker.js",
	"/manifest.json",
	"/health-check/",
	"/rate-limited/",
	"/metrics",
}

func isTimeoutExempt(path string) bool {
	for _, prefix := range timeoutExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SessionTimeout forces a logout after SessionTimeoutSeconds of
// inactivity. Active requests refresh the last_activity stamp.
func (sm *SessionManager) SessionTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isTimeoutExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}

		sess := GetSession(c)
		now := float64(time.Now().Unix())

		if last, ok := sess.GetFloat(models.SessionKeyLastActivity); ok {
			if now-last > SessionTimeoutSeconds {
				utils.InfoLogger.Printf("Session timeout for user %s after %.0fs of inactivity",
					user.Username, now-last)
				sm.Logout(c)
				AddFlash(c, "warning",
					"Your session has expired due to inactivity. Please log in again to continue.")
				c.Redirect(http.StatusFound, "/accounts/login/")
				c.Abort()
				return
			}
		}

		sess.Set(models.SessionKeyLastActivity, now)
		c.Next()
	}
}

// ActivityTracker records per-session activity details: request count,
// last page visited and when the session started.
func (sm *SessionManager) ActivityTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}

		sess := GetSession(c)

		count, _ := sess.GetFloat(models.SessionKeyActivityCount)
		sess.Set(models.SessionKeyActivityCount, count+1)
		sess.Set(models.SessionKeyLastPage, c.Request.URL.Path)

		if _, ok := sess.Get(models.SessionKeySessionStart); !ok {
			sess.Set(models.SessionKeySessionStart, float64(time.Now().Unix()))
		}

		c.Next()
	}
}
