package middlewares

import (
	"errors"
	"time"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the browser cookie carrying the session key.
	SessionCookieName = "dineqr_session"

	sessionContextKey = "session"
	userContextKey    = "currentUser"

	flashKey = "_flash"
)

// SessionManager loads the gorm-backed session for each request, exposes
// it on the gin context and persists any mutation after the handler runs.
type SessionManager struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewSessionManager(db *gorm.DB) *SessionManager {
	return &SessionManager{
		DB:  db,
		TTL: 14 * 24 * time.Hour,
	}
}

// Middleware attaches the session (creating one when the cookie is
// missing, unknown or expired) and the authenticated user, then saves the
// session if a handler touched it.
func (sm *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sm.loadOrCreate(c)
		c.Set(sessionContextKey, sess)

		if sess.UserID != nil {
			var user models.User
			err := sm.DB.Preload("Role").First(&user, *sess.UserID).Error
			if err == nil && user.IsActive {
				c.Set(userContextKey, &user)
				c.Set("user_id", user.ID)
				if user.Role != nil {
					c.Set("role", user.Role.Name)
				}
			} else {
				// Stale user reference, drop the binding.
				sess.UserID = nil
				sess.Delete(models.SessionKeyLastActivity)
				sess.Set(models.SessionKeyActivityCount, 0)
			}
		}

		c.Next()

		// Login/Logout swap the session on the context; persist whichever
		// one the request ended with.
		sm.save(c, GetSession(c))
	}
}

func (sm *SessionManager) loadOrCreate(c *gin.Context) *models.Session {
	key, err := c.Cookie(SessionCookieName)
	if err == nil && key != "" {
		var sess models.Session
		dbErr := sm.DB.Where("`key` = ?", key).First(&sess).Error
		if dbErr == nil && !sess.Expired(time.Now()) {
			return &sess
		}
		if dbErr != nil && !errors.Is(dbErr, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("session lookup failed: %v", dbErr)
		}
	}

	sess := models.NewSession(sm.TTL)
	sm.setCookie(c, sess)
	return sess
}

func (sm *SessionManager) setCookie(c *gin.Context, sess *models.Session) {
	c.SetCookie(SessionCookieName, sess.Key, int(sm.TTL.Seconds()), "/", "", false, true)
}

func (sm *SessionManager) save(c *gin.Context, sess *models.Session) {
	// Clean sessions are left alone; a brand-new one is only worth a row
	// once it is authenticated or carries data, so cookie-less probes and
	// scrapers do not fill the table.
	if !sess.Dirty() && (sess.ID != 0 || sess.UserID == nil) {
		return
	}
	if err := sess.Flush(); err != nil {
		utils.ErrorLogger.Printf("session flush failed: %v", err)
		return
	}
	if err := sm.DB.Save(sess).Error; err != nil {
		utils.ErrorLogger.Printf("session save failed: %v", err)
	}
}

// Login binds the session to a user. The session key is rotated so a key
// captured pre-authentication is worthless afterwards; session data is
// carried over.
func (sm *SessionManager) Login(c *gin.Context, user *models.User) {
	sess := GetSession(c)

	if sess.ID != 0 {
		if err := sm.DB.Delete(&models.Session{}, sess.ID).Error; err != nil {
			utils.ErrorLogger.Printf("session rotation failed: %v", err)
		}
	}

	fresh := models.NewSession(sm.TTL)
	fresh.UserID = &user.ID
	if err := sess.Flush(); err == nil {
		fresh.Data = sess.Data
	}
	fresh.Set(models.SessionKeyLastActivity, float64(time.Now().Unix()))

	c.Set(sessionContextKey, fresh)
	c.Set(userContextKey, user)
	c.Set("user_id", user.ID)
	if user.Role != nil {
		c.Set("role", user.Role.Name)
	}
	sm.setCookie(c, fresh)
}

// Logout destroys the current session and replaces it with a fresh
// anonymous one so the handler can still attach flash messages.
func (sm *SessionManager) Logout(c *gin.Context) {
	sess := GetSession(c)
	if sess.ID != 0 {
		if err := sm.DB.Delete(&models.Session{}, sess.ID).Error; err != nil {
			utils.ErrorLogger.Printf("session delete failed: %v", err)
		}
	}

	fresh := models.NewSession(sm.TTL)
	c.Set(sessionContextKey, fresh)
	c.Set(userContextKey, nil)
	sm.setCookie(c, fresh)
}

// GetSession returns the request session. The session middleware always
// installs one, so handlers can rely on a non-nil result.
func GetSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	// A route missing the middleware still gets a throwaway session
	// instead of a panic.
	sess := models.NewSession(time.Hour)
	c.Set(sessionContextKey, sess)
	return sess
}

// CurrentUser returns the authenticated user, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// AddFlash queues a one-shot message for the next page the user sees.
func AddFlash(c *gin.Context, level, text string) {
	sess := GetSession(c)
	var flashes []interface{}
	if v, ok := sess.Get(flashKey); ok {
		if list, ok := v.([]interface{}); ok {
			flashes = list
		}
	}
	flashes = append(flashes, map[string]interface{}{"level": level, "text": text})
	sess.Set(flashKey, flashes)
}

// TakeFlashes drains the pending flash messages.
func TakeFlashes(c *gin.Context) []map[string]interface{} {
	sess := GetSession(c)
	v, ok := sess.Get(flashKey)
	if !ok {
		return nil
	}
	sess.Delete(flashKey)

	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
