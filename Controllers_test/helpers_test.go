package Controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/router"
	"github.com/altynbek07/dineqr/utils"
)

// setupTestDB opens a fresh SQLite in-memory database with all models
// migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Restaurant{},
		&models.RestaurantSubscription{},
		&models.SubscriptionLog{},
		&models.Session{},
		&models.Table{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// setupFullRouter builds the complete application router in test mode.
func setupFullRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	return router.SetupRouter(db)
}

func getRole(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()
	role := models.Role{Name: name}
	if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("failed to create role %s: %v", name, err)
	}
	return &role
}

// createUser seeds an active user with the given role and password.
func createUser(t *testing.T, db *gorm.DB, username, roleName, password string) *models.User {
	t.Helper()

	role := getRole(t, db, roleName)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		RoleID:   &role.ID,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

// createActiveSubscription gives the owner a subscription valid for a year.
func createActiveSubscription(t *testing.T, db *gorm.DB, ownerID uint) *models.RestaurantSubscription {
	t.Helper()

	sub := models.RestaurantSubscription{
		RestaurantOwnerID:     ownerID,
		SubscriptionStartDate: time.Now().AddDate(0, -1, 0),
		SubscriptionEndDate:   time.Now().AddDate(1, 0, 0),
		SubscriptionPlan:      "basic",
		SubscriptionStatus:    models.SubscriptionActive,
		GracePeriodDays:       7,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
	return &sub
}

// createSessionFor seeds a logged-in session row and returns it.
func createSessionFor(t *testing.T, db *gorm.DB, user *models.User, data map[string]interface{}) *models.Session {
	t.Helper()

	sess := models.NewSession(24 * time.Hour)
	if user != nil {
		sess.UserID = &user.ID
	}
	for k, v := range data {
		sess.Set(k, v)
	}
	if err := sess.Flush(); err != nil {
		t.Fatalf("failed to flush session: %v", err)
	}
	if err := db.Create(sess).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

// doRequest performs a request carrying the given session cookie.
func doRequest(r *gin.Engine, method, path string, body []byte, sessionKey string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytesReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionKey != "" {
		req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: sessionKey})
	}
	req.RemoteAddr = "192.0.2.10:52000"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// responseSession loads the session row referenced by the response's
// Set-Cookie header, falling back to the request session key.
func responseSession(t *testing.T, db *gorm.DB, w *httptest.ResponseRecorder, fallbackKey string) *models.Session {
	t.Helper()

	key := fallbackKey
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middlewares.SessionCookieName && cookie.Value != "" {
			key = cookie.Value
		}
	}
	if key == "" {
		t.Fatal("no session cookie on response and no fallback key")
	}

	var sess models.Session
	if err := db.Where("`key` = ?", key).First(&sess).Error; err != nil {
		t.Fatalf("session %s not found: %v", key, err)
	}
	return &sess
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}
