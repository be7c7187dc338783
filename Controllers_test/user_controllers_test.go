package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/altynbek07/dineqr/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	payload := []byte(`{
		"username": "testuser",
		"email": "testuser@example.com",
		"first_name": "Test",
		"last_name": "User",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["status"])

	var user models.User
	assert.NoError(t, db.Preload("Role").Where("username = ?", "testuser").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.Role.Name)
	assert.NotEqual(t, "s3cure-pass", user.Password)

	login := []byte(`{"username": "testuser", "password": "s3cure-pass"}`)
	w = doRequest(r, "POST", "/accounts/login/", login, "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "/restaurant/menu/", data["redirect"])

	sess := responseSession(t, db, w, "")
	assert.NotNil(t, sess.UserID)
	assert.Equal(t, user.ID, *sess.UserID)
}

func TestRegisterRoleCannotBeInjected(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	// A submitted role field is simply ignored.
	payload := []byte(`{
		"username": "escalator",
		"email": "escalator@example.com",
		"first_name": "Esc",
		"last_name": "Alator",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass",
		"role": "administrator"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, db.Preload("Role").Where("username = ?", "escalator").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.Role.Name)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	payload := []byte(`{
		"username": "mismatch",
		"email": "mismatch@example.com",
		"first_name": "Mis",
		"last_name": "Match",
		"password": "s3cure-pass",
		"confirm_password": "different-pass"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.User{}).Where("username = ?", "mismatch").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegisterHoneypotRejects(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	// Every other field is valid; the filled honeypot alone rejects.
	payload := []byte(`{
		"username": "robot",
		"email": "robot@example.com",
		"first_name": "Ro",
		"last_name": "Bot",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass",
		"website": "https://spam.example.com"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.User{}).Where("username = ?", "robot").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegisterDuplicateUsernameAndEmail(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	createUser(t, db, "taken", models.RoleCustomer, "password!1")

	payload := []byte(`{
		"username": "taken",
		"email": "fresh@example.com",
		"first_name": "Du",
		"last_name": "Plicate",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	errs := data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "username")

	payload = []byte(`{
		"username": "freshname",
		"email": "taken@example.com",
		"first_name": "Du",
		"last_name": "Plicate",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass"
	}`)
	w = doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	errs = data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	payload := []byte(`{
		"username": "weakpass",
		"email": "weakpass@example.com",
		"first_name": "We",
		"last_name": "Ak",
		"password": "12345678",
		"confirm_password": "12345678"
	}`)
	w := doRequest(r, "POST", "/accounts/register/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	errs := data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "password")
}

func TestRegisterOwnerCreatesRestaurant(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	payload := []byte(`{
		"username": "newowner",
		"email": "newowner@example.com",
		"first_name": "New",
		"last_name": "Owner",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass",
		"restaurant_name": "Sunrise Deli",
		"subscription_plan": "PRO"
	}`)
	w := doRequest(r, "POST", "/accounts/register/owner/", payload, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["qr_code"])

	var user models.User
	assert.NoError(t, db.Preload("Role").Where("username = ?", "newowner").First(&user).Error)
	assert.Equal(t, models.RoleOwner, user.Role.Name)
	assert.Equal(t, "Sunrise Deli", user.RestaurantName)
	assert.NotNil(t, user.RestaurantQRCode)

	var restaurant models.Restaurant
	assert.NoError(t, db.Where("main_owner_id = ?", user.ID).First(&restaurant).Error)
	assert.True(t, restaurant.IsMainRestaurant)
	assert.Equal(t, models.PlanPro, restaurant.SubscriptionPlan)
	assert.Equal(t, *user.RestaurantQRCode, restaurant.QRCode)

	// No subscription yet: the new restaurant stays gated.
	w = doRequest(r, "GET", "/r/"+restaurant.QRCode, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterOwnerRequiresPlan(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	payload := []byte(`{
		"username": "planless",
		"email": "planless@example.com",
		"first_name": "Plan",
		"last_name": "Less",
		"password": "s3cure-pass",
		"confirm_password": "s3cure-pass",
		"restaurant_name": "No Plan Diner",
		"subscription_plan": "GOLD"
	}`)
	w := doRequest(r, "POST", "/accounts/register/owner/", payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.User{}).Where("username = ?", "planless").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLogoutClearsRestaurantContext(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	user := createUser(t, db, "leaver", models.RoleCustomer, "password!1")
	sess := createSessionFor(t, db, user, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
		models.SessionKeyRestaurantID: float64(99),
		models.SessionKeyCart:         map[string]interface{}{"item-1": 2},
	})

	w := doRequest(r, "POST", "/accounts/logout/", nil, sess.Key)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login/", w.Header().Get("Location"))

	replacement := responseSession(t, db, w, "")
	assert.Nil(t, replacement.UserID)
	_, hasCart := replacement.Get(models.SessionKeyCart)
	assert.False(t, hasCart)
	_, hasRestaurant := replacement.Get(models.SessionKeyRestaurantID)
	assert.False(t, hasRestaurant)
}

func TestUpdateTaxRate(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	owner := createUser(t, db, "taxowner", models.RoleOwner, "password!1")
	sess := createSessionFor(t, db, owner, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
	})

	w := doRequest(r, "POST", "/accounts/tax-rate/", []byte(`{"tax_rate": 0.1}`), sess.Key)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 10.0, body["tax_rate_percentage"], 0.001)

	var updated models.User
	assert.NoError(t, db.First(&updated, owner.ID).Error)
	assert.InDelta(t, 0.1, updated.TaxRate, 0.0001)

	// The frontend sends the rate as a decimal string.
	w = doRequest(r, "POST", "/accounts/tax-rate/", []byte(`{"tax_rate": "0.08"}`), sess.Key)
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 8.0, body["tax_rate_percentage"], 0.001)

	// Out of range.
	w = doRequest(r, "POST", "/accounts/tax-rate/", []byte(`{"tax_rate": 1.5}`), sess.Key)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])

	// Malformed body.
	w = doRequest(r, "POST", "/accounts/tax-rate/", []byte(`{"tax_rate": "lots"}`), sess.Key)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestUpdateTaxRateOwnersOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	customer := createUser(t, db, "taxcustomer", models.RoleCustomer, "password!1")
	sess := createSessionFor(t, db, customer, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
	})

	w := doRequest(r, "POST", "/accounts/tax-rate/", []byte(`{"tax_rate": 0.1}`), sess.Key)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "owners")
}
