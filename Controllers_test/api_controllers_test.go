package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/altynbek07/dineqr/models"
)

func TestAPILoginAndProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	createUser(t, db, "printclient", models.RoleCashier, "password!1")

	w := doRequest(r, "POST", "/api/login", []byte(`{"username": "printclient", "password": "password!1"}`), "")
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleCashier, data["user_role"])

	req := httptest.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.RemoteAddr = "192.0.2.10:52000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "printclient", profile["username"])
	assert.Equal(t, models.RoleCashier, profile["role"])
}

func TestAPILoginRefusesCustomers(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	createUser(t, db, "justdining", models.RoleCustomer, "password!1")

	w := doRequest(r, "POST", "/api/login", []byte(`{"username": "justdining", "password": "password!1"}`), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIProfileRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	w := doRequest(r, "GET", "/api/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
