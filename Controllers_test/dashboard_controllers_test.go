package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/altynbek07/dineqr/models"
)

func TestDashboardRoleGate(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	cook := createUser(t, db, "gatecook", models.RoleKitchen, "password!1")
	cookSess := createSessionFor(t, db, cook, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
	})

	w := doRequest(r, "GET", "/kitchen/dashboard/", nil, cookSess.Key)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "GET", "/cashier/dashboard/", nil, cookSess.Key)
	assert.Equal(t, http.StatusForbidden, w.Code)

	diner := createUser(t, db, "gatediner", models.RoleCustomer, "password!1")
	dinerSess := createSessionFor(t, db, diner, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
	})

	w = doRequest(r, "GET", "/kitchen/dashboard/", nil, dinerSess.Key)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "GET", "/kitchen/dashboard/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdministratorPassesEveryGate(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullRouter(db)

	admin := createUser(t, db, "gateadmin", models.RoleAdministrator, "password!1")
	sess := createSessionFor(t, db, admin, map[string]interface{}{
		models.SessionKeyLastActivity: float64(time.Now().Unix()),
	})

	for _, path := range []string{
		"/kitchen/dashboard/",
		"/cashier/dashboard/",
		"/customer-care/dashboard/",
		"/admin-panel/dashboard/",
		"/system-admin/dashboard/",
	} {
		w := doRequest(r, "GET", path, nil, sess.Key)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
