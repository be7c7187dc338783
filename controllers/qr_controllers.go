package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/altynbek07/dineqr/database"
	"github.com/altynbek07/dineqr/forms"
	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrQRNotFound collapses every resolution miss into one user-facing
// failure; the exact miss is only logged.
var ErrQRNotFound = errors.New("QR code not found")

type QRController struct {
	DB       *gorm.DB
	Sessions *middlewares.SessionManager
}

func NewQRController(db *gorm.DB, sessions *middlewares.SessionManager) *QRController {
	return &QRController{DB: db, Sessions: sessions}
}

// resolution is the outcome of mapping a QR code to a serving owner.
// Restaurant is nil for legacy owners that never got a Restaurant row.
type resolution struct {
	Owner      *models.User
	Restaurant *models.Restaurant
}

// DisplayName prefers the Restaurant row's name (parent name for
// branches) and falls back to the owner's legacy restaurant field.
func (r *resolution) DisplayName() string {
	if r.Restaurant != nil {
		return r.Restaurant.DisplayName()
	}
	return r.Owner.RestaurantName
}

// RestaurantName is the name stored in the session; branches keep their
// own name here, DisplayName is only for user-facing pages.
func (r *resolution) RestaurantName() string {
	if r.Restaurant != nil {
		return r.Restaurant.Name
	}
	return r.Owner.RestaurantName
}

// resolveQRCode maps an opaque QR string to its serving owner account.
// The Restaurant table wins; legacy owner accounts that only carry
// restaurant fields on the User row are the fallback.
func (qc *QRController) resolveQRCode(code string) (*resolution, error) {
	code = strings.TrimSpace(strings.TrimRight(code, "/"))
	if code == "" {
		return nil, ErrQRNotFound
	}

	var restaurant models.Restaurant
	err := qc.DB.Preload("ParentRestaurant").
		Where("qr_code = ?", code).
		First(&restaurant).Error

	switch {
	case err == nil:
		servingID := restaurant.ServingOwnerID()
		if servingID == 0 {
			utils.InfoLogger.Printf("QR %q: branch restaurant %d has no branch owner", code, restaurant.ID)
			return nil, ErrQRNotFound
		}
		var owner models.User
		if err := qc.DB.Preload("Role").First(&owner, servingID).Error; err != nil {
			utils.ErrorLogger.Printf("QR %q: restaurant %d has no serving owner: %v", code, restaurant.ID, err)
			return nil, ErrQRNotFound
		}
		if !owner.IsActive {
			utils.InfoLogger.Printf("QR %q: serving owner %d is inactive", code, owner.ID)
			return nil, ErrQRNotFound
		}
		return &resolution{Owner: &owner, Restaurant: &restaurant}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Legacy lookup: owner accounts predating the Restaurant table.
		var owner models.User
		err := qc.DB.Preload("Role").
			Where("restaurant_qr_code = ? AND is_active = ?", code, true).
			First(&owner).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.ErrorLogger.Printf("QR %q: legacy lookup failed: %v", code, err)
			}
			return nil, ErrQRNotFound
		}
		if !owner.IsAnyOwner() {
			utils.InfoLogger.Printf("QR %q: matched user %d without an owner role", code, owner.ID)
			return nil, ErrQRNotFound
		}

		// The legacy owner may still have a Restaurant row keyed by a
		// different code; attach it when present for branch handling.
		res := &resolution{Owner: &owner}
		var linked models.Restaurant
		q := qc.DB.Preload("ParentRestaurant")
		if owner.IsBranchOwner() {
			err = q.Where("branch_owner_id = ? AND is_main_restaurant = ?", owner.ID, false).First(&linked).Error
		} else {
			err = q.Where("main_owner_id = ? AND is_main_restaurant = ?", owner.ID, true).First(&linked).Error
		}
		if err == nil {
			res.Restaurant = &linked
		}
		return res, nil

	default:
		utils.ErrorLogger.Printf("QR %q: restaurant lookup failed: %v", code, err)
		return nil, ErrQRNotFound
	}
}

// gateResult is the subscription decision for a resolved restaurant.
type gateResult struct {
	Allowed            bool
	Reason             string
	SubscriptionStatus string
}

// checkSubscription applies the gate. Branches cascade to the main
// owner's subscription; a missing record blocks exactly like an inactive
// one. Reason precedence: admin block, then expiry, then generic.
func (qc *QRController) checkSubscription(res *resolution) gateResult {
	subscriptionOwnerID := res.Owner.ID
	if res.Restaurant != nil && !res.Restaurant.IsMainRestaurant {
		subscriptionOwnerID = res.Restaurant.SubscriptionOwnerID()
	}

	var sub models.RestaurantSubscription
	err := qc.DB.Where("restaurant_owner_id = ?", subscriptionOwnerID).First(&sub).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("subscription lookup for owner %d failed: %v", subscriptionOwnerID, err)
		}
		return gateResult{
			Allowed:            false,
			Reason:             "This restaurant is temporarily unavailable.",
			SubscriptionStatus: models.SubscriptionNone,
		}
	}

	if sub.IsActiveAt(time.Now()) {
		return gateResult{Allowed: true, SubscriptionStatus: sub.SubscriptionStatus}
	}

	reason := "This restaurant is temporarily unavailable."
	if sub.IsBlockedByAdmin {
		reason = "This restaurant is temporarily suspended. Please contact the restaurant for more information."
	} else if sub.SubscriptionStatus == models.SubscriptionExpired {
		reason = "This restaurant is temporarily unavailable due to expired subscription."
	}
	return gateResult{Allowed: false, Reason: reason, SubscriptionStatus: sub.SubscriptionStatus}
}

// storeRestaurantContext writes the access context into the session.
// selected_restaurant_id is always the owner ACCOUNT id, never the
// Restaurant row id; table selection loads the owner by this value.
func storeRestaurantContext(sess *models.Session, res *resolution) {
	sess.Set(models.SessionKeyRestaurantID, float64(res.Owner.ID))
	sess.Set(models.SessionKeyRestaurantName, res.RestaurantName())
	sess.Set(models.SessionKeyAccessMethod, "qr_code")
}

func (qc *QRController) failInvalidQR(c *gin.Context, code string) {
	utils.InfoLogger.Printf("QR code access failed: %q", code)
	middlewares.AddFlash(c, "error", "Invalid QR code. Restaurant not found.")
	c.Redirect(http.StatusFound, "/accounts/login/")
}

func (qc *QRController) respondUnavailable(c *gin.Context, res *resolution, code string, gate gateResult) {
	utils.RespondJSON(c, http.StatusForbidden, "Restaurant unavailable", gin.H{
		"display_name":        res.DisplayName(),
		"qr_code":             code,
		"reason":              gate.Reason,
		"subscription_status": gate.SubscriptionStatus,
		"current_time":        time.Now(),
	})
}

// respondRegistrationUnavailable is the registration-flow variant of the
// gate failure: the wording talks about registrations, not access.
func (qc *QRController) respondRegistrationUnavailable(c *gin.Context, res *resolution, code string, gate gateResult) {
	utils.RespondJSON(c, http.StatusForbidden, "New registrations are not available", gin.H{
		"display_name":        res.DisplayName(),
		"qr_code":             code,
		"reason":              "This restaurant is temporarily unavailable for new registrations.",
		"subscription_status": gate.SubscriptionStatus,
		"current_time":        time.Now(),
	})
}

// Access handles GET /r/:qr_code. Resolution and gating as documented on
// the helpers, then the caller-state branch: anonymous visitors get the
// landing payload, customers continue into table selection, staff of the
// same owner go to their dashboard, everyone else lands on the menu.
func (qc *QRController) Access(c *gin.Context) {
	code := c.Param("qr_code")

	res, err := qc.resolveQRCode(code)
	if err != nil {
		qc.failInvalidQR(c, code)
		return
	}

	gate := qc.checkSubscription(res)
	if !gate.Allowed {
		qc.respondUnavailable(c, res, code, gate)
		return
	}

	sess := middlewares.GetSession(c)
	storeRestaurantContext(sess, res)

	user := middlewares.CurrentUser(c)
	if user == nil {
		utils.RespondJSON(c, http.StatusOK, "Restaurant found", gin.H{
			"display_name": res.DisplayName(),
			"qr_code":      code,
			"register_url": "/r/" + code + "/register",
			"login_url":    "/accounts/login/",
		})
		return
	}

	if user.IsCustomer() {
		middlewares.AddFlash(c, "success", "Welcome to "+res.RestaurantName()+"!")
		c.Redirect(http.StatusFound, "/orders/tables/")
		return
	}

	if user.GetOwnerID() == res.Owner.ID {
		switch {
		case user.IsKitchenStaff():
			c.Redirect(http.StatusFound, "/kitchen/dashboard/")
			return
		case user.IsCashier():
			c.Redirect(http.StatusFound, "/cashier/dashboard/")
			return
		case user.IsAnyOwner():
			c.Redirect(http.StatusFound, "/admin-panel/dashboard/")
			return
		}
	}

	middlewares.AddFlash(c, "success", "Welcome to "+res.RestaurantName()+"!")
	c.Redirect(http.StatusFound, "/restaurant/menu/")
}

// CustomerRegisterPage handles GET /r/:qr_code/register: the gate runs
// before the form is shown, and the restaurant context is stored so a
// refresh keeps it.
func (qc *QRController) CustomerRegisterPage(c *gin.Context) {
	code := c.Param("qr_code")

	res, err := qc.resolveQRCode(code)
	if err != nil {
		qc.failInvalidQR(c, code)
		return
	}

	gate := qc.checkSubscription(res)
	if !gate.Allowed {
		qc.respondRegistrationUnavailable(c, res, code, gate)
		return
	}

	sess := middlewares.GetSession(c)
	storeRestaurantContext(sess, res)

	utils.RespondJSON(c, http.StatusOK, "Registration available", gin.H{
		"display_name": res.DisplayName(),
		"qr_code":      code,
	})
}

// CustomerRegister handles POST /r/:qr_code/register: create the customer
// account, log it in and land it in table selection. The restaurant
// context is re-written after login because login rotates the session.
func (qc *QRController) CustomerRegister(c *gin.Context) {
	code := c.Param("qr_code")

	res, err := qc.resolveQRCode(code)
	if err != nil {
		qc.failInvalidQR(c, code)
		return
	}

	gate := qc.checkSubscription(res)
	if !gate.Allowed {
		qc.respondRegistrationUnavailable(c, res, code, gate)
		return
	}

	var form forms.CustomerRegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := form.Validate(qc.DB); err != nil {
		var fieldErrs forms.FieldErrors
		if errors.As(err, &fieldErrs) {
			utils.RespondJSON(c, http.StatusBadRequest, "Validation failed", gin.H{"errors": fieldErrs})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role, err := database.GetRole(qc.DB, models.RoleCustomer)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Universal customer account; not tied to one restaurant.
	user := models.User{
		Username:    form.Username,
		Email:       form.Email,
		Password:    string(hashed),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
		RoleID:      &role.ID,
		Role:        role,
		IsActive:    true,
	}
	if err := qc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New customer registered via QR %q: %s", code, user.Username)

	qc.Sessions.Login(c, &user)
	storeRestaurantContext(middlewares.GetSession(c), res)

	middlewares.AddFlash(c, "success", "Welcome to "+res.DisplayName()+"! Account created successfully.")
	c.Redirect(http.StatusFound, "/orders/tables/")
}
