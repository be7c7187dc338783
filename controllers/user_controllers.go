package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/altynbek07/dineqr/database"
	"github.com/altynbek07/dineqr/forms"
	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Sessions *middlewares.SessionManager
}

func NewUserController(db *gorm.DB, sessions *middlewares.SessionManager) *UserController {
	return &UserController{DB: db, Sessions: sessions}
}

// dashboardFor maps a role to its landing page after login.
func dashboardFor(user *models.User) string {
	switch {
	case user.IsAdministrator():
		return "/system-admin/dashboard/"
	case user.IsAnyOwner():
		return "/admin-panel/dashboard/"
	case user.IsKitchenStaff():
		return "/kitchen/dashboard/"
	case user.IsCustomerCare():
		return "/customer-care/dashboard/"
	case user.IsCashier():
		return "/cashier/dashboard/"
	default:
		return "/restaurant/menu/"
	}
}

// Login authenticates against the session layer and reports the
// role-based redirect target.
func (uc *UserController) Login(c *gin.Context) {
	if middlewares.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/restaurant/menu/")
		return
	}

	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	err := uc.DB.Preload("Role").Where("username = ?", form.Username).First(&user).Error
	if err != nil || !user.IsActive {
		utils.InfoLogger.Printf("Failed login attempt for username %q", form.Username)
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		utils.InfoLogger.Printf("Failed login attempt for username %q", form.Username)
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid username or password"))
		return
	}

	uc.Sessions.Login(c, &user)
	utils.InfoLogger.Printf("User %q logged in", user.Username)

	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	middlewares.AddFlash(c, "success", "Welcome back, "+name+"!")

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user_id":  user.ID,
		"redirect": dashboardFor(&user),
	})
}

// Logout is POST-only so a crafted <img> tag cannot log users out. The
// cart and restaurant context go down with the session.
func (uc *UserController) Logout(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	if user != nil {
		utils.InfoLogger.Printf("User %q logged out", user.Username)
	}

	sess := middlewares.GetSession(c)
	sess.ClearRestaurantContext()
	uc.Sessions.Logout(c)

	middlewares.AddFlash(c, "success", "You have been logged out successfully. Your cart has been cleared.")
	c.Redirect(http.StatusFound, "/accounts/login/")
}

// Register creates a customer account. The role is assigned here, never
// taken from the request.
func (uc *UserController) Register(c *gin.Context) {
	if middlewares.CurrentUser(c) != nil {
		middlewares.AddFlash(c, "info", "You are already logged in.")
		c.Redirect(http.StatusFound, "/restaurant/menu/")
		return
	}

	var form forms.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := form.Validate(uc.DB); err != nil {
		respondValidation(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role, err := database.GetRole(uc.DB, models.RoleCustomer)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username:    form.Username,
		Email:       form.Email,
		Password:    string(hashed),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
		Address:     form.Address,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Username, role.Name)

	utils.RespondJSON(c, http.StatusCreated, "Registration successful! You can now log in.", gin.H{
		"user_id":  user.ID,
		"redirect": "/accounts/login/",
	})
}

// RegisterOwner onboards a restaurant owner: the account gets the owner
// role, a fresh QR code and a main Restaurant row carrying the chosen
// plan. The subscription itself is activated by an administrator, so a
// brand-new restaurant stays gated until then.
func (uc *UserController) RegisterOwner(c *gin.Context) {
	if middlewares.CurrentUser(c) != nil {
		middlewares.AddFlash(c, "info", "You are already logged in.")
		c.Redirect(http.StatusFound, "/restaurant/menu/")
		return
	}

	var form forms.OwnerRegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := form.Validate(uc.DB); err != nil {
		respondValidation(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role, err := database.GetRole(uc.DB, models.RoleOwner)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username:              form.Username,
		Email:                 form.Email,
		Password:              string(hashed),
		FirstName:             form.FirstName,
		LastName:              form.LastName,
		PhoneNumber:           form.PhoneNumber,
		Address:               form.Address,
		RestaurantName:        form.RestaurantName,
		RestaurantDescription: form.RestaurantDescription,
		RoleID:                &role.ID,
		IsActive:              true,
	}
	qrCode := user.GenerateQRCode()

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		restaurant := models.Restaurant{
			Name:             form.RestaurantName,
			Description:      form.RestaurantDescription,
			QRCode:           qrCode,
			SubscriptionPlan: form.SubscriptionPlan,
			MainOwnerID:      user.ID,
			IsMainRestaurant: true,
			IsActive:         true,
		}
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New owner registered: %s (restaurant=%q, plan=%s)",
		user.Username, form.RestaurantName, form.SubscriptionPlan)

	utils.RespondJSON(c, http.StatusCreated,
		"Owner registration successful for "+form.RestaurantName+"! You can now log in.", gin.H{
			"user_id":  user.ID,
			"qr_code":  qrCode,
			"redirect": "/accounts/login/",
		})
}

// Profile returns the role-shaped profile payload.
func (uc *UserController) Profile(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	if user == nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("login required"))
		return
	}

	data := gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       "",
	}
	if user.Role != nil {
		data["role"] = user.Role.Name
	}

	switch {
	case user.IsAnyOwner():
		data["restaurant_name"] = user.RestaurantName
		data["tax_rate_percentage"] = user.TaxRatePercentage()
		if user.RestaurantQRCode != nil {
			data["qr_code"] = *user.RestaurantQRCode
		}
	case user.IsCustomer():
		sess := middlewares.GetSession(c)
		data["restaurant_name"] = sess.GetString(models.SessionKeyRestaurantName)
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", data)
}

// UpdateTaxRate handles POST /accounts/tax-rate/. The payload shape
// mirrors the frontend contract: {success, message, tax_rate_percentage?}
// and malformed input never escapes as an error.
func (uc *UserController) UpdateTaxRate(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	if user == nil || !user.IsOwner() {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Only restaurant owners can update tax rates.",
		})
		return
	}

	// The frontend sends the rate as a decimal string; a plain number is
	// accepted too.
	var body struct {
		TaxRate interface{} `json:"tax_rate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Invalid tax rate value",
		})
		return
	}

	taxRate, err := parseTaxRate(body.TaxRate)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Invalid tax rate value",
		})
		return
	}
	if taxRate < 0 || taxRate > 0.9999 {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Tax rate must be between 0% and 99.99%",
		})
		return
	}

	if err := uc.DB.Model(user).Update("tax_rate", taxRate).Error; err != nil {
		utils.ErrorLogger.Printf("tax rate update for user %d failed: %v", user.ID, err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "An error occurred while updating tax rate",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "Tax rate updated successfully",
		"tax_rate_percentage": taxRate * 100,
	})
}

func parseTaxRate(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, errors.New("invalid tax rate value")
	}
}

func respondValidation(c *gin.Context, err error) {
	var fieldErrs forms.FieldErrors
	if errors.As(err, &fieldErrs) {
		utils.RespondJSON(c, http.StatusBadRequest, "Validation failed", gin.H{"errors": fieldErrs})
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}
