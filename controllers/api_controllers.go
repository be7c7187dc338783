package controllers

import (
	"errors"
	"net/http"

	"github.com/altynbek07/dineqr/forms"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// APIController is the token-based surface for non-browser clients: the
// thermal print client and staff mobile dashboards authenticate here
// instead of carrying a session cookie.
type APIController struct {
	DB *gorm.DB
}

func NewAPIController(db *gorm.DB) *APIController {
	return &APIController{DB: db}
}

// Login exchanges staff credentials for a JWT.
func (ac *APIController) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	err := ac.DB.Preload("Role").Where("username = ?", form.Username).First(&user).Error
	if err != nil || !user.IsActive {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if user.IsCustomer() {
		utils.RespondError(c, http.StatusForbidden, errors.New("API access is for staff accounts"))
		return
	}

	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}
	token, err := utils.GenerateToken(user.ID, role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": role,
	})
}

// Profile returns the token holder's account.
func (ac *APIController) Profile(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := ac.DB.Preload("Role").First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     role,
	})
}
