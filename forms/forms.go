// Package forms holds the request payloads for login and registration and
// the cross-field checks that gin's binding tags cannot express.
package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"gorm.io/gorm"
)

// FieldErrors maps a field name (or "form" for form-level problems) to a
// message. It implements error so controllers can hand it straight to the
// response helpers.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

type LoginForm struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// RegistrationForm is the customer self-registration payload. Role is
// deliberately absent: the view assigns it after validation so a crafted
// request can never escalate privileges.
type RegistrationForm struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	PhoneNumber     string `json:"phone_number" binding:"max=15"`
	Address         string `json:"address"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`

	// Honeypot. Hidden in the real form; anything here means a bot.
	Website string `json:"website"`
}

// Validate runs the cross-field and database checks shared by every
// registration variant.
func (f *RegistrationForm) Validate(db *gorm.DB) error {
	return validateRegistration(db, f.Website, f.Password, f.ConfirmPassword, f.Username, f.Email)
}

// OwnerRegistrationForm adds the restaurant and plan fields required to
// onboard an owner account.
type OwnerRegistrationForm struct {
	RegistrationForm
	RestaurantName        string `json:"restaurant_name" binding:"required,max=200"`
	RestaurantDescription string `json:"restaurant_description"`
	SubscriptionPlan      string `json:"subscription_plan" binding:"required,oneof=SINGLE PRO"`
}

func (f *OwnerRegistrationForm) Validate(db *gorm.DB) error {
	return f.RegistrationForm.Validate(db)
}

// CustomerRegistrationForm is the trimmed variant served from a QR
// landing page; no address is collected there.
type CustomerRegistrationForm struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	PhoneNumber     string `json:"phone_number" binding:"max=15"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Website         string `json:"website"`
}

func (f *CustomerRegistrationForm) Validate(db *gorm.DB) error {
	return validateRegistration(db, f.Website, f.Password, f.ConfirmPassword, f.Username, f.Email)
}

func validateRegistration(db *gorm.DB, website, password, confirm, username, email string) error {
	errs := FieldErrors{}

	if website != "" {
		// Do not tell the bot which check it tripped.
		return FieldErrors{"form": "Registration could not be completed."}
	}

	if password != confirm {
		errs["form"] = "Passwords don't match."
	}

	if err := utils.ValidatePasswordStrength(password); err != nil {
		errs["password"] = err.Error()
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		errs["username"] = "A user with this username already exists."
	}

	count = 0
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		errs["email"] = "A user with this email already exists."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
