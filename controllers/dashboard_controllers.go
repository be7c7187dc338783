package controllers

import (
	"net/http"

	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardController serves the role dashboards QR access and login
// redirect into. Each returns the context its frontend needs.
type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

func (dc *DashboardController) dashboard(c *gin.Context, name string) {
	user := middlewares.CurrentUser(c)
	utils.RespondJSON(c, http.StatusOK, name, gin.H{
		"username": user.Username,
		"role":     c.GetString("role"),
		"flashes":  middlewares.TakeFlashes(c),
	})
}

func (dc *DashboardController) Kitchen(c *gin.Context) {
	dc.dashboard(c, "Kitchen dashboard")
}

func (dc *DashboardController) Cashier(c *gin.Context) {
	dc.dashboard(c, "Cashier dashboard")
}

func (dc *DashboardController) CustomerCare(c *gin.Context) {
	dc.dashboard(c, "Customer care dashboard")
}

// AdminPanel is the owner dashboard: restaurant context, subscription
// state and the QR code to print.
func (dc *DashboardController) AdminPanel(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	data := gin.H{
		"username":        user.Username,
		"restaurant_name": user.RestaurantName,
		"flashes":         middlewares.TakeFlashes(c),
	}
	if user.RestaurantQRCode != nil {
		data["qr_code"] = *user.RestaurantQRCode
	}

	var sub models.RestaurantSubscription
	if err := dc.DB.Where("restaurant_owner_id = ?", user.GetOwnerID()).First(&sub).Error; err == nil {
		data["subscription_status"] = sub.SubscriptionStatus
		data["subscription_end_date"] = sub.SubscriptionEndDate
	} else {
		data["subscription_status"] = models.SubscriptionNone
	}

	utils.RespondJSON(c, http.StatusOK, "Owner dashboard", data)
}

// SystemAdmin lists subscriptions for the platform administrator.
func (dc *DashboardController) SystemAdmin(c *gin.Context) {
	var subs []models.RestaurantSubscription
	if err := dc.DB.Preload("RestaurantOwner").Find(&subs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "System dashboard", gin.H{
		"subscriptions": subs,
		"flashes":       middlewares.TakeFlashes(c),
	})
}
