package controllers

import (
	"errors"
	"net/http"

	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

var ErrNoRestaurantSelected = errors.New("no restaurant selected; scan the restaurant QR code first")

// sessionRestaurant validates selected_restaurant_id from the session:
// it must reference an active owner-role account. Invalid values are
// cleared so a poisoned session heals itself.
func (tc *TableController) sessionRestaurant(c *gin.Context) (*models.User, error) {
	sess := middlewares.GetSession(c)

	ownerID, ok := sess.GetUint(models.SessionKeyRestaurantID)
	if !ok || ownerID == 0 {
		return nil, ErrNoRestaurantSelected
	}

	var owner models.User
	err := tc.DB.Preload("Role").First(&owner, ownerID).Error
	if err != nil || !owner.IsActive || !owner.IsAnyOwner() {
		utils.InfoLogger.Printf("Invalid selected_restaurant_id %d in session, clearing", ownerID)
		sess.Delete(models.SessionKeyRestaurantID)
		sess.Delete(models.SessionKeyRestaurantName)
		return nil, ErrNoRestaurantSelected
	}
	return &owner, nil
}

// ListTables shows the selected restaurant's tables for the table
// selection step after QR access.
func (tc *TableController) ListTables(c *gin.Context) {
	owner, err := tc.sessionRestaurant(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("owner_id = ?", owner.ID).Order("table_number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sess := middlewares.GetSession(c)
	utils.RespondJSON(c, http.StatusOK, "Tables for "+sess.GetString(models.SessionKeyRestaurantName), gin.H{
		"restaurant_name": sess.GetString(models.SessionKeyRestaurantName),
		"tables":          tables,
	})
}

// SelectTable stores the chosen table in the session.
func (tc *TableController) SelectTable(c *gin.Context) {
	owner, err := tc.sessionRestaurant(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("id = ? AND owner_id = ?", req.TableID, owner.ID).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found for this restaurant"))
		return
	}

	sess := middlewares.GetSession(c)
	sess.Set(models.SessionKeySelectedTable, float64(table.ID))

	utils.RespondJSON(c, http.StatusOK, "Table selected", gin.H{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"redirect":     "/restaurant/menu/",
	})
}

// Menu is the landing page after table selection; it echoes the session
// restaurant context the frontend renders the menu against.
func (tc *TableController) Menu(c *gin.Context) {
	sess := middlewares.GetSession(c)

	data := gin.H{
		"restaurant_name": sess.GetString(models.SessionKeyRestaurantName),
		"access_method":   sess.GetString(models.SessionKeyAccessMethod),
		"flashes":         middlewares.TakeFlashes(c),
	}
	if tableID, ok := sess.GetUint(models.SessionKeySelectedTable); ok {
		data["selected_table"] = tableID
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", data)
}
