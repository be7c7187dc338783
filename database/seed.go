package database

import (
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"gorm.io/gorm"
)

var roleDescriptions = map[string]string{
	models.RoleAdministrator: "Platform administrator",
	models.RoleMainOwner:     "Owner of a restaurant chain",
	models.RoleBranchOwner:   "Manager of a single branch",
	models.RoleOwner:         "Restaurant owner (legacy single-restaurant role)",
	models.RoleCustomerCare:  "Customer care staff",
	models.RoleKitchen:       "Kitchen staff",
	models.RoleBar:           "Bar staff",
	models.RoleCashier:       "Cashier",
	models.RoleCustomer:      "Customer",
}

// SeedRoles makes sure every known role exists. Existing rows keep their
// descriptions untouched.
func SeedRoles(db *gorm.DB) error {
	for _, name := range models.AllRoles {
		role := models.Role{Name: name, Description: roleDescriptions[name]}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	utils.InfoLogger.Println("Role seed completed.")
	return nil
}

// GetRole fetches a role by name, creating it if the seed was skipped.
func GetRole(db *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role, models.Role{
		Name:        name,
		Description: roleDescriptions[name],
	}).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
