package models

import "time"

// Role names used throughout the platform. "owner" is the legacy
// single-restaurant role, kept for accounts created before the
// main/branch split.
const (
	RoleAdministrator = "administrator"
	RoleMainOwner     = "main_owner"
	RoleBranchOwner   = "branch_owner"
	RoleOwner         = "owner"
	RoleCustomerCare  = "customer_care"
	RoleKitchen       = "kitchen"
	RoleBar           = "bar"
	RoleCashier       = "cashier"
	RoleCustomer      = "customer"
)

// AllRoles is the seed set created at startup.
var AllRoles = []string{
	RoleAdministrator,
	RoleMainOwner,
	RoleBranchOwner,
	RoleOwner,
	RoleCustomerCare,
	RoleKitchen,
	RoleBar,
	RoleCashier,
	RoleCustomer,
}

// OwnerRoles are the roles whose accounts can be resolved from a QR code.
var OwnerRoles = []string{RoleOwner, RoleMainOwner, RoleBranchOwner}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(20);unique;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}
