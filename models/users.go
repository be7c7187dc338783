package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"type:varchar(150);unique;not null"`
	Email     string `gorm:"type:varchar(255);unique;not null"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`

	RoleID *uint `gorm:"index"`
	Role   *Role `gorm:"foreignKey:RoleID"`

	// Staff and customers belong to an owner account.
	OwnerID *uint `gorm:"index"`
	Owner   *User `gorm:"foreignKey:OwnerID"`

	// Legacy restaurant fields. Owner accounts created before the
	// Restaurant table existed carry their restaurant directly; QR
	// resolution still falls back to these when no Restaurant row matches.
	RestaurantName        string  `gorm:"type:varchar(200)"`
	RestaurantDescription string  `gorm:"type:text"`
	RestaurantQRCode      *string `gorm:"type:varchar(50);uniqueIndex"`

	// Fraction, 0.0800 = 8%. Capped below 1.
	TaxRate float64 `gorm:"type:decimal(5,4);default:0.0800"`

	PhoneNumber string `gorm:"type:varchar(15)"`
	Address     string `gorm:"type:text"`

	// No default tag so deactivating via Create/Save cannot be silently
	// undone; every creation path sets this explicitly.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) roleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

func (u *User) IsAdministrator() bool { return u.roleName() == RoleAdministrator }
func (u *User) IsMainOwner() bool     { return u.roleName() == RoleMainOwner }
func (u *User) IsBranchOwner() bool   { return u.roleName() == RoleBranchOwner }
func (u *User) IsCustomerCare() bool  { return u.roleName() == RoleCustomerCare }
func (u *User) IsKitchenStaff() bool  { return u.roleName() == RoleKitchen }
func (u *User) IsBarStaff() bool      { return u.roleName() == RoleBar }
func (u *User) IsCashier() bool       { return u.roleName() == RoleCashier }
func (u *User) IsCustomer() bool      { return u.roleName() == RoleCustomer }

// IsOwner covers the legacy owner role and main owners.
func (u *User) IsOwner() bool {
	name := u.roleName()
	return name == RoleOwner || name == RoleMainOwner
}

// IsAnyOwner is true for every role that can be the target of QR resolution.
func (u *User) IsAnyOwner() bool {
	name := u.roleName()
	return name == RoleOwner || name == RoleMainOwner || name == RoleBranchOwner
}

// GetOwnerID returns the id of the account this user works for.
// Owner accounts answer for themselves.
func (u *User) GetOwnerID() uint {
	if u.IsAnyOwner() || u.OwnerID == nil {
		return u.ID
	}
	return *u.OwnerID
}

// GenerateQRCode assigns a fresh opaque QR identifier to an owner account.
func (u *User) GenerateQRCode() string {
	code := uuid.NewString()
	u.RestaurantQRCode = &code
	return code
}

func (u *User) TaxRatePercentage() float64 {
	return u.TaxRate * 100
}
