package models

import "time"

// Subscription plans selectable at owner registration.
const (
	PlanSingle = "SINGLE"
	PlanPro    = "PRO"
)

// Restaurant is the normalized restaurant entity. Main restaurants belong
// to a main owner; branches hang off a parent restaurant and have their
// own branch owner account but no subscription of their own.
type Restaurant struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	QRCode      string `gorm:"type:varchar(50);uniqueIndex;not null"`

	SubscriptionPlan string `gorm:"type:varchar(10);default:'SINGLE'"`

	MainOwnerID uint  `gorm:"index;not null"`
	MainOwner   *User `gorm:"foreignKey:MainOwnerID"`

	BranchOwnerID *uint `gorm:"index"`
	BranchOwner   *User `gorm:"foreignKey:BranchOwnerID"`

	// No gorm default tags on the booleans: gorm skips zero values for
	// fields carrying a default, which would turn every branch row into
	// a main restaurant on insert. Callers set these explicitly.
	IsMainRestaurant bool

	ParentRestaurantID *uint       `gorm:"index"`
	ParentRestaurant   *Restaurant `gorm:"foreignKey:ParentRestaurantID"`

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServingOwnerID selects the account that serves this restaurant:
// branches are served by their branch owner, main restaurants by the
// main owner. A branch without a branch owner returns 0; it has nobody
// to serve it and must not resolve to the main owner.
func (r *Restaurant) ServingOwnerID() uint {
	if !r.IsMainRestaurant {
		if r.BranchOwnerID == nil {
			return 0
		}
		return *r.BranchOwnerID
	}
	return r.MainOwnerID
}

// SubscriptionOwnerID selects the account whose subscription gates access.
// Branches cascade to the main owner's plan.
func (r *Restaurant) SubscriptionOwnerID() uint {
	return r.MainOwnerID
}

// DisplayName shows the parent restaurant's name for branches.
func (r *Restaurant) DisplayName() string {
	if !r.IsMainRestaurant && r.ParentRestaurant != nil {
		return r.ParentRestaurant.Name
	}
	return r.Name
}
