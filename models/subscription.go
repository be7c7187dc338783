package models

import "time"

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionExpired   = "expired"
	SubscriptionBlocked   = "blocked"
	SubscriptionCancelled = "cancelled"

	// Reported to the unavailable page when no subscription row exists.
	SubscriptionNone = "no_subscription"
)

// RestaurantSubscription gates customer access to a restaurant. There is
// at most one per owning account; branch restaurants are governed by the
// main owner's record.
type RestaurantSubscription struct {
	ID uint `gorm:"primaryKey"`

	RestaurantOwnerID uint  `gorm:"uniqueIndex;not null"`
	RestaurantOwner   *User `gorm:"foreignKey:RestaurantOwnerID"`

	SubscriptionStartDate time.Time `gorm:"not null"`
	SubscriptionEndDate   time.Time `gorm:"not null"`

	SubscriptionPlan   string `gorm:"type:varchar(20);default:'trial'"`
	SubscriptionStatus string `gorm:"type:varchar(20);default:'active'"`

	IsBlockedByAdmin bool   `gorm:"default:false"`
	BlockReason      string `gorm:"type:text"`

	// Days after the end date before access is actually cut.
	GracePeriodDays int     `gorm:"default:7"`
	MonthlyFee      float64 `gorm:"type:decimal(10,2);default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GraceEndDate is the last instant the subscription still grants access.
func (s *RestaurantSubscription) GraceEndDate() time.Time {
	return s.SubscriptionEndDate.AddDate(0, 0, s.GracePeriodDays)
}

// IsActiveAt reports whether the subscription grants access at the given
// time: not admin-blocked, status active, and inside the paid period plus
// grace.
func (s *RestaurantSubscription) IsActiveAt(now time.Time) bool {
	if s.IsBlockedByAdmin {
		return false
	}
	if s.SubscriptionStatus != SubscriptionActive {
		return false
	}
	if now.Before(s.SubscriptionStartDate) {
		return false
	}
	if now.After(s.GraceEndDate()) {
		return false
	}
	return true
}

// IsInGracePeriod reports whether the paid period lapsed but access is
// still granted.
func (s *RestaurantSubscription) IsInGracePeriod(now time.Time) bool {
	return now.After(s.SubscriptionEndDate) &&
		!now.After(s.GraceEndDate()) &&
		s.SubscriptionStatus == SubscriptionActive &&
		!s.IsBlockedByAdmin
}

// DaysUntilExpiration is negative once the end date has passed.
func (s *RestaurantSubscription) DaysUntilExpiration(now time.Time) int {
	return int(s.SubscriptionEndDate.Sub(now).Hours() / 24)
}

// Subscription log actions.
const (
	SubscriptionLogCreated   = "created"
	SubscriptionLogExtended  = "extended"
	SubscriptionLogBlocked   = "blocked"
	SubscriptionLogUnblocked = "unblocked"
	SubscriptionLogExpired   = "expired"
)

// SubscriptionLog is the audit trail of subscription state changes.
type SubscriptionLog struct {
	ID             uint `gorm:"primaryKey"`
	SubscriptionID uint `gorm:"index;not null"`

	Action    string `gorm:"type:varchar(20);not null"`
	OldStatus string `gorm:"type:varchar(20)"`
	NewStatus string `gorm:"type:varchar(20)"`
	Notes     string `gorm:"type:text"`

	PerformedByID *uint `gorm:"index"`

	CreatedAt time.Time
}
