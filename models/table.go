package models

import "time"

// Table is a dining table belonging to an owner account. Customers pick
// one after QR access resolves their restaurant.
type Table struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     uint      `gorm:"index;not null"`
	TableNumber string    `gorm:"type:varchar(50);not null"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
