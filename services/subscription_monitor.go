package services

import (
	"time"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"gorm.io/gorm"
)

// SubscriptionMonitor periodically sweeps subscriptions whose paid period
// plus grace has lapsed and flips them to expired, so the QR gate can
// report the precise reason instead of a generic block.
type SubscriptionMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewSubscriptionMonitor(db *gorm.DB) *SubscriptionMonitor {
	return &SubscriptionMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: time.Hour,
	}
}

func (sm *SubscriptionMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.sweep()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *SubscriptionMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *SubscriptionMonitor) sweep() {
	now := time.Now()

	var due []models.RestaurantSubscription
	err := sm.DB.Where("subscription_status = ? AND is_blocked_by_admin = ?",
		models.SubscriptionActive, false).Find(&due).Error
	if err != nil {
		utils.ErrorLogger.Printf("subscription sweep query failed: %v", err)
		return
	}

	for _, sub := range due {
		if !now.After(sub.GraceEndDate()) {
			continue
		}

		err := sm.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.RestaurantSubscription{}).
				Where("id = ?", sub.ID).
				Update("subscription_status", models.SubscriptionExpired).Error; err != nil {
				return err
			}
			return tx.Create(&models.SubscriptionLog{
				SubscriptionID: sub.ID,
				Action:         models.SubscriptionLogExpired,
				OldStatus:      sub.SubscriptionStatus,
				NewStatus:      models.SubscriptionExpired,
				Notes:          "Grace period lapsed",
			}).Error
		})
		if err != nil {
			utils.ErrorLogger.Printf("expiring subscription %d failed: %v", sub.ID, err)
			continue
		}
		utils.InfoLogger.Printf("Subscription %d (owner %d) marked expired", sub.ID, sub.RestaurantOwnerID)
	}
}
