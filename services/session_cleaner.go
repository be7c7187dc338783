package services

import (
	"time"

	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/utils"
	"gorm.io/gorm"
)

// SessionCleaner purges expired session rows so the sessions table does
// not grow without bound.
type SessionCleaner struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewSessionCleaner(db *gorm.DB) *SessionCleaner {
	return &SessionCleaner{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Minute,
	}
}

func (sc *SessionCleaner) Start() {
	go func() {
		ticker := time.NewTicker(sc.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sc.purge()
			case <-sc.StopChan:
				return
			}
		}
	}()
}

func (sc *SessionCleaner) Stop() {
	close(sc.StopChan)
}

func (sc *SessionCleaner) purge() {
	result := sc.DB.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		utils.ErrorLogger.Printf("session purge failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		utils.InfoLogger.Printf("Purged %d expired sessions", result.RowsAffected)
	}
}
