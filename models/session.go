package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session keys written by the access and ordering flows.
const (
	SessionKeyCart           = "cart"
	SessionKeySelectedTable  = "selected_table"
	SessionKeyRestaurantID   = "selected_restaurant_id"
	SessionKeyRestaurantName = "selected_restaurant_name"
	SessionKeyAccessMethod   = "access_method"
	SessionKeyLastActivity   = "last_activity"
	SessionKeyActivityCount  = "activity_count"
	SessionKeyLastPage       = "last_page"
	SessionKeySessionStart   = "session_start"
)

// Session is a server-side browser session, keyed by an opaque cookie
// value. Arbitrary per-session state travels in the Data JSON column.
type Session struct {
	ID        uint    `gorm:"primaryKey"`
	Key       string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID    *uint   `gorm:"index"`
	Data      datatypes.JSON
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	values map[string]interface{} `gorm:"-"`
	dirty  bool                   `gorm:"-"`
}

// NewSession creates an anonymous session with a fresh random key.
func NewSession(ttl time.Duration) *Session {
	// values stays nil so the first Get/Set parses whatever Data holds
	// by then; Login relies on this to carry data across key rotation.
	return &Session{
		Key:       uuid.NewString(),
		Data:      datatypes.JSON([]byte("{}")),
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (s *Session) load() {
	if s.values != nil {
		return
	}
	s.values = map[string]interface{}{}
	if len(s.Data) > 0 {
		// A corrupt payload degrades to an empty session rather than a 500.
		_ = json.Unmarshal(s.Data, &s.values)
	}
}

func (s *Session) Get(key string) (interface{}, bool) {
	s.load()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) GetString(key string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// GetUint reads an integer-valued key. JSON round-trips numbers as
// float64, so both forms are accepted.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

func (s *Session) GetFloat(key string) (float64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

func (s *Session) Set(key string, value interface{}) {
	s.load()
	s.values[key] = value
	s.dirty = true
}

func (s *Session) Delete(key string) {
	s.load()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// ClearRestaurantContext drops the keys written by QR access and the
// ordering flow. Called on logout.
func (s *Session) ClearRestaurantContext() {
	s.Delete(SessionKeyCart)
	s.Delete(SessionKeySelectedTable)
	s.Delete(SessionKeyRestaurantID)
	s.Delete(SessionKeyRestaurantName)
	s.Delete(SessionKeyAccessMethod)
}

// Dirty reports whether Set/Delete was called since the last Flush.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Flush serializes pending values back into the Data column.
func (s *Session) Flush() error {
	s.load()
	raw, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	s.Data = datatypes.JSON(raw)
	s.dirty = false
	return nil
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
