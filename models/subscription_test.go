package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func baseSubscription() RestaurantSubscription {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return RestaurantSubscription{
		SubscriptionStartDate: start,
		SubscriptionEndDate:   start.AddDate(0, 1, 0),
		SubscriptionStatus:    SubscriptionActive,
		GracePeriodDays:       7,
	}
}

func TestSubscriptionIsActiveAt(t *testing.T) {
	sub := baseSubscription()

	assert.False(t, sub.IsActiveAt(sub.SubscriptionStartDate.Add(-time.Hour)), "before start")
	assert.True(t, sub.IsActiveAt(sub.SubscriptionStartDate), "at start")
	assert.True(t, sub.IsActiveAt(sub.SubscriptionEndDate), "at end")
	assert.True(t, sub.IsActiveAt(sub.SubscriptionEndDate.AddDate(0, 0, 3)), "inside grace")
	assert.True(t, sub.IsActiveAt(sub.GraceEndDate()), "last grace instant")
	assert.False(t, sub.IsActiveAt(sub.GraceEndDate().Add(time.Second)), "past grace")
}

func TestSubscriptionBlockedByAdmin(t *testing.T) {
	sub := baseSubscription()
	sub.IsBlockedByAdmin = true

	assert.False(t, sub.IsActiveAt(sub.SubscriptionStartDate.AddDate(0, 0, 1)))
	assert.False(t, sub.IsInGracePeriod(sub.SubscriptionEndDate.AddDate(0, 0, 1)))
}

func TestSubscriptionNonActiveStatus(t *testing.T) {
	for _, status := range []string{SubscriptionSuspended, SubscriptionExpired, SubscriptionCancelled} {
		sub := baseSubscription()
		sub.SubscriptionStatus = status
		assert.False(t, sub.IsActiveAt(sub.SubscriptionStartDate.AddDate(0, 0, 1)), status)
	}
}

func TestSubscriptionGracePeriod(t *testing.T) {
	sub := baseSubscription()

	assert.False(t, sub.IsInGracePeriod(sub.SubscriptionEndDate.Add(-time.Hour)))
	assert.True(t, sub.IsInGracePeriod(sub.SubscriptionEndDate.Add(time.Hour)))
	assert.True(t, sub.IsInGracePeriod(sub.GraceEndDate()))
	assert.False(t, sub.IsInGracePeriod(sub.GraceEndDate().Add(time.Second)))

	sub.GracePeriodDays = 0
	assert.Equal(t, sub.SubscriptionEndDate, sub.GraceEndDate())
}

func TestDaysUntilExpiration(t *testing.T) {
	sub := baseSubscription()

	assert.Equal(t, 10, sub.DaysUntilExpiration(sub.SubscriptionEndDate.AddDate(0, 0, -10)))
	assert.Equal(t, 0, sub.DaysUntilExpiration(sub.SubscriptionEndDate))
	assert.Equal(t, -5, sub.DaysUntilExpiration(sub.SubscriptionEndDate.AddDate(0, 0, 5)))
}
