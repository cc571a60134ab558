package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},

		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusDelivered, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.allowed {
			assert.NoError(t, err, "%s → %s should be allowed", tc.from, tc.to)
		} else {
			assert.Error(t, err, "%s → %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.Error(t, CanTransition("Pending", "Refunded"))
	assert.Error(t, CanTransition("Draft", "Pending"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusDelivered))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.False(t, IsTerminalStatus(StatusShipped))
	assert.False(t, IsTerminalStatus("Refunded"))
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Espresso Blend", Price: 150, Quantity: 2},
		{Name: "Butter Cookie", Price: 50, Quantity: 1},
	}

	assert.Equal(t, 350.0, Subtotal(items))
	assert.Equal(t, 350.0, OrderTotal(items, 0))
	assert.Equal(t, 315.0, OrderTotal(items, 35))

	// Discount can never push the total below zero
	assert.Equal(t, 0.0, OrderTotal(items, 500))
	assert.Equal(t, 0.0, OrderTotal(nil, 10))
}

func TestRewardPointsFor(t *testing.T) {
	assert.Equal(t, 35, RewardPointsFor(350))
	assert.Equal(t, 34, RewardPointsFor(349.99))
	assert.Equal(t, 0, RewardPointsFor(9.99))
	assert.Equal(t, 0, RewardPointsFor(0))
	assert.Equal(t, 0, RewardPointsFor(-100))
}
