package offer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"krc_coffee_backend/internal/models"
)

func testOffer() models.Offer {
	return models.Offer{
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		MinOrderValue: 200,
		ValidUntil:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestEvaluatePercentage(t *testing.T) {
	v := Evaluate(testOffer(), 350, time.Now())

	assert.True(t, v.Valid)
	assert.Equal(t, 35.0, v.Discount)
	assert.Equal(t, models.DiscountPercentage, v.Type)
	assert.Equal(t, "SAVE10", v.Code)
}

func TestEvaluateBelowMinimum(t *testing.T) {
	v := Evaluate(testOffer(), 150, time.Now())

	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "Minimum order value")
	assert.Equal(t, 0.0, v.Discount)
}

func TestEvaluateExpired(t *testing.T) {
	o := testOffer()
	o.ValidUntil = time.Now().Add(-time.Hour)

	v := Evaluate(o, 350, time.Now())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "expired")
}

func TestEvaluateExpiredIgnoresActiveFlag(t *testing.T) {
	// An expired coupon is invalid no matter what is_active says
	o := testOffer()
	o.IsActive = true
	o.ValidUntil = time.Now().Add(-time.Minute)

	v := Evaluate(o, 1000, time.Now())
	assert.False(t, v.Valid)
}

func TestEvaluateInactive(t *testing.T) {
	o := testOffer()
	o.IsActive = false

	v := Evaluate(o, 350, time.Now())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "no longer active")
}

func TestEvaluateAlreadyUsed(t *testing.T) {
	o := testOffer()
	o.IsUsed = true

	v := Evaluate(o, 350, time.Now())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "already been used")
}

func TestEvaluateFixedDiscount(t *testing.T) {
	o := testOffer()
	o.DiscountType = models.DiscountFixed
	o.DiscountValue = 50

	v := Evaluate(o, 350, time.Now())
	assert.True(t, v.Valid)
	assert.Equal(t, 50.0, v.Discount)
}

func TestEvaluateFixedDiscountClamped(t *testing.T) {
	// A fixed discount larger than the subtotal brings the order to zero,
	// never negative
	o := testOffer()
	o.DiscountType = models.DiscountFixed
	o.DiscountValue = 500
	o.MinOrderValue = 0

	v := Evaluate(o, 300, time.Now())
	assert.True(t, v.Valid)
	assert.Equal(t, 300.0, v.Discount)
}

func TestEvaluateExactMinimum(t *testing.T) {
	v := Evaluate(testOffer(), 200, time.Now())
	assert.True(t, v.Valid)
	assert.Equal(t, 20.0, v.Discount)
}

func TestEffectiveActive(t *testing.T) {
	o := testOffer()
	assert.True(t, o.EffectiveActive(time.Now()))

	o.ValidUntil = time.Now().Add(-time.Second)
	assert.False(t, o.EffectiveActive(time.Now()))

	o = testOffer()
	o.IsActive = false
	assert.False(t, o.EffectiveActive(time.Now()))
}

func TestCustomerView(t *testing.T) {
	now := time.Now()

	live := testOffer()
	expired := testOffer()
	expired.ValidUntil = now.Add(-time.Hour)
	disabled := testOffer()
	disabled.IsActive = false
	used := testOffer()
	used.IsUsed = true
	used.UsedBy = "some-user-id"

	view := customerView([]models.Offer{live, expired, disabled, used}, now)

	assert.Len(t, view, 2)
	for _, o := range view {
		assert.Empty(t, o.UsedBy)
		assert.Nil(t, o.UsedOrderID)
	}
	// a redeemed coupon stays listed with its flag
	assert.True(t, view[1].IsUsed)
}

func TestCustomerViewEmpty(t *testing.T) {
	assert.Empty(t, customerView(nil, time.Now()))
}
