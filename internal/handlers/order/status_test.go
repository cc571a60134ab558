package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"krc_coffee_backend/internal/models"
)

func TestPaidOnDeliveryCOD(t *testing.T) {
	now := time.Now()
	o := models.Order{PaymentMethod: models.PaymentCOD}

	isPaid, paidAt := paidOnDelivery(o, now)

	assert.True(t, isPaid)
	if assert.NotNil(t, paidAt) {
		assert.Equal(t, now, *paidAt)
	}
}

// An online order was paid when the Stripe webhook fired, delivery must not
// overwrite that timestamp.
func TestPaidOnDeliveryKeepsStripeTimestamp(t *testing.T) {
	paidEarlier := time.Now().Add(-48 * time.Hour)
	o := models.Order{
		PaymentMethod: models.PaymentOnline,
		IsPaid:        true,
		PaidAt:        &paidEarlier,
	}

	isPaid, paidAt := paidOnDelivery(o, time.Now())

	assert.True(t, isPaid)
	if assert.NotNil(t, paidAt) {
		assert.Equal(t, paidEarlier, *paidAt)
	}
}
