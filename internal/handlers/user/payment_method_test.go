package user

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"krc_coffee_backend/internal/models"
)

func TestValidExpiry(t *testing.T) {
	assert.True(t, ValidExpiry("01/26"))
	assert.True(t, ValidExpiry("12/30"))

	assert.False(t, ValidExpiry("13/26"))
	assert.False(t, ValidExpiry("00/26"))
	assert.False(t, ValidExpiry("1/26"))
	assert.False(t, ValidExpiry("01/2026"))
	assert.False(t, ValidExpiry("0126"))
	assert.False(t, ValidExpiry(""))
}

func TestApplyPrimary(t *testing.T) {
	a, b, c := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()
	methods := []models.PaymentMethod{
		{ID: a, IsPrimary: true},
		{ID: b, IsPrimary: false},
		{ID: c, IsPrimary: true}, // inconsistent input, two primaries
	}

	methods = ApplyPrimary(methods, b)

	primaries := 0
	for _, m := range methods {
		if m.IsPrimary {
			primaries++
			assert.Equal(t, b, m.ID)
		}
	}
	assert.Equal(t, 1, primaries)
}
