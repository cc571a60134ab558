package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krc_coffee_backend/internal/models"
)

func TestApplyMovement(t *testing.T) {
	tests := []struct {
		name     string
		movType  string
		current  int
		quantity int
		want     int
		wantErr  bool
	}{
		{"restock adds", models.MovementRestock, 10, 5, 15, false},
		{"restock from zero", models.MovementRestock, 0, 20, 20, false},
		{"adjustment overwrites", models.MovementAdjustment, 10, 3, 3, false},
		{"adjustment to zero", models.MovementAdjustment, 42, 0, 0, false},
		{"adjustment negative rejected", models.MovementAdjustment, 10, -1, 0, true},
		{"restock below zero rejected", models.MovementRestock, 2, -5, 0, true},
		{"unknown type rejected", "transfer", 10, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyMovement(tt.movType, tt.current, tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A zero quantity is a valid absolute adjustment (sold out), the payload
// validation must not reject it.
func TestUpdateStockAcceptsZeroQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/products/:id/stock", UpdateStock)

	body := `{"quantity":0,"reason":"sold out","type":"adjustment"}`
	req := httptest.NewRequest(http.MethodPut,
		"/products/"+gocql.TimeUUID().String()+"/stock", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "Quantity")
}

func TestUpdateStockRequiresQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/products/:id/stock", UpdateStock)

	body := `{"reason":"recount","type":"adjustment"}`
	req := httptest.NewRequest(http.MethodPut,
		"/products/"+gocql.TimeUUID().String()+"/stock", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
