package Controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/testutil"
)

func TestGuestCheckout(t *testing.T) {
	s := newTestServer(t)
	paella := testutil.SeedProduct(t, s.store, "Paella", "12.00")

	w := s.do(http.MethodPost, "/checkout", "", map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": paella.ID, "quantity": 2}},
		"order_type":     "delivery",
		"payment_method": "cash",
		"first_name":     "Ana",
		"last_name":      "García",
		"phone":          "600111222",
		"street":         "Calle Mayor 1",
		"city":           "Madrid",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		OrderID string       `json:"order_id"`
		ShortID string       `json:"short_id"`
		Order   models.Order `json:"order"`
	}
	decode(t, w, &placed)
	assert.Len(t, placed.ShortID, 8)
	assert.Equal(t, "26.5", placed.Order.Total.String())
	assert.Equal(t, models.StatusPending, placed.Order.Status)

	stored, err := s.store.GetOrder(context.Background(), placed.OrderID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestCheckoutValidation(t *testing.T) {
	s := newTestServer(t)
	paella := testutil.SeedProduct(t, s.store, "Paella", "12.00")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty cart", map[string]interface{}{"first_name": "A", "last_name": "B", "phone": "1"}},
		{"guest without phone", map[string]interface{}{
			"items": []map[string]interface{}{{"product_id": paella.ID, "quantity": 1}}, "first_name": "A", "last_name": "B",
		}},
		{"unknown product", map[string]interface{}{
			"items": []map[string]interface{}{{"product_id": "missing", "quantity": 1}}, "first_name": "A", "last_name": "B", "phone": "1",
		}},
		{"delivery without address", map[string]interface{}{
			"items":      []map[string]interface{}{{"product_id": paella.ID, "quantity": 1}},
			"order_type": "delivery", "first_name": "A", "last_name": "B", "phone": "1",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/checkout", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCustomerCheckoutSkipsGuestFields(t *testing.T) {
	s := newTestServer(t)
	paella := testutil.SeedProduct(t, s.store, "Paella", "12.00")
	token := s.login("ana@example.com", models.RoleCustomer)

	w := s.do(http.MethodPost, "/checkout", token, map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": paella.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
