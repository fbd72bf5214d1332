package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/testutil"
)

func newCheckout(t *testing.T) (*database.Store, *Checkout, models.Product) {
	t.Helper()
	store := testutil.NewStore(t)
	p := testutil.SeedProduct(t, store, "Paella", "6.50")
	return store, NewCheckout(store, NewSettingsService(store)), p
}

func guestRequest(productID string, qty int) CheckoutRequest {
	return CheckoutRequest{
		Items:     []CartLine{{ProductID: productID, Quantity: qty}},
		FirstName: "Ana",
		LastName:  "García",
		Phone:     "600 111 222",
		Email:     "ana@example.com",
	}
}

func TestPlaceGuestPickupOrder(t *testing.T) {
	store, checkout, p := newCheckout(t)
	ctx := context.Background()

	order, err := checkout.PlaceOrder(ctx, nil, guestRequest(p.ID, 2))
	require.NoError(t, err)
	assert.True(t, dec("13.00").Equal(order.Total))
	assert.True(t, dec("0").Equal(order.DeliveryFee))
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana García", stored.CustomerName())
	require.Len(t, stored.Items, 1)
	assert.True(t, dec("6.50").Equal(stored.Items[0].UnitPrice))
}

func TestPlaceDeliveryOrderAppliesFeeAndThreshold(t *testing.T) {
	store, checkout, p := newCheckout(t)
	ctx := context.Background()

	req := guestRequest(p.ID, 1)
	req.OrderType = "delivery"
	req.PaymentMethod = "card"
	req.Street = "Carrer Major 1"
	req.City = "Valencia"

	order, err := checkout.PlaceOrder(ctx, nil, req)
	require.NoError(t, err)
	assert.True(t, dec("2.50").Equal(order.DeliveryFee))
	assert.True(t, dec("9.00").Equal(order.Total))
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	require.NotNil(t, order.Address())
	assert.Equal(t, "Valencia", order.Address().City)

	threshold := 10.0
	raw, _ := json.Marshal(models.DeliverySettings{DeliveryFee: 3, FreeDeliveryThreshold: &threshold})
	require.NoError(t, store.PutSetting(ctx, models.SettingDeliverySettings, raw))

	req.Items[0].Quantity = 2
	order, err = checkout.PlaceOrder(ctx, nil, req)
	require.NoError(t, err)
	assert.True(t, dec("0").Equal(order.DeliveryFee))
	assert.True(t, dec("13.00").Equal(order.Total))
}

func TestPlaceOrderMinimumAmount(t *testing.T) {
	store, checkout, p := newCheckout(t)
	ctx := context.Background()
	raw, _ := json.Marshal(models.DeliverySettings{DeliveryFee: 2.5, MinOrderAmount: 10})
	require.NoError(t, store.PutSetting(ctx, models.SettingDeliverySettings, raw))

	_, err := checkout.PlaceOrder(ctx, nil, guestRequest(p.ID, 1))
	assert.True(t, IsValidation(err))
}

func TestPlaceOrderValidation(t *testing.T) {
	store, checkout, p := newCheckout(t)
	ctx := context.Background()

	cases := map[string]CheckoutRequest{
		"empty cart":    {FirstName: "Ana", LastName: "G", Phone: "1"},
		"missing phone": {Items: []CartLine{{ProductID: p.ID, Quantity: 1}}, FirstName: "Ana", LastName: "G"},
		"bad quantity":  {Items: []CartLine{{ProductID: p.ID, Quantity: 0}}, FirstName: "Ana", LastName: "G", Phone: "1"},
		"bad type":      func() CheckoutRequest { r := guestRequest(p.ID, 1); r.OrderType = "drone"; return r }(),
		"no address":    func() CheckoutRequest { r := guestRequest(p.ID, 1); r.OrderType = "delivery"; return r }(),
		"unknown item":  guestRequest("does-not-exist", 1),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := checkout.PlaceOrder(ctx, nil, req)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	n, err := store.CountOrders(ctx, models.AllStatuses)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaceOrderForAccountHasNoGuestInfo(t *testing.T) {
	store, checkout, p := newCheckout(t)
	ctx := context.Background()
	sess := &Session{UserID: "user-1", Role: models.RoleCustomer}

	order, err := checkout.PlaceOrder(ctx, sess, CheckoutRequest{Items: []CartLine{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Guest())
	require.NotNil(t, stored.UserID)
	assert.Equal(t, "user-1", *stored.UserID)
}
