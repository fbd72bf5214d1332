package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseOrderStatus("on_hold")
	assert.Error(t, err)

	var st OrderStatus
	assert.Error(t, st.Scan("unknown"))
	assert.Error(t, st.Scan(nil))
	require.NoError(t, st.Scan([]byte("ready")))
	assert.Equal(t, StatusReady, st)
}

func TestTerminalStatesAcceptNoTransition(t *testing.T) {
	for _, from := range []OrderStatus{StatusDelivered, StatusCancelled} {
		for _, to := range AllStatuses {
			err := CanTransition(from, to, "")
			require.Error(t, err)
			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.True(t, te.Terminal)
		}
	}
}

func TestTransitionTableBySurface(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		surface  Surface
		ok       bool
	}{
		{StatusPending, StatusPreparing, SurfaceKitchen, true},
		{StatusPending, StatusPreparing, SurfaceOrderDetail, true},
		{StatusPreparing, StatusReady, SurfaceKitchen, true},
		{StatusReady, StatusDelivered, SurfaceOrderDetail, true},
		{StatusOutForDelivery, StatusDelivered, SurfaceOrderDetail, true},
		{StatusReady, StatusOutForDelivery, SurfaceOrderDetail, true},
		{StatusPending, StatusCancelled, SurfaceOrderDetail, true},
		{StatusOutForDelivery, StatusCancelled, SurfaceOrderDetail, true},
		{StatusPending, StatusCancelled, SurfaceKitchen, false},
		{StatusReady, StatusDelivered, SurfaceKitchen, false},
		{StatusPreparing, StatusPending, SurfaceOrderDetail, false},
		{StatusPending, StatusReady, SurfaceOrderDetail, false},
		{StatusPending, StatusDelivered, "", false},
	}
	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to, tc.surface)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s via %s", tc.from, tc.to, tc.surface)
		} else {
			assert.Error(t, err, "%s -> %s via %s", tc.from, tc.to, tc.surface)
		}
	}
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []OrderStatus{StatusPending}, SourcesFor(StatusPreparing, SurfaceKitchen))
	assert.ElementsMatch(t,
		[]OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusOutForDelivery},
		SourcesFor(StatusCancelled, SurfaceOrderDetail))
	assert.Empty(t, SourcesFor(StatusCancelled, SurfaceKitchen))
	assert.ElementsMatch(t, []OrderStatus{StatusReady, StatusOutForDelivery}, SourcesFor(StatusDelivered, ""))
}

func TestLanes(t *testing.T) {
	assert.Equal(t, LaneNew, StatusPending.Lane())
	assert.Equal(t, LaneInKitchen, StatusPreparing.Lane())
	assert.Equal(t, LaneReadyDelivery, StatusReady.Lane())
	assert.Equal(t, LaneReadyDelivery, StatusOutForDelivery.Lane())
	assert.Equal(t, LaneCompleted, StatusDelivered.Lane())
	assert.Equal(t, LaneCompleted, StatusCancelled.Lane())
}

func TestOrderItemDisplayNameFallback(t *testing.T) {
	item := OrderItem{ProductName: "Paella"}
	assert.Equal(t, "Paella", item.DisplayName())

	item.Product = &Product{Name: "Paella Valenciana"}
	assert.Equal(t, "Paella Valenciana", item.DisplayName())

	assert.Equal(t, UnknownProductName, (&OrderItem{}).DisplayName())
}

func TestOrderShortIDAndCustomer(t *testing.T) {
	o := Order{ID: "a1b2c3d4-e5f6-7890-abcd-ef0123456789"}
	assert.Equal(t, "A1B2C3D4", o.ShortID())
	assert.Equal(t, "Registered customer", o.CustomerName())

	o.GuestInfo = NewGuestInfo(&GuestInfo{Name: "Lucia", Phone: "600111222"})
	assert.Equal(t, "Lucia", o.CustomerName())
	assert.Equal(t, "600111222", o.CustomerPhone())
}
