package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
)

func TestNotificationEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("staff@example.com", models.RoleStaff)

	feed := s.deps.Notifications
	feed.HandleChange(services.ChangeEvent{Action: models.ChangeOrderCreated, OrderID: "order-a"})
	feed.HandleChange(services.ChangeEvent{Action: models.ChangeOrderCreated, OrderID: "order-b"})
	feed.HandleChange(services.ChangeEvent{Action: models.ChangeOrderCreated, OrderID: "order-b"})

	type listing struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	var got listing
	w := s.do(http.MethodGet, "/admin/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	require.Len(t, got.Notifications, 2)
	assert.Equal(t, 2, got.UnreadCount)
	assert.Equal(t, "order-order-b", got.Notifications[0].ID)

	var count struct {
		UnreadCount int `json:"unread_count"`
	}
	w = s.do(http.MethodPost, "/admin/notifications/order-order-a/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &count)
	assert.Equal(t, 1, count.UnreadCount)

	// Reading twice does not decrement again.
	w = s.do(http.MethodPost, "/admin/notifications/order-order-a/read", token, nil)
	decode(t, w, &count)
	assert.Equal(t, 1, count.UnreadCount)

	w = s.do(http.MethodDelete, "/admin/notifications/order-order-b", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &count)
	assert.Equal(t, 0, count.UnreadCount)

	w = s.do(http.MethodDelete, "/admin/notifications/order-order-b", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/admin/notifications", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, feed.List())
}
