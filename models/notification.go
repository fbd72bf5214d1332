package models

import "time"

type NotificationType string

const (
	NotificationNewOrder    NotificationType = "new_order"
	NotificationOrderReady  NotificationType = "order_ready"
	NotificationLowStock    NotificationType = "low_stock"
	NotificationNewCustomer NotificationType = "new_customer"
)

// Notification lives only in process memory.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	Data      interface{}      `json:"data,omitempty"`
}
