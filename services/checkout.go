package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/models"
)

type CheckoutStore interface {
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
}

type DeliveryConfig interface {
	Delivery(ctx context.Context) (models.DeliverySettings, error)
}

type CartLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	Items         []CartLine `json:"items"`
	OrderType     string     `json:"order_type"`
	PaymentMethod string     `json:"payment_method"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Street        string     `json:"street"`
	City          string     `json:"city"`
	Notes         string     `json:"notes"`
}

// Checkout places storefront orders.
type Checkout struct {
	store    CheckoutStore
	delivery DeliveryConfig
}

func NewCheckout(store CheckoutStore, delivery DeliveryConfig) *Checkout {
	return &Checkout{store: store, delivery: delivery}
}

// validate runs every check that needs no remote call.
func (req *CheckoutRequest) validate(sess *Session) (models.OrderType, models.PaymentMethod, error) {
	if len(req.Items) == 0 {
		return "", "", invalid("items", "cart is empty")
	}
	for _, l := range req.Items {
		if l.ProductID == "" {
			return "", "", invalid("items", "product_id is required")
		}
		if l.Quantity < 1 {
			return "", "", invalid("items", "quantity must be at least 1")
		}
	}

	orderType := models.OrderTypePickup
	if req.OrderType != "" {
		t, err := models.ParseOrderType(req.OrderType)
		if err != nil {
			return "", "", invalid("order_type", err.Error())
		}
		orderType = t
	}
	method := models.PaymentCash
	if req.PaymentMethod != "" {
		m, err := models.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return "", "", invalid("payment_method", err.Error())
		}
		method = m
	}

	if sess == nil {
		required := []struct{ field, value string }{
			{"first_name", req.FirstName},
			{"last_name", req.LastName},
			{"phone", req.Phone},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return "", "", invalid(r.field, "is required")
			}
		}
	}
	if orderType == models.OrderTypeDelivery {
		if strings.TrimSpace(req.Street) == "" {
			return "", "", invalid("street", "is required for delivery")
		}
		if strings.TrimSpace(req.City) == "" {
			return "", "", invalid("city", "is required for delivery")
		}
	}
	return orderType, method, nil
}

// PlaceOrder prices the cart from the store, never from the client, and
// writes the order with its items in one transaction. sess is nil for guests.
func (c *Checkout) PlaceOrder(ctx context.Context, sess *Session, req CheckoutRequest) (*models.Order, error) {
	orderType, method, err := req.validate(sess)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, l := range req.Items {
		ids = append(ids, l.ProductID)
	}
	products, err := c.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Status:        models.StatusPending,
		OrderType:     orderType,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPaid,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if method == models.PaymentCash {
		order.PaymentStatus = models.PaymentPending
	}

	subtotal := decimal.Zero
	for _, l := range req.Items {
		p, ok := products[l.ProductID]
		if !ok || !p.Orderable() {
			return nil, invalid("items", "product "+l.ProductID+" is not available")
		}
		pid := p.ID
		item := models.OrderItem{
			ProductID:   &pid,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   p.Price,
		}
		subtotal = subtotal.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}

	ds, err := c.delivery.Delivery(ctx)
	if err != nil {
		return nil, err
	}
	if minAmount := decimal.NewFromFloat(ds.MinOrderAmount); subtotal.LessThan(minAmount) {
		return nil, invalid("items", "minimum order amount is "+minAmount.StringFixed(2))
	}
	fee := decimal.Zero
	if orderType == models.OrderTypeDelivery {
		fee = decimal.NewFromFloat(ds.DeliveryFee).Round(2)
		if ds.FreeDeliveryThreshold != nil && subtotal.GreaterThanOrEqual(decimal.NewFromFloat(*ds.FreeDeliveryThreshold)) {
			fee = decimal.Zero
		}
	}
	order.Subtotal = subtotal
	order.DeliveryFee = fee
	order.Total = subtotal.Add(fee)

	if sess != nil {
		order.UserID = &sess.UserID
		order.GuestInfo = models.NewGuestInfo(nil)
	} else {
		order.GuestInfo = models.NewGuestInfo(&models.GuestInfo{
			Name:  strings.TrimSpace(req.FirstName + " " + req.LastName),
			Phone: strings.TrimSpace(req.Phone),
			Email: strings.TrimSpace(req.Email),
		})
	}
	if orderType == models.OrderTypeDelivery {
		order.DeliveryAddress = models.NewDeliveryAddress(&models.DeliveryAddress{
			Street: strings.TrimSpace(req.Street),
			City:   strings.TrimSpace(req.City),
			Phone:  strings.TrimSpace(req.Phone),
		})
	}

	if err := c.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
