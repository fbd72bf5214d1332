package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GuestInfo is captured for orders placed without an account.
type GuestInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type DeliveryAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Phone  string `json:"phone,omitempty"`
}

type Order struct {
	ID              string                               `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          *string                              `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Status          OrderStatus                          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrderType       OrderType                            `gorm:"type:varchar(20);not null;default:'pickup'" json:"order_type"`
	Subtotal        decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	DeliveryFee     decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	Total           decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	GuestInfo       datatypes.JSONType[*GuestInfo]       `gorm:"not null" json:"guest_info"`
	PaymentMethod   PaymentMethod                        `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	PaymentStatus   PaymentStatus                        `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	DeliveryAddress datatypes.JSONType[*DeliveryAddress] `gorm:"not null" json:"delivery_address"`
	Notes           string                               `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time                            `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time                            `gorm:"not null" json:"updated_at"`
	Items           []OrderItem                          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"order_items"`
}

// Guest returns nil for orders placed by an authenticated account.
func (o *Order) Guest() *GuestInfo {
	return o.GuestInfo.Data()
}

func (o *Order) Address() *DeliveryAddress {
	return o.DeliveryAddress.Data()
}

// ShortID is the ticket number shown on the kitchen display and board.
func (o *Order) ShortID() string {
	head, _, _ := strings.Cut(o.ID, "-")
	return strings.ToUpper(head)
}

// CustomerName falls back to a generic label for account orders.
func (o *Order) CustomerName() string {
	if g := o.Guest(); g != nil && g.Name != "" {
		return g.Name
	}
	return "Registered customer"
}

func (o *Order) CustomerPhone() string {
	if g := o.Guest(); g != nil {
		return g.Phone
	}
	return ""
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func NewGuestInfo(g *GuestInfo) datatypes.JSONType[*GuestInfo] {
	return datatypes.NewJSONType(g)
}

func NewDeliveryAddress(a *DeliveryAddress) datatypes.JSONType[*DeliveryAddress] {
	return datatypes.NewJSONType(a)
}
