package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnknownProductName is shown when neither the product nor a snapshot exists.
const UnknownProductName = "Unknown product"

type OrderItem struct {
	ID      string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	// ProductID is nulled when the product row is removed for good.
	ProductID   *string         `gorm:"type:varchar(36);index" json:"product_id,omitempty"`
	Product     *Product        `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"product,omitempty"`
	ProductName string          `gorm:"type:varchar(255);not null;default:''" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

// DisplayName prefers the live product name and falls back to the snapshot
// taken when the order was placed.
func (i *OrderItem) DisplayName() string {
	if i.Product != nil && i.Product.Name != "" {
		return i.Product.Name
	}
	if i.ProductName != "" {
		return i.ProductName
	}
	return UnknownProductName
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
