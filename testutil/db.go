// Package testutil opens throwaway sqlite stores for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func NewStore(t testing.TB) *database.Store {
	return database.NewStore(NewDB(t), 5*time.Second)
}

// SeedProduct inserts an available product with the given price.
func SeedProduct(t testing.TB, store *database.Store, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	if err := store.DB().Create(&p).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return p
}

// SeedOrder inserts an order with one line per product at its current price.
func SeedOrder(t testing.TB, store *database.Store, status models.OrderStatus, createdAt time.Time, guest *models.GuestInfo, lines ...Line) models.Order {
	t.Helper()
	order := models.Order{
		Status:        status,
		OrderType:     models.OrderTypePickup,
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPending,
		GuestInfo:     models.NewGuestInfo(guest),
		CreatedAt:     createdAt,
	}
	total := decimal.Zero
	for _, l := range lines {
		pid := l.Product.ID
		item := models.OrderItem{
			ProductID:   &pid,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
		}
		total = total.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}
	order.Subtotal = total
	order.Total = total
	if err := store.DB().Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

type Line struct {
	Product  models.Product
	Quantity int
}
