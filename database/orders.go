package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yeremiapane/restaurant-ordering/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows ListOrders. Zero values mean "no constraint".
type OrderFilter struct {
	Statuses    []models.OrderStatus
	From        time.Time
	To          time.Time
	UserID      string
	Limit       int
	NewestFirst bool
}

// withItems preloads items and their products, including soft-deleted ones,
// so historical orders always render.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := withItems(db.Model(&models.Order{}))
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.NewestFirst {
		q = q.Order("created_at DESC")
	} else {
		q = q.Order("created_at ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, WrapErr("list orders", err)
	}
	return orders, nil
}

// ListKitchenOrders returns pending and preparing orders, oldest first.
func (s *Store) ListKitchenOrders(ctx context.Context) ([]models.Order, error) {
	return s.ListOrders(ctx, OrderFilter{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusPreparing},
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var order models.Order
	if err := withItems(db).First(&order, "id = ?", id).Error; err != nil {
		return nil, WrapErr("get order", err)
	}
	return &order, nil
}

// CreateOrder inserts the order and its items in one transaction together
// with the order.created journal row.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return recordChange(tx, models.ChangeOrderCreated, order.ID, map[string]interface{}{
			"status": order.Status,
			"total":  order.Total.StringFixed(2),
		})
	})
	return WrapErr("create order", err)
}

// UpdateOrderStatus moves the order to target only when its current status
// is one of from. It reports whether a row changed.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from []models.OrderStatus, target models.OrderStatus) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	changed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", id, from).
			Updates(map[string]interface{}{"status": target, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return recordChange(tx, models.ChangeOrderStatusChanged, id, map[string]interface{}{
			"status": target,
		})
	})
	if err != nil {
		return false, WrapErr("update order status", err)
	}
	return changed, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"payment_status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return WrapErr("update payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func recordChange(tx *gorm.DB, action, recordID string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&models.DBChange{
		Entity:     "orders",
		RecordID:   recordID,
		ActionType: action,
		Payload:    datatypes.JSON(raw),
		ChangedAt:  time.Now(),
	}).Error
}

func (s *Store) CountOrders(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Model(&models.Order{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, WrapErr("count orders", err)
	}
	return n, nil
}
