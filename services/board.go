package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
)

// CompletedLaneLimit caps how many finished orders the board shows.
const CompletedLaneLimit = 10

type BoardLane struct {
	Lane   models.Lane    `json:"lane"`
	Count  int            `json:"count"`
	Orders []models.Order `json:"orders"`
}

type Lanes struct {
	New           BoardLane `json:"new"`
	InKitchen     BoardLane `json:"in_kitchen"`
	ReadyDelivery BoardLane `json:"ready_delivery"`
	Completed     BoardLane `json:"completed"`
}

// BuildLanes groups orders by lane. Active lanes are oldest first; the
// completed lane keeps the most recent ones. completedTotal is the full
// number of completed orders when the caller fetched only a page of them.
func BuildLanes(orders []models.Order, completedTotal int) Lanes {
	lanes := Lanes{
		New:           BoardLane{Lane: models.LaneNew, Orders: []models.Order{}},
		InKitchen:     BoardLane{Lane: models.LaneInKitchen, Orders: []models.Order{}},
		ReadyDelivery: BoardLane{Lane: models.LaneReadyDelivery, Orders: []models.Order{}},
		Completed:     BoardLane{Lane: models.LaneCompleted, Orders: []models.Order{}},
	}
	for _, o := range orders {
		switch o.Status.Lane() {
		case models.LaneNew:
			lanes.New.Orders = append(lanes.New.Orders, o)
		case models.LaneInKitchen:
			lanes.InKitchen.Orders = append(lanes.InKitchen.Orders, o)
		case models.LaneReadyDelivery:
			lanes.ReadyDelivery.Orders = append(lanes.ReadyDelivery.Orders, o)
		default:
			lanes.Completed.Orders = append(lanes.Completed.Orders, o)
		}
	}

	for _, l := range []*BoardLane{&lanes.New, &lanes.InKitchen, &lanes.ReadyDelivery} {
		sort.SliceStable(l.Orders, func(i, j int) bool {
			return l.Orders[i].CreatedAt.Before(l.Orders[j].CreatedAt)
		})
		l.Count = len(l.Orders)
	}

	done := lanes.Completed.Orders
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CreatedAt.After(done[j].CreatedAt)
	})
	lanes.Completed.Count = len(done)
	if completedTotal > lanes.Completed.Count {
		lanes.Completed.Count = completedTotal
	}
	if len(done) > CompletedLaneLimit {
		lanes.Completed.Orders = done[:CompletedLaneLimit]
	}
	return lanes
}

// DraftLine is one product line of a manual order.
type DraftLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l DraftLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDraft accumulates a walk-in order before it is submitted.
type OrderDraft struct {
	mu    sync.Mutex
	lines []DraftLine
}

func NewOrderDraft() *OrderDraft {
	return &OrderDraft{}
}

// AddProduct adds one unit, merging with an existing line of the same product.
func (d *OrderDraft) AddProduct(p models.Product) error {
	if !p.Orderable() {
		return invalid("product_id", "product "+p.Name+" is not available")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.lines {
		if d.lines[i].ProductID == p.ID {
			d.lines[i].Quantity++
			return nil
		}
	}
	d.lines = append(d.lines, DraftLine{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: 1})
	return nil
}

func (d *OrderDraft) Increment(productID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines[i].Quantity++
			return true
		}
	}
	return false
}

// Decrement removes the line instead of letting its quantity reach zero.
func (d *OrderDraft) Decrement(productID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			if d.lines[i].Quantity <= 1 {
				d.lines = append(d.lines[:i], d.lines[i+1:]...)
			} else {
				d.lines[i].Quantity--
			}
			return true
		}
	}
	return false
}

func (d *OrderDraft) Remove(productID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (d *OrderDraft) Lines() []DraftLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DraftLine, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *OrderDraft) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines() {
		total = total.Add(l.Total())
	}
	return total
}

func (d *OrderDraft) IsEmpty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lines) == 0
}

func (d *OrderDraft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = nil
}

type BoardStore interface {
	ListOrders(ctx context.Context, f database.OrderFilter) ([]models.Order, error)
	CountOrders(ctx context.Context, statuses []models.OrderStatus) (int64, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
}

// WalkInCustomerName is used when a manual order has no customer name.
const WalkInCustomerName = "Walk-in customer"

// OrderBoard serves the lane view and manual order entry.
type OrderBoard struct {
	store BoardStore
}

func NewOrderBoard(store BoardStore) *OrderBoard {
	return &OrderBoard{store: store}
}

var terminalStatuses = []models.OrderStatus{models.StatusDelivered, models.StatusCancelled}

func activeStatuses() []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range models.AllStatuses {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

func (b *OrderBoard) Lanes(ctx context.Context, sess *Session) (Lanes, error) {
	if err := requireBackOffice(sess); err != nil {
		return Lanes{}, err
	}
	active, err := b.store.ListOrders(ctx, database.OrderFilter{Statuses: activeStatuses()})
	if err != nil {
		return Lanes{}, err
	}
	done, err := b.store.ListOrders(ctx, database.OrderFilter{
		Statuses:    terminalStatuses,
		NewestFirst: true,
		Limit:       CompletedLaneLimit,
	})
	if err != nil {
		return Lanes{}, err
	}
	total, err := b.store.CountOrders(ctx, terminalStatuses)
	if err != nil {
		return Lanes{}, err
	}
	return BuildLanes(append(active, done...), int(total)), nil
}

// DraftFromRequest resolves product ids into a draft. Unknown, deleted or
// unavailable products are rejected.
func (b *OrderBoard) DraftFromRequest(ctx context.Context, lines []ManualOrderLine) (*OrderDraft, error) {
	draft := NewOrderDraft()
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		p, err := b.store.GetProduct(ctx, l.ProductID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, invalid("product_id", "unknown product "+l.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if err := draft.AddProduct(*p); err != nil {
			return nil, err
		}
		for i := 1; i < l.Quantity; i++ {
			draft.Increment(p.ID)
		}
	}
	return draft, nil
}

type ManualOrderLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// SubmitManualOrder inserts a pending pickup order paid in cash. Order and
// items are written in one transaction.
func (b *OrderBoard) SubmitManualOrder(ctx context.Context, sess *Session, draft *OrderDraft, customerName string) (*models.Order, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	if draft == nil || draft.IsEmpty() {
		return nil, invalid("items", "order must contain at least one product")
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = WalkInCustomerName
	}
	lines := draft.Lines()
	subtotal := draft.Subtotal()

	order := &models.Order{
		Status:          models.StatusPending,
		OrderType:       models.OrderTypePickup,
		PaymentMethod:   models.PaymentCash,
		PaymentStatus:   models.PaymentPending,
		Subtotal:        subtotal,
		DeliveryFee:     decimal.Zero,
		Total:           subtotal,
		GuestInfo:       models.NewGuestInfo(&models.GuestInfo{Name: name}),
		DeliveryAddress: models.NewDeliveryAddress(nil),
	}
	for _, l := range lines {
		pid := l.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   &pid,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	if err := b.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	draft.Reset()
	return order, nil
}
