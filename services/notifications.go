package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// DefaultNotificationCapacity is how many notifications are kept.
const DefaultNotificationCapacity = 50

// NotificationFeed is the process-local list of business events. It is
// rebuilt from zero on every start and is not a source of truth.
type NotificationFeed struct {
	mu       sync.Mutex
	items    []models.Notification
	unread   int
	capacity int
	now      func() time.Time

	// seen remembers recent ids beyond the stored list so a redelivered
	// event stays deduplicated after Clear or a capacity drop.
	seen      map[string]struct{}
	seenOrder []string
	seenLimit int

	// OnAdd is called outside the lock for every stored notification.
	OnAdd func(models.Notification)
}

func NewNotificationFeed(capacity int) *NotificationFeed {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &NotificationFeed{
		capacity:  capacity,
		now:       time.Now,
		seen:      make(map[string]struct{}),
		seenLimit: 4 * capacity,
	}
}

// HandleChange turns order events into notifications. Redelivered events
// map to the same id and are ignored.
func (f *NotificationFeed) HandleChange(ev ChangeEvent) {
	var n models.Notification
	switch {
	case ev.Action == models.ChangeOrderCreated:
		n = models.Notification{
			ID:      "order-" + ev.OrderID,
			Type:    models.NotificationNewOrder,
			Title:   "New order",
			Message: "Order #" + shortRef(ev.OrderID) + " - " + utils.FormatMoney(ev.Total),
			Data:    map[string]string{"order_id": ev.OrderID},
		}
	case ev.Action == models.ChangeOrderStatusChanged && ev.Status == models.StatusReady:
		n = models.Notification{
			ID:      "ready-" + ev.OrderID,
			Type:    models.NotificationOrderReady,
			Title:   "Order ready",
			Message: "Order #" + shortRef(ev.OrderID) + " is ready",
			Data:    map[string]string{"order_id": ev.OrderID},
		}
	default:
		return
	}
	if !ev.At.IsZero() {
		n.CreatedAt = ev.At
	}
	f.Add(n)
}

// Add prepends n unless its id was seen recently. The oldest entries beyond
// capacity are dropped.
func (f *NotificationFeed) Add(n models.Notification) bool {
	f.mu.Lock()
	if _, dup := f.seen[n.ID]; dup {
		f.mu.Unlock()
		return false
	}
	f.remember(n.ID)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = f.now()
	}
	f.items = append([]models.Notification{n}, f.items...)
	if !n.Read {
		f.unread++
	}
	for len(f.items) > f.capacity {
		dropped := f.items[len(f.items)-1]
		f.items = f.items[:len(f.items)-1]
		if !dropped.Read {
			f.unread--
		}
	}
	onAdd := f.OnAdd
	f.mu.Unlock()

	if onAdd != nil {
		onAdd(n)
	}
	return true
}

// remember records id, forgetting the oldest once seenLimit is reached.
// Caller holds f.mu.
func (f *NotificationFeed) remember(id string) {
	f.seen[id] = struct{}{}
	f.seenOrder = append(f.seenOrder, id)
	if len(f.seenOrder) > f.seenLimit {
		delete(f.seen, f.seenOrder[0])
		f.seenOrder = f.seenOrder[1:]
	}
}

// List returns the stored notifications, newest first.
func (f *NotificationFeed) List() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *NotificationFeed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// MarkAsRead reports whether the notification exists.
func (f *NotificationFeed) MarkAsRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			if !f.items[i].Read {
				f.items[i].Read = true
				f.unread--
			}
			return true
		}
	}
	return false
}

func (f *NotificationFeed) MarkAllAsRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.unread = 0
}

func (f *NotificationFeed) Clear(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			if !f.items[i].Read {
				f.unread--
			}
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

func (f *NotificationFeed) ClearAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	f.unread = 0
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
