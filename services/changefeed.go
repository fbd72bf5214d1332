package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// ChangeEvent is one order insert or status change. Delivery is
// at-least-once and unordered across orders.
type ChangeEvent struct {
	Action  string             `json:"action"`
	OrderID string             `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	Total   decimal.Decimal    `json:"total"`
	At      time.Time          `json:"at"`
}

// ChangeFeed delivers change events to in-process subscribers.
type ChangeFeed interface {
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

// EventSink receives events read from the change journal.
type EventSink interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// LocalFeed fans events out to subscribers of this process.
type LocalFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(ChangeEvent)
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[int]func(ChangeEvent))}
}

func (f *LocalFeed) Subscribe(fn func(ChangeEvent)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *LocalFeed) Publish(_ context.Context, ev ChangeEvent) error {
	f.mu.RLock()
	subs := make([]func(ChangeEvent), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.RUnlock()

	for _, fn := range subs {
		dispatch(fn, ev)
	}
	return nil
}

// dispatch keeps one misbehaving subscriber from taking the feed down.
func dispatch(fn func(ChangeEvent), ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.WithField("order_id", ev.OrderID).Errorf("change subscriber panicked: %v", r)
		}
	}()
	fn(ev)
}
