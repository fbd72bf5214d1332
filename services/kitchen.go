package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type UrgencyTier string

const (
	TierHigh    UrgencyTier = "high"
	TierDelayed UrgencyTier = "delayed"
	TierNormal  UrgencyTier = "normal"
)

// DefaultDelayedAfterMinutes is when a pending order starts to show as delayed.
const DefaultDelayedAfterMinutes = 20

// Tier classifies a kitchen ticket with the default delay threshold.
func Tier(status models.OrderStatus, elapsedMinutes int) UrgencyTier {
	return tierWithThreshold(status, elapsedMinutes, DefaultDelayedAfterMinutes)
}

func tierWithThreshold(status models.OrderStatus, elapsedMinutes, delayedAfter int) UrgencyTier {
	if status == models.StatusPreparing {
		return TierHigh
	}
	if elapsedMinutes > delayedAfter {
		return TierDelayed
	}
	return TierNormal
}

// ElapsedLabel renders elapsed minutes as "now", "N min" or "Hh Mm".
func ElapsedLabel(minutes int) string {
	switch {
	case minutes < 1:
		return "now"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
}

type TicketItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type KitchenTicket struct {
	ID             string             `json:"id"`
	ShortID        string             `json:"short_id"`
	Status         models.OrderStatus `json:"status"`
	OrderType      models.OrderType   `json:"order_type"`
	CreatedAt      time.Time          `json:"created_at"`
	ElapsedMinutes int                `json:"elapsed_minutes"`
	ElapsedLabel   string             `json:"elapsed_label"`
	Tier           UrgencyTier        `json:"tier"`
	Items          []TicketItem       `json:"items"`
	CustomerName   string             `json:"customer_name"`
	Phone          string             `json:"phone,omitempty"`
	Notes          string             `json:"notes,omitempty"`
}

// kitchenState is a reducer over the last applied server snapshot and the
// optimistic removals that are not yet reflected in it.
type kitchenState struct {
	snapshot   []models.Order
	issuedSeq  uint64
	appliedSeq uint64
	nextOpID   uint64
	ops        []optimisticOp
	closed     bool
}

type optimisticOp struct {
	id      uint64
	orderID string
	acked   bool
	// ackSeq is the last fetch issued before the write was acknowledged.
	ackSeq uint64
}

func (s *kitchenState) beginFetch() uint64 {
	s.issuedSeq++
	return s.issuedSeq
}

// applySnapshot installs a fetch result unless a newer one was applied.
func (s *kitchenState) applySnapshot(seq uint64, orders []models.Order) bool {
	if s.closed || seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.snapshot = orders

	kept := s.ops[:0]
	for _, op := range s.ops {
		if op.acked && seq > op.ackSeq {
			continue
		}
		kept = append(kept, op)
	}
	s.ops = kept
	return true
}

func (s *kitchenState) addRemoval(orderID string) uint64 {
	s.nextOpID++
	s.ops = append(s.ops, optimisticOp{id: s.nextOpID, orderID: orderID})
	return s.nextOpID
}

func (s *kitchenState) ack(opID uint64) {
	for i := range s.ops {
		if s.ops[i].id == opID {
			s.ops[i].acked = true
			s.ops[i].ackSeq = s.issuedSeq
			return
		}
	}
}

func (s *kitchenState) rollback(opID uint64) {
	for i := range s.ops {
		if s.ops[i].id == opID {
			s.ops = append(s.ops[:i], s.ops[i+1:]...)
			return
		}
	}
}

func (s *kitchenState) view() []models.Order {
	hidden := make(map[string]bool, len(s.ops))
	for _, op := range s.ops {
		hidden[op.orderID] = true
	}
	out := make([]models.Order, 0, len(s.snapshot))
	for _, o := range s.snapshot {
		if !hidden[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

type KitchenStore interface {
	ListKitchenOrders(ctx context.Context) ([]models.Order, error)
}

type StatusChanger interface {
	Transition(ctx context.Context, sess *Session, orderID string, target models.OrderStatus, opts TransitionOptions) (*TransitionResult, error)
}

type KitchenOptions struct {
	PollInterval        time.Duration
	DelayedAfterMinutes int
	// OnUpdate receives the ticket list after every visible change.
	OnUpdate func([]KitchenTicket)
}

// KitchenDisplay keeps the kitchen view of pending and preparing orders.
type KitchenDisplay struct {
	store     KitchenStore
	lifecycle StatusChanger
	opts      KitchenOptions
	now       func() time.Time

	mu    sync.Mutex
	state kitchenState

	refresher *Refresher
	unsub     func()
}

func NewKitchenDisplay(store KitchenStore, lifecycle StatusChanger, opts KitchenOptions) *KitchenDisplay {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.DelayedAfterMinutes <= 0 {
		opts.DelayedAfterMinutes = DefaultDelayedAfterMinutes
	}
	return &KitchenDisplay{
		store:     store,
		lifecycle: lifecycle,
		opts:      opts,
		now:       time.Now,
	}
}

// Start polls on the configured interval and refreshes early on order changes.
func (k *KitchenDisplay) Start(ctx context.Context, feed ChangeFeed) {
	k.mu.Lock()
	if k.refresher != nil || k.state.closed {
		k.mu.Unlock()
		return
	}
	k.refresher = NewRefresher(k.opts.PollInterval, k.Refresh)
	refresher := k.refresher
	k.mu.Unlock()

	if feed != nil {
		unsub := feed.Subscribe(func(ChangeEvent) { refresher.Notify() })
		k.mu.Lock()
		closed := k.state.closed
		if !closed {
			k.unsub = unsub
		}
		k.mu.Unlock()
		// Stop already ran and could not see this subscription.
		if closed {
			unsub()
			return
		}
	}
	refresher.Start(ctx)
}

// Stop tears down polling and the subscription. Later fetch results are dropped.
func (k *KitchenDisplay) Stop() {
	k.mu.Lock()
	refresher, unsub := k.refresher, k.unsub
	k.state.closed = true
	k.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	if refresher != nil {
		refresher.Stop()
	}
}

// Refresh fetches the active orders and applies them unless a newer fetch won.
func (k *KitchenDisplay) Refresh(ctx context.Context) error {
	k.mu.Lock()
	seq := k.state.beginFetch()
	k.mu.Unlock()

	orders, err := k.store.ListKitchenOrders(ctx)
	if err != nil {
		return err
	}

	k.mu.Lock()
	applied := k.state.applySnapshot(seq, orders)
	k.mu.Unlock()
	if applied {
		k.publish()
	}
	return nil
}

func (k *KitchenDisplay) Tickets() []KitchenTicket {
	k.mu.Lock()
	orders := k.state.view()
	k.mu.Unlock()

	now := k.now()
	tickets := make([]KitchenTicket, 0, len(orders))
	for i := range orders {
		tickets = append(tickets, k.ticket(&orders[i], now))
	}
	return tickets
}

func (k *KitchenDisplay) ticket(o *models.Order, now time.Time) KitchenTicket {
	elapsed := int(now.Sub(o.CreatedAt).Minutes())
	if elapsed < 0 {
		elapsed = 0
	}
	items := make([]TicketItem, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, TicketItem{Name: o.Items[i].DisplayName(), Quantity: o.Items[i].Quantity})
	}
	return KitchenTicket{
		ID:             o.ID,
		ShortID:        o.ShortID(),
		Status:         o.Status,
		OrderType:      o.OrderType,
		CreatedAt:      o.CreatedAt,
		ElapsedMinutes: elapsed,
		ElapsedLabel:   ElapsedLabel(elapsed),
		Tier:           tierWithThreshold(o.Status, elapsed, k.opts.DelayedAfterMinutes),
		Items:          items,
		CustomerName:   o.CustomerName(),
		Phone:          o.CustomerPhone(),
		Notes:          o.Notes,
	}
}

// StartCooking moves pending to preparing, then re-fetches immediately.
func (k *KitchenDisplay) StartCooking(ctx context.Context, sess *Session, orderID string) error {
	if _, err := k.lifecycle.Transition(ctx, sess, orderID, models.StatusPreparing, TransitionOptions{Surface: models.SurfaceKitchen}); err != nil {
		return err
	}
	return k.Refresh(ctx)
}

// MarkReady hides the ticket before the write resolves. A failed write
// brings it back.
func (k *KitchenDisplay) MarkReady(ctx context.Context, sess *Session, orderID string) error {
	if err := requireBackOffice(sess); err != nil {
		return err
	}
	k.mu.Lock()
	opID := k.state.addRemoval(orderID)
	k.mu.Unlock()
	k.publish()

	_, err := k.lifecycle.Transition(ctx, sess, orderID, models.StatusReady, TransitionOptions{Surface: models.SurfaceKitchen})

	k.mu.Lock()
	if err != nil {
		k.state.rollback(opID)
	} else {
		k.state.ack(opID)
	}
	k.mu.Unlock()

	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("order_id", orderID).Warn("mark ready failed, ticket restored")
		k.publish()
		return err
	}
	return nil
}

func (k *KitchenDisplay) publish() {
	if k.opts.OnUpdate == nil {
		return
	}
	k.mu.Lock()
	closed := k.state.closed
	k.mu.Unlock()
	if closed {
		return
	}
	k.opts.OnUpdate(k.Tickets())
}
