package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type LifecycleStore interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from []models.OrderStatus, target models.OrderStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

type TransitionOptions struct {
	Surface models.Surface
	// Confirmed must be set for cancellations.
	Confirmed bool
}

type TransitionResult struct {
	Order   *models.Order
	Changed bool
}

// OrderLifecycle applies status transitions through conditional writes.
type OrderLifecycle struct {
	store LifecycleStore
}

func NewOrderLifecycle(store LifecycleStore) *OrderLifecycle {
	return &OrderLifecycle{store: store}
}

// Transition moves an order to target. Re-sending the current status is a
// no-op. Concurrent writers are resolved by the store: only a row still in
// an allowed source status is updated.
func (l *OrderLifecycle) Transition(ctx context.Context, sess *Session, orderID string, target models.OrderStatus, opts TransitionOptions) (*TransitionResult, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, invalid("status", "unknown status "+string(target))
	}

	order, err := l.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return &TransitionResult{Order: order}, nil
	}
	if target == models.StatusCancelled && !opts.Confirmed {
		return nil, invalid("confirmed", "cancellation must be confirmed")
	}
	if err := classify(models.CanTransition(order.Status, target, opts.Surface)); err != nil {
		return nil, err
	}

	changed, err := l.store.UpdateOrderStatus(ctx, orderID, models.SourcesFor(target, opts.Surface), target)
	if err != nil {
		return nil, err
	}

	current, err := l.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if changed {
		utils.InfoLogger.WithFields(logrus.Fields{
			"order_id": orderID,
			"from":     order.Status,
			"to":       target,
			"user_id":  sess.UserID,
		}).Info("order status changed")
		return &TransitionResult{Order: current, Changed: true}, nil
	}

	// Lost a race: someone else moved the order first.
	if current.Status == target {
		return &TransitionResult{Order: current}, nil
	}
	if err := classify(models.CanTransition(current.Status, target, opts.Surface)); err != nil {
		return nil, err
	}
	return nil, ErrInvalidTransition
}

// Order returns one order with its items for the detail view.
func (l *OrderLifecycle) Order(ctx context.Context, sess *Session, orderID string) (*models.Order, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	return l.store.GetOrder(ctx, orderID)
}

// AvailableTransitions lists the targets a surface may offer for status.
func AvailableTransitions(status models.OrderStatus, surface models.Surface) []models.OrderStatus {
	var out []models.OrderStatus
	for _, target := range models.AllStatuses {
		if target != status && models.CanTransition(status, target, surface) == nil {
			out = append(out, target)
		}
	}
	return out
}

// UpdatePaymentStatus is allowed on any order and is idempotent.
func (l *OrderLifecycle) UpdatePaymentStatus(ctx context.Context, sess *Session, orderID string, status models.PaymentStatus) (*models.Order, error) {
	if err := requireBackOffice(sess); err != nil {
		return nil, err
	}
	if _, err := models.ParsePaymentStatus(string(status)); err != nil {
		return nil, invalid("payment_status", err.Error())
	}
	if err := l.store.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return l.store.GetOrder(ctx, orderID)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var te *models.TransitionError
	if errors.As(err, &te) && te.Terminal {
		return errors.Wrap(ErrOrderTerminal, te.Error())
	}
	return errors.Wrap(ErrInvalidTransition, err.Error())
}
