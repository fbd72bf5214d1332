package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// ChangeJournal is read first and acknowledged only after publishing, so a
// failed publish is retried on the next tick.
type ChangeJournal interface {
	PendingChanges(ctx context.Context, limit int) ([]models.DBChange, error)
	AckChanges(ctx context.Context, ids []uint) error
}

// ChangeMonitor polls the change journal and publishes pending rows.
type ChangeMonitor struct {
	journal  ChangeJournal
	sink     EventSink
	Interval time.Duration
	Batch    int

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewChangeMonitor(journal ChangeJournal, sink EventSink, interval time.Duration) *ChangeMonitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &ChangeMonitor{
		journal:  journal,
		sink:     sink,
		Interval: interval,
		Batch:    100,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called.
func (cm *ChangeMonitor) Run(ctx context.Context) error {
	defer close(cm.done)
	ticker := time.NewTicker(cm.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.CheckChanges(ctx)
		case <-cm.stopChan:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopChan) })
}

// CheckChanges publishes one batch of pending rows in journal order and
// acknowledges the ones handled. A publish failure stops the batch; the
// failed row and everything after it stay pending. It returns the number of
// events published.
func (cm *ChangeMonitor) CheckChanges(ctx context.Context) int {
	changes, err := cm.journal.PendingChanges(ctx, cm.Batch)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("error fetching changes")
		return 0
	}

	published := 0
	handled := make([]uint, 0, len(changes))
	for _, change := range changes {
		ev, ok := toEvent(change)
		if !ok {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"table":     change.Entity,
				"action":    change.ActionType,
				"record_id": change.RecordID,
			}).Warn("skipping unknown change")
			handled = append(handled, change.ID)
			continue
		}
		if err := cm.sink.Publish(ctx, ev); err != nil {
			utils.ErrorLogger.WithError(err).WithField("order_id", ev.OrderID).Error("error publishing change, will retry")
			break
		}
		handled = append(handled, change.ID)
		published++
	}

	if err := cm.journal.AckChanges(ctx, handled); err != nil {
		// Unacked rows are published again next tick; consumers dedupe by id.
		utils.ErrorLogger.WithError(err).Error("error acknowledging changes")
	}
	if published > 0 {
		utils.InfoLogger.Debugf("processed %d changes", published)
	}
	return published
}

func toEvent(change models.DBChange) (ChangeEvent, bool) {
	if change.Entity != "orders" {
		return ChangeEvent{}, false
	}
	switch change.ActionType {
	case models.ChangeOrderCreated, models.ChangeOrderStatusChanged:
	default:
		return ChangeEvent{}, false
	}

	var payload struct {
		Status models.OrderStatus `json:"status"`
		Total  decimal.Decimal    `json:"total"`
	}
	if len(change.Payload) > 0 {
		if err := json.Unmarshal(change.Payload, &payload); err != nil {
			return ChangeEvent{}, false
		}
	}
	return ChangeEvent{
		Action:  change.ActionType,
		OrderID: change.RecordID,
		Status:  payload.Status,
		Total:   payload.Total,
		At:      change.ChangedAt,
	}, true
}
