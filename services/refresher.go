package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-ordering/utils"
)

// Refresher runs fn on a fixed interval and whenever Notify is called, so
// polling and pushed changes surface as one "data changed" signal.
type Refresher struct {
	interval time.Duration
	fn       func(ctx context.Context) error
	trigger  chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

func NewRefresher(interval time.Duration, fn func(ctx context.Context) error) *Refresher {
	return &Refresher{
		interval: interval,
		fn:       fn,
		trigger:  make(chan struct{}, 1),
	}
}

// Notify requests a refresh. Bursts collapse into one run.
func (r *Refresher) Notify() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Start runs an initial refresh and then the loop. Calling Start twice, or
// after Stop, is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.stopped {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop cancels the loop and waits for an in-flight refresh to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.stopped = true
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.run(ctx)
		case <-r.trigger:
			r.run(ctx)
		}
	}
}

func (r *Refresher) run(ctx context.Context) {
	if err := r.fn(ctx); err != nil && ctx.Err() == nil {
		utils.ErrorLogger.WithError(err).Warn("refresh failed")
	}
}
