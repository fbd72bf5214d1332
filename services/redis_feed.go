package services

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// RedisChangeFeed relays change events between instances over Redis
// pub/sub. Published events come back through the subscription and are
// then dispatched to local subscribers.
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
	local   *LocalFeed
}

func NewRedisChangeFeed(client *redis.Client, channel string) *RedisChangeFeed {
	return &RedisChangeFeed{client: client, channel: channel, local: NewLocalFeed()}
}

func (f *RedisChangeFeed) Subscribe(fn func(ChangeEvent)) func() {
	return f.local.Subscribe(fn)
}

func (f *RedisChangeFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return errors.Wrap(f.client.Publish(ctx, f.channel, raw).Err(), "redis publish")
}

// Run relays messages until ctx is cancelled. Events published while not
// subscribed are lost.
func (f *RedisChangeFeed) Run(ctx context.Context) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "redis subscribe")
	}
	utils.InfoLogger.WithField("channel", f.channel).Info("subscribed to change feed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				utils.ErrorLogger.WithError(err).Warn("dropping malformed change event")
				continue
			}
			_ = f.local.Publish(ctx, ev)
		}
	}
}
