// AngelaMos | 2026
// bus.go

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

var errSubscriptionClosed = errors.New("subscription closed")

// Bus relays events between API instances over a Redis channel. Every
// instance, including the publisher, delivers what it receives to its own
// hub.
type Bus struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	logger  *slog.Logger

	retryMin time.Duration
	retryMax time.Duration

	subscribed atomic.Bool
	ready      chan struct{}
	readyOnce  sync.Once
}

func NewBus(rdb *redis.Client, channel string, hub *Hub, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		rdb:      rdb,
		channel:  channel,
		hub:      hub,
		logger:   logger,
		retryMin: 500 * time.Millisecond,
		retryMax: 30 * time.Second,
		ready:    make(chan struct{}),
	}
}

// Broadcast publishes to every instance. While this instance has no live
// subscription, or Redis refuses the publish, the event is delivered to
// local clients directly.
func (b *Bus) Broadcast(ctx context.Context, name string, payload any) {
	ev, err := NewEvent(name, payload)
	if err != nil {
		b.logger.Error("realtime event dropped", "event", name, "error", err)
		return
	}

	msg, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("realtime event dropped", "event", name, "error", err)
		return
	}

	if err := b.rdb.Publish(context.WithoutCancel(ctx), b.channel, msg).Err(); err != nil {
		b.logger.Warn("realtime publish failed, delivering locally",
			"event", name,
			"error", err,
		)
		b.hub.Deliver(ev)
		return
	}

	if !b.subscribed.Load() {
		b.hub.Deliver(ev)
	}
}

// Ready is closed once the first subscription is confirmed.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}

// Run relays subscribed events into the hub until ctx is cancelled. A lost
// or refused subscription is retried with exponential backoff.
func (b *Bus) Run(ctx context.Context) {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = b.retryMin
	retry.MaxInterval = b.retryMax
	retry.MaxElapsedTime = 0

	for {
		err := b.relay(ctx, retry.Reset)
		b.subscribed.Store(false)
		if ctx.Err() != nil {
			return
		}

		wait := retry.NextBackOff()
		b.logger.Warn("realtime relay interrupted, resubscribing",
			"channel", b.channel,
			"retry_in", wait.String(),
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (b *Bus) relay(ctx context.Context, onSubscribed func()) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer func() {
		//nolint:errcheck // best-effort unsubscribe
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	b.subscribed.Store(true)
	onSubscribed()
	b.readyOnce.Do(func() { close(b.ready) })
	b.logger.Info("realtime relay subscribed", "channel", b.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errSubscriptionClosed
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("realtime message ignored", "error", err)
				continue
			}
			b.hub.Deliver(ev)
		}
	}
}
