package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/shared/goroutine"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// SnapshotEvent announces that a new dashboard snapshot was stored in Redis.
type SnapshotEvent struct {
	Layout     string      `json:"layout"`
	SprintName string      `json:"sprint_name"`
	Outcome    dto.Outcome `json:"outcome"`
	FetchedAt  time.Time   `json:"fetched_at"`
	InstanceID string      `json:"instance_id"`
	Timestamp  int64       `json:"timestamp"`
}

const handlerDrainTimeout = 5 * time.Second

// SnapshotEventHandler is called for every event published by another instance.
type SnapshotEventHandler func(ctx context.Context, event SnapshotEvent)

// SnapshotChannel is the Redis channel the events go through.
func SnapshotChannel(keyPrefix string) string {
	return keyPrefix + "events"
}

// RedisSnapshotEventBus publishes and receives SnapshotEvents over Redis Pub/Sub.
type RedisSnapshotEventBus struct {
	client     *redis.Client
	channel    string
	instanceID string
	logger     logger.Interface
}

func NewRedisSnapshotEventBus(client *redis.Client, channel, instanceID string, logger logger.Interface) *RedisSnapshotEventBus {
	return &RedisSnapshotEventBus{
		client:     client,
		channel:    channel,
		instanceID: instanceID,
		logger:     logger,
	}
}

// PublishSnapshot announces snapshot to the other instances.
func (b *RedisSnapshotEventBus) PublishSnapshot(ctx context.Context, snapshot *dto.DashboardSnapshot) error {
	event := SnapshotEvent{
		Layout:     snapshot.Layout,
		SprintName: snapshot.SprintName,
		Outcome:    snapshot.Outcome,
		FetchedAt:  snapshot.FetchedAt,
		InstanceID: b.instanceID,
		Timestamp:  time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish snapshot event",
			"channel", b.channel,
			"outcome", event.Outcome,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("snapshot event published",
		"channel", b.channel,
		"sprint", event.SprintName,
		"outcome", event.Outcome,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for each event that
// did not originate from this instance.
func (b *RedisSnapshotEventBus) Subscribe(ctx context.Context, handler SnapshotEventHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to snapshot events", "channel", b.channel)

	handlers := goroutine.NewGroup(b.logger)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), handlerDrainTimeout)
		defer cancel()
		if err := handlers.Wait(drainCtx); err != nil {
			b.logger.Warnw("snapshot event handlers still running", "error", err)
		}
	}()

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("snapshot event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("snapshot event channel closed")
				return nil
			}

			var event SnapshotEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal snapshot event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}
			if event.InstanceID == b.instanceID {
				continue
			}

			handlers.Go("snapshot-event-handler", func() {
				handler(context.WithoutCancel(ctx), event)
			})
		}
	}
}
