package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"auditengine/pkg/audit"
)

// RedisNotifier publishes a JSON message per flushed batch to a Redis
// pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier wraps an already-connected redis.Client.
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

// NotifyFlushed publishes batch as JSON on the configured channel.
func (n *RedisNotifier) NotifyFlushed(ctx context.Context, batch audit.FlushedBatch) error {
	payload, err := json.Marshal(flushedEvent{Count: batch.Count, FirstSeen: batch.FirstSeen, LastSeen: batch.LastSeen})
	if err != nil {
		return fmt.Errorf("notify: marshal flushed event: %w", err)
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

var _ audit.Notifier = (*RedisNotifier)(nil)
