// Package notify provides audit.Notifier implementations that fan out
// flush completions to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"auditengine/pkg/audit"
)

// KafkaNotifier publishes a JSON message per flushed batch to a Kafka
// topic, using franz-go. The topic is created (if missing, single
// partition, replication factor 1) on construction via kadm so a fresh
// broker doesn't reject the first publish.
type KafkaNotifier struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaNotifier connects to brokers (comma-separated) and ensures
// topic exists.
func NewKafkaNotifier(ctx context.Context, brokers, topic string, logger *slog.Logger) (*KafkaNotifier, error) {
	seeds := strings.Split(brokers, ",")
	client, err := kgo.NewClient(kgo.SeedBrokers(seeds...))
	if err != nil {
		return nil, fmt.Errorf("notify: create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil && !errorsIsTopicExists(err) {
		client.Close()
		return nil, fmt.Errorf("notify: ensure topic %q: %w", topic, err)
	}

	return &KafkaNotifier{client: client, topic: topic, logger: logger}, nil
}

func errorsIsTopicExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS")
}

type flushedEvent struct {
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
}

// NotifyFlushed publishes batch as a JSON record on the configured topic.
func (n *KafkaNotifier) NotifyFlushed(ctx context.Context, batch audit.FlushedBatch) error {
	payload, err := json.Marshal(flushedEvent{Count: batch.Count, FirstSeen: batch.FirstSeen, LastSeen: batch.LastSeen})
	if err != nil {
		return fmt.Errorf("notify: marshal flushed event: %w", err)
	}

	record := &kgo.Record{Topic: n.topic, Value: payload}
	result := n.client.ProduceSync(ctx, record)
	return result.FirstErr()
}

// Close releases the underlying Kafka client.
func (n *KafkaNotifier) Close() {
	n.client.Close()
}

var _ audit.Notifier = (*KafkaNotifier)(nil)
