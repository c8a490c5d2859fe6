//go:build integration

package notify_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"auditengine/internal/platform/notify"
	"auditengine/pkg/audit"
	"auditengine/pkg/testutil/containers"
)

func TestKafkaNotifier_PublishesFlushedBatch(t *testing.T) {
	kafka := containers.NewKafkaContainer(t)
	ctx := context.Background()

	n, err := notify.NewKafkaNotifier(ctx, kafka.Brokers, "audit.flushed.test", slog.Default())
	require.NoError(t, err)
	defer n.Close()

	now := time.Now()
	require.NoError(t, n.NotifyFlushed(ctx, audit.FlushedBatch{Count: 2, FirstSeen: now, LastSeen: now}))

	client, err := kgo.NewClient(kgo.SeedBrokers(kafka.Brokers), kgo.ConsumeTopics("audit.flushed.test"))
	require.NoError(t, err)
	defer client.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	fetches := client.PollFetches(fetchCtx)
	require.Empty(t, fetches.Errors())
	require.NotZero(t, fetches.NumRecords())
}
