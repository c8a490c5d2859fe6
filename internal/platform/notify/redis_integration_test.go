//go:build integration

package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auditengine/internal/platform/notify"
	"auditengine/pkg/audit"
	"auditengine/pkg/testutil/containers"
)

func TestRedisNotifier_PublishesFlushedBatch(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	defer rc.Client.Close()

	sub := rc.Client.Subscribe(context.Background(), "audit:flushed:test")
	defer sub.Close()

	n := notify.NewRedisNotifier(rc.Client, "audit:flushed:test")

	now := time.Now()
	err := n.NotifyFlushed(context.Background(), audit.FlushedBatch{Count: 3, FirstSeen: now, LastSeen: now})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	require.Equal(t, 3, payload.Count)
}
