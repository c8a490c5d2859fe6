package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auditengine/pkg/audit"
	"auditengine/pkg/audit/store/memory"
)

func record(id string, createdAt time.Time) audit.Record {
	return audit.Record{
		EventID:         id,
		EventName:       "test.event",
		EventType:       "OPS",
		ActionTimeStamp: time.Now(),
		HostName:        "host",
		HostIP:          "127.0.0.1",
		ApplicationID:   "app",
		ApplicationName: "app",
		SessionUserID:   "user",
		CreatedBy:       "system",
		CreatedAt:       createdAt,
	}
}

func TestStore_AddAuditsUpsertsByEventID(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	r := record("evt-1", time.Now())
	ok, err := s.AddAudits(ctx, []audit.Record{r})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.Len())

	r.EventName = "test.event.updated"
	ok, err = s.AddAudits(ctx, []audit.Record{r})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.Len(), "same eventId must upsert, not duplicate")
}

func TestStore_DeleteOlderThanCutoff(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	old := record("evt-old", time.Now().Add(-48*time.Hour))
	recent := record("evt-recent", time.Now())

	_, err := s.AddAudits(ctx, []audit.Record{old, recent})
	require.NoError(t, err)

	deleted, err := s.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
	require.Equal(t, 1, s.Len())
}

func TestStore_UpdateAuditsSharesUpsertPath(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	r := record("evt-1", time.Now())
	_, err := s.AddAudit(ctx, r)
	require.NoError(t, err)

	r.Description = "updated"
	ok, err := s.UpdateAudits(ctx, []audit.Record{r})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.Len())
}
