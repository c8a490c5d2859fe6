//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auditengine/pkg/audit"
	"auditengine/pkg/audit/store/postgres"
	"auditengine/pkg/testutil/containers"
)

func TestStore_AddAuditsUpsertsOnConflict(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	defer pg.DB.Close()

	store := postgres.New(pg.DB)
	ctx := context.Background()

	r := audit.Record{
		EventID:         "evt-1",
		EventName:       "test.event",
		EventType:       "OPS",
		ActionTimeStamp: time.Now(),
		HostName:        "host",
		HostIP:          "127.0.0.1",
		ApplicationID:   "app",
		ApplicationName: "app",
		SessionUserID:   "user",
		CreatedBy:       "system",
	}

	ok, err := store.AddAudits(ctx, []audit.Record{r})
	require.NoError(t, err)
	require.True(t, ok)

	r.EventName = "test.event.updated"
	ok, err = store.AddAudits(ctx, []audit.Record{r})
	require.NoError(t, err)
	require.True(t, ok)

	var count int
	require.NoError(t, pg.DB.QueryRow(`SELECT count(*) FROM audit_records WHERE event_id = $1`, r.EventID).Scan(&count))
	require.Equal(t, 1, count)
}

func TestStore_DeleteOlderThanCutoff(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	defer pg.DB.Close()

	store := postgres.New(pg.DB)
	ctx := context.Background()

	old := audit.Record{
		EventID: "evt-old", EventName: "e", EventType: "OPS", ActionTimeStamp: time.Now(),
		HostName: "h", HostIP: "127.0.0.1", ApplicationID: "a", ApplicationName: "a",
		SessionUserID: "u", CreatedBy: "s", CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	_, err := store.AddAudits(ctx, []audit.Record{old})
	require.NoError(t, err)

	deleted, err := store.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}
