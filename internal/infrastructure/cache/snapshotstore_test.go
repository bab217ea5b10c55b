package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func testSnapshot(sprintName string) *dto.DashboardSnapshot {
	return &dto.DashboardSnapshot{
		Layout:     "sprint",
		SprintName: sprintName,
		Outcome:    dto.OutcomeReady,
		Summary:    dto.SummaryCounts{Total: 10, Buckets: []dto.BucketCount{{Key: "completed", Label: "Total de Concluídos", Count: 4}}},
		Fields:     []dto.SummaryField{{ID: "total-tickets", Caption: "Total de Tickets", Value: "10"}},
		Charts:     []dto.ChartSpec{{ID: "situacao-bar-chart", Kind: dto.ChartKindBar, Categories: []dto.ChartCategory{{Label: "Concluído", Count: 4, Codes: []string{"A", "B", "C", "D"}}}}},
		FetchedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, testSnapshot("Sprint 1")))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", got.SprintName)

	store.Invalidate()
	got, _ = store.Load(ctx)
	assert.Nil(t, got)

	assert.Error(t, store.Save(ctx, nil))
}

func TestRedisSnapshotStore_SaveLoad(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisSnapshotStore(client, "dash2:snapshot:", 10*time.Minute)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := testSnapshot("Sprint 187")
	require.NoError(t, store.Save(ctx, want))

	assert.True(t, mr.Exists("dash2:snapshot:latest"))
	assert.Equal(t, 10*time.Minute, mr.TTL("dash2:snapshot:latest"))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisSnapshotStore_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisSnapshotStore(client, "dash2:snapshot:", time.Minute)

	require.NoError(t, store.Save(ctx, testSnapshot("Sprint 187")))
	mr.FastForward(2 * time.Minute)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSnapshotStore_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisSnapshotStore(client, "dash2:snapshot:", time.Minute)

	require.NoError(t, mr.Set("dash2:snapshot:latest", "{not json"))

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "unmarshal")
}

func TestTieredSnapshotStore(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	shared := NewRedisSnapshotStore(client, "dash2:snapshot:", time.Minute)
	tiered := NewTieredSnapshotStore(NewMemorySnapshotStore(), shared)

	require.NoError(t, tiered.Save(ctx, testSnapshot("Sprint 1")))

	// another process publishes a newer snapshot
	require.NoError(t, shared.Save(ctx, testSnapshot("Sprint 2")))

	got, err := tiered.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", got.SprintName)

	tiered.Invalidate()
	got, err = tiered.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", got.SprintName)
}
