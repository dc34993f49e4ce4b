package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client, 2*time.Second), mr
}

func TestStatsCacheFetchPopulatesAndReuses(t *testing.T) {
	cache, _ := newTestCache(t)
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return DashboardStats{TotalSuccess: 7, MonthCount: 3, MonthTotal: decimal.NewFromInt(900)}, nil
	}

	var first DashboardStats
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &first, loader))
	require.Equal(t, 7, first.TotalSuccess)
	require.Equal(t, 1, calls)

	var second DashboardStats
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &second, loader))
	require.Equal(t, 1, calls)
	require.Equal(t, first, second)
}

func TestStatsCacheFetchExpiresWithTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return DashboardStats{TotalSuccess: calls}, nil
	}

	var stats DashboardStats
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &stats, loader))
	require.Equal(t, 1, stats.TotalSuccess)

	mr.FastForward(3 * time.Second)

	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &stats, loader))
	require.Equal(t, 2, stats.TotalSuccess)
	require.Equal(t, 2, calls)
}

func TestStatsCacheInvalidateForcesRecompute(t *testing.T) {
	cache, _ := newTestCache(t)
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return DashboardStats{TotalSuccess: calls}, nil
	}

	var stats DashboardStats
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &stats, loader))
	require.NoError(t, cache.Invalidate(context.Background(), dashboardKey))
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &stats, loader))
	require.Equal(t, 2, calls)
}

func TestSaveBatchInvalidatesDashboardCache(t *testing.T) {
	cache, mr := newTestCache(t)
	repo := newMemoryHistoryRepo()
	svc := NewService(repo, cache)

	var stats DashboardStats
	require.NoError(t, cache.Fetch(context.Background(), dashboardKey, &stats, func(ctx context.Context) (interface{}, error) {
		return DashboardStats{TotalSuccess: 99}, nil
	}))
	require.True(t, mr.Exists(dashboardKey))

	_, err := svc.SaveBatch(context.Background(), []EntryInput{
		{InvoiceNumber: "F-1", Company: "Acme SL", Amount: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.False(t, mr.Exists(dashboardKey))
}
