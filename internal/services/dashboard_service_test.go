package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/config"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
	"github.com/redis/go-redis/v9"
)

var dashboardTestNow = time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)

func newDashboardService(st store.Store, redisClient *redis.Client) *DashboardService {
	cfg := &config.Config{
		DashboardCacheTTL:      15 * time.Second,
		DashboardChannel:       "checkin-dashboard",
		RecentValidationsLimit: 10,
	}
	service := NewDashboardService(st, redisClient, nil, cfg)
	service.now = func() time.Time { return dashboardTestNow }
	return service
}

func TestDashboardService_RefreshCounts(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("t1", map[string]any{"status": "PENDING", "ticketType": "GENERAL"})
	st.Seed("t2", map[string]any{"status": "VALIDATED", "ticketType": "VIP"})
	st.Seed("t3", map[string]any{"status": "VALIDATED", "ticketType": "GENERAL"})
	st.Seed("t4", map[string]any{"status": "CANCELLED", "ticketType": "PROMO"})
	// Unknown statuses count as pending everywhere.
	st.Seed("t5", map[string]any{"status": "on-hold"})
	service := newDashboardService(st, nil)

	stats, err := service.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Validated)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 3, stats.ByTicketType[models.TicketGeneral])
	assert.Equal(t, 1, stats.ByTicketType[models.TicketVIP])
	assert.Equal(t, 1, stats.ByTicketType[models.TicketPromo])
	assert.Equal(t, dashboardTestNow, stats.LastUpdated)
}

func TestDashboardService_StatsServedFromCache(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	cached := models.DashboardStats{
		Total:        42,
		Validated:    40,
		Pending:      2,
		ByTicketType: map[models.TicketType]int{models.TicketGeneral: 42},
		LastUpdated:  dashboardTestNow,
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet(statsCacheKey).SetVal(string(data))

	// An empty store proves the cached payload was used as-is.
	service := newDashboardService(store.NewMemoryStore(), redisClient)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardService_StatsCacheMissRecomputes(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("t1", map[string]any{"status": "VALIDATED", "ticketType": "VIP"})

	expected := models.DashboardStats{
		Total:        1,
		Validated:    1,
		ByTicketType: map[models.TicketType]int{models.TicketVIP: 1},
		LastUpdated:  dashboardTestNow,
	}
	data, err := json.Marshal(expected)
	require.NoError(t, err)

	redisClient, mock := redismock.NewClientMock()
	mock.ExpectGet(statsCacheKey).RedisNil()
	mock.ExpectSet(statsCacheKey, data, 15*time.Second).SetVal("OK")

	service := newDashboardService(st, redisClient)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardService_RecentValidationsOrderAndLimit(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("old", map[string]any{
		"status":         "VALIDATED",
		"validationTime": dashboardTestNow.Add(-2 * time.Hour),
	})
	st.Seed("new", map[string]any{
		"status":         "VALIDATED",
		"validationTime": dashboardTestNow.Add(-5 * time.Minute),
	})
	st.Seed("mid", map[string]any{
		"status":         "VALIDATED",
		"validationTime": dashboardTestNow.Add(-1 * time.Hour),
	})
	// Validated without a timestamp sorts last; pending never appears.
	st.Seed("untimed", map[string]any{"status": "VALIDATED"})
	st.Seed("waiting", map[string]any{"status": "PENDING"})
	service := newDashboardService(st, nil)
	ctx := context.Background()

	all, err := service.RecentValidations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "old", all[2].ID)
	assert.Equal(t, "untimed", all[3].ID)

	top, err := service.RecentValidations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "new", top[0].ID)
	assert.Equal(t, "mid", top[1].ID)
}

func TestDashboardService_ChangeFeedTriggersRefresh(t *testing.T) {
	st := store.NewMemoryStore()
	service := newDashboardService(st, nil)
	service.Start()
	defer service.Stop()

	refreshed := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func(rec *store.Record) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	st.Seed("t1", map[string]any{"status": "PENDING"})

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("change feed did not deliver")
	}

	// The subscription-driven refresh already ran; Stats with no cache
	// recomputes and must see the seeded record.
	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Pending)
}

func TestDashboardService_StopDetachesFeed(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("t1", map[string]any{"status": "VALIDATED", "ticketType": "GENERAL"})

	expected := models.DashboardStats{
		Total:        1,
		Validated:    1,
		ByTicketType: map[models.TicketType]int{models.TicketGeneral: 1},
		LastUpdated:  dashboardTestNow,
	}
	data, err := json.Marshal(expected)
	require.NoError(t, err)

	redisClient, mock := redismock.NewClientMock()
	// Exactly one cache write: the seed that lands before Stop.
	mock.ExpectSet(statsCacheKey, data, 15*time.Second).SetVal("OK")

	service := newDashboardService(st, redisClient)
	service.Start()
	st.Seed("t1", map[string]any{"status": "VALIDATED", "ticketType": "GENERAL"})
	service.Stop()
	st.Seed("t2", map[string]any{"status": "PENDING"})

	assert.NoError(t, mock.ExpectationsWereMet())
}
