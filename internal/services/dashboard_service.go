package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/config"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

const statsCacheKey = "dashboard:stats"

// DashboardService keeps the admin dashboard's aggregate counts current. It
// subscribes to the store's change feed and recomputes on every record add or
// update; the latest snapshot is cached in Redis and a refresh trigger is
// published so connected dashboards re-render without polling. It never goes
// through the resolver/engine path.
type DashboardService struct {
	store  store.Store
	redis  *redis.Client
	pubnub *pubnub.PubNub
	cfg    *config.Config
	now    func() time.Time

	unsubscribe func()
}

func NewDashboardService(st store.Store, redisClient *redis.Client, pn *pubnub.PubNub, cfg *config.Config) *DashboardService {
	return &DashboardService{
		store:  st,
		redis:  redisClient,
		pubnub: pn,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Start subscribes to the store change feed. Call Stop to detach; stopping
// only halts feed delivery, it never touches in-flight validations.
func (s *DashboardService) Start() {
	s.unsubscribe = s.store.Subscribe(func(rec *store.Record) {
		if _, err := s.Refresh(context.Background()); err != nil {
			slog.Warn("dashboard refresh failed", "key", rec.Key, "error", err)
		}
	})
}

func (s *DashboardService) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Stats returns the cached snapshot when fresh, otherwise recomputes.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats models.DashboardStats
			if err := json.Unmarshal([]byte(data), &stats); err == nil {
				return stats, nil
			}
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the aggregates from a full store scan, updates the Redis
// cache and notifies dashboards.
func (s *DashboardService) Refresh(ctx context.Context) (models.DashboardStats, error) {
	recs, err := s.store.ScanAll(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		ByTicketType: make(map[models.TicketType]int),
		LastUpdated:  s.now().UTC(),
	}
	for _, rec := range recs {
		reg := ToRegistration(rec.Data, rec.Key)
		stats.Total++
		stats.ByTicketType[reg.TicketType]++
		switch reg.Status {
		case models.StatusValidated:
			stats.Validated++
		case models.StatusCancelled:
			stats.Cancelled++
		default:
			stats.Pending++
		}
	}

	s.cache(ctx, stats)
	s.publishRefresh(stats)
	return stats, nil
}

// RecentValidations returns validated registrations newest-first. limit <= 0
// falls back to the configured default.
func (s *DashboardService) RecentValidations(ctx context.Context, limit int) ([]models.Registration, error) {
	recs, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	validated := make([]models.Registration, 0, len(recs))
	for _, rec := range recs {
		reg := ToRegistration(rec.Data, rec.Key)
		if reg.Status == models.StatusValidated {
			validated = append(validated, reg)
		}
	}
	sort.SliceStable(validated, func(i, j int) bool {
		ti, tj := validated[i].ValidationTime, validated[j].ValidationTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	if limit <= 0 {
		limit = s.cfg.RecentValidationsLimit
	}
	if len(validated) > limit {
		validated = validated[:limit]
	}
	return validated, nil
}

func (s *DashboardService) cache(ctx context.Context, stats models.DashboardStats) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, statsCacheKey, data, s.cfg.DashboardCacheTTL).Err(); err != nil {
		slog.Warn("dashboard cache update failed", "error", err)
	}
}

func (s *DashboardService) publishRefresh(stats models.DashboardStats) {
	if s.pubnub == nil {
		return
	}
	_, _, err := s.pubnub.Publish().
		Channel(s.cfg.DashboardChannel).
		Message(map[string]any{
			"type":      "stats_update",
			"total":     stats.Total,
			"validated": stats.Validated,
			"pending":   stats.Pending,
			"cancelled": stats.Cancelled,
		}).
		Execute()
	if err != nil {
		slog.Warn("dashboard trigger publish failed", "error", err)
	}
}
