package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_saas/internal/domain"
)

func dashboardKey(tenantID int64) string { return fmt.Sprintf("dashboard:%d", tenantID) }

type DashboardService struct {
	stats    domain.StatsRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDashboardService(s domain.StatsRepository, c domain.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{stats: s, cache: c, cacheTTL: ttl}
}

func (s *DashboardService) Get(ctx context.Context, tenantID int64) (domain.Dashboard, error) {
	key := dashboardKey(tenantID)
	var d domain.Dashboard
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &d)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			return d, nil
		}
	}
	d, err := s.stats.TenantStats(ctx, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return d, nil
}
