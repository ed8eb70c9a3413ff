package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_saas/internal/domain"
)

// Entities is the application service shared by every tenant-owned record
// type. Single-record reads go through the cache; every write evicts the
// record and the tenant's dashboard.
type Entities[E any] struct {
	kind     string
	repo     domain.TenantScopedRepository[E]
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewEntities[E any](kind string, r domain.TenantScopedRepository[E], c domain.Cache, ttl time.Duration) *Entities[E] {
	return &Entities[E]{kind: kind, repo: r, cache: c, cacheTTL: ttl}
}

func (s *Entities[E]) Kind() string { return s.kind }

func (s *Entities[E]) key(tenantID, id int64) string {
	return fmt.Sprintf("%s:%d:%d", s.kind, tenantID, id)
}

func (s *Entities[E]) Get(ctx context.Context, id, tenantID int64) (E, error) {
	key := s.key(tenantID, id)
	var e E
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &e)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			return e, nil
		}
	}
	e, err := s.repo.Get(ctx, id, tenantID)
	if err != nil {
		return e, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, e, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return e, nil
}

// Page reads one page and the matching total. The two reads are independent.
func (s *Entities[E]) Page(ctx context.Context, tenantID int64, p domain.Page) (domain.PageResult[E], error) {
	p = p.Normalize()
	items, err := s.repo.List(ctx, tenantID, p)
	if err != nil {
		return domain.PageResult[E]{}, err
	}
	total, err := s.repo.Count(ctx, tenantID, p.IncludeDeleted)
	if err != nil {
		return domain.PageResult[E]{}, err
	}
	return domain.PageResult[E]{Items: items, Total: total, Skip: p.Skip, Limit: p.Limit}, nil
}

func (s *Entities[E]) Create(ctx context.Context, tenantID int64, e E, by string) (E, error) {
	out, err := s.repo.Create(ctx, e, tenantID, by)
	if err != nil {
		return out, err
	}
	s.evict(ctx, tenantID, dashboardKey(tenantID))
	return out, nil
}

// Patch loads the current record from the store, not the cache, before merging.
func (s *Entities[E]) Patch(ctx context.Context, id, tenantID int64, changes domain.Changes, by string) (E, error) {
	existing, err := s.repo.Get(ctx, id, tenantID)
	if err != nil {
		return existing, err
	}
	out, err := s.repo.Update(ctx, existing, changes, by)
	if err != nil {
		return out, err
	}
	s.evict(ctx, tenantID, s.key(tenantID, id), dashboardKey(tenantID))
	return out, nil
}

func (s *Entities[E]) Remove(ctx context.Context, id, tenantID int64, by string) (E, error) {
	out, err := s.repo.Remove(ctx, id, tenantID, by)
	if err != nil {
		return out, err
	}
	s.evict(ctx, tenantID, s.key(tenantID, id), dashboardKey(tenantID))
	return out, nil
}

func (s *Entities[E]) Restore(ctx context.Context, id, tenantID int64, by string) (E, error) {
	out, err := s.repo.Restore(ctx, id, tenantID, by)
	if err != nil {
		return out, err
	}
	s.evict(ctx, tenantID, s.key(tenantID, id), dashboardKey(tenantID))
	return out, nil
}

func (s *Entities[E]) HardDelete(ctx context.Context, id, tenantID int64) (E, error) {
	out, err := s.repo.HardDelete(ctx, id, tenantID)
	if err != nil {
		return out, err
	}
	s.evict(ctx, tenantID, s.key(tenantID, id), dashboardKey(tenantID))
	return out, nil
}

// evict never fails the write it follows; stale entries expire with the TTL.
func (s *Entities[E]) evict(ctx context.Context, tenantID int64, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Int64("tenant", tenantID).Msg("cache evict failed")
		}
	}
}
