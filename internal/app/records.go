package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_saas/internal/domain"
)

// Records is the counterpart of Entities for tenant-less records.
type Records[E any] struct {
	kind     string
	repo     domain.GlobalRepository[E]
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRecords[E any](kind string, r domain.GlobalRepository[E], c domain.Cache, ttl time.Duration) *Records[E] {
	return &Records[E]{kind: kind, repo: r, cache: c, cacheTTL: ttl}
}

func (s *Records[E]) key(id int64) string { return fmt.Sprintf("%s:%d", s.kind, id) }

func (s *Records[E]) Get(ctx context.Context, id int64) (E, error) {
	key := s.key(id)
	var e E
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &e)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			return e, nil
		}
	}
	e, err := s.repo.Get(ctx, id)
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

func (s *Records[E]) Page(ctx context.Context, p domain.Page) (domain.PageResult[E], error) {
	p = p.Normalize()
	items, err := s.repo.List(ctx, p)
	if err != nil {
		return domain.PageResult[E]{}, err
	}
	total, err := s.repo.Count(ctx, p.IncludeDeleted)
	if err != nil {
		return domain.PageResult[E]{}, err
	}
	return domain.PageResult[E]{Items: items, Total: total, Skip: p.Skip, Limit: p.Limit}, nil
}

func (s *Records[E]) Create(ctx context.Context, e E, by string) (E, error) {
	return s.repo.Create(ctx, e, by)
}

func (s *Records[E]) Patch(ctx context.Context, id int64, changes domain.Changes, by string) (E, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return existing, err
	}
	out, err := s.repo.Update(ctx, existing, changes, by)
	if err == nil {
		s.evict(ctx, id)
	}
	return out, err
}

func (s *Records[E]) Remove(ctx context.Context, id int64, by string) (E, error) {
	out, err := s.repo.Remove(ctx, id, by)
	if err == nil {
		s.evict(ctx, id)
	}
	return out, err
}

func (s *Records[E]) Restore(ctx context.Context, id int64, by string) (E, error) {
	out, err := s.repo.Restore(ctx, id, by)
	if err == nil {
		s.evict(ctx, id)
	}
	return out, err
}

func (s *Records[E]) HardDelete(ctx context.Context, id int64) (E, error) {
	out, err := s.repo.HardDelete(ctx, id)
	if err == nil {
		s.evict(ctx, id)
	}
	return out, err
}

func (s *Records[E]) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.key(id)); err != nil {
		log.Warn().Err(err).Str("key", s.key(id)).Msg("cache evict failed")
	}
}
