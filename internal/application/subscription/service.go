package subscription

import (
	"context"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

type Service struct {
	repo  Repo
	cache Cache
	clock Clock

	cacheTTL time.Duration
}

func New(repo Repo, clock Clock, cache Cache, cacheTTL time.Duration) *Service {
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Second
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{repo: repo, clock: clock, cache: cache, cacheTTL: cacheTTL}
}

type CreateCmd struct {
	URL     string
	Secret  string
	Events  []domain.EventType
	Enabled *bool
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Subscription, error) {
	sub, err := domain.NewSubscription(cmd.URL, cmd.Secret, cmd.Events, cmd.Enabled, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	var cached domain.Subscription
	if ok, err := s.cache.Get(ctx, cacheKey(id), &cached); err == nil && ok {
		return &cached, nil
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKey(id), sub, s.cacheTTL)
	return sub, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Subscription, error) {
	return s.repo.List(ctx)
}

type UpdateCmd struct {
	URL     *string
	Secret  *string
	Events  []domain.EventType
	Enabled *bool
}

func (s *Service) Update(ctx context.Context, id string, cmd UpdateCmd) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sub.ApplyUpdate(cmd.URL, cmd.Secret, cmd.Events, cmd.Enabled, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cacheKey(id))
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cacheKey(id))
	return nil
}

func cacheKey(id string) string { return "subscription:" + id }

// NoopCache degrades all reads to cache misses, used when IH_REDIS_URL
// is unset.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (NoopCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	return nil
}
func (NoopCache) Delete(ctx context.Context, keys ...string) error { return nil }
