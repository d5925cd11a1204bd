package subscription

import (
	"context"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

type Clock interface{ Now() time.Time }

// Repo owns all Subscription mutation and retrieval.
type Repo interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	Update(ctx context.Context, s *domain.Subscription) error
	Delete(ctx context.Context, id string) error
	// List returns all subscriptions ordered by created_at descending.
	List(ctx context.Context) ([]*domain.Subscription, error)
}

// Cache optionally fronts reads of individual subscriptions. A no-op
// implementation is used when caching is not configured.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
