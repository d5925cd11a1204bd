package subscription

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeRepo struct {
	byID map[string]*domain.Subscription
	list []*domain.Subscription
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]*domain.Subscription{}} }

func (r *fakeRepo) Create(ctx context.Context, s *domain.Subscription) error {
	r.byID[s.ID] = s
	r.list = append([]*domain.Subscription{s}, r.list...)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("subscription not found")
	}
	return s, nil
}

func (r *fakeRepo) Update(ctx context.Context, s *domain.Subscription) error {
	r.byID[s.ID] = s
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*domain.Subscription, error) {
	return r.list, nil
}

// memCache stores JSON copies, like the Redis cache, so a stale entry
// keeps its old field values until it is deleted.
type memCache struct{ entries map[string][]byte }

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.entries[key] = b
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func TestCreate_ValidatesAndPersists(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, fakeClock{t: time.Now()}, nil, 0)

	sub, err := svc.Create(context.Background(), CreateCmd{
		URL:    "https://example.com/hook",
		Secret: "a-secret-of-16+-chars",
		Events: []domain.EventType{domain.EventRequestSubmitted},
	})

	require.NoError(t, err)
	assert.True(t, sub.Enabled)
	assert.Len(t, repo.byID, 1)
}

func TestCreate_RejectsShortSecret(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, fakeClock{t: time.Now()}, nil, 0)

	_, err := svc.Create(context.Background(), CreateCmd{
		URL:    "https://example.com/hook",
		Secret: "short",
		Events: []domain.EventType{domain.EventRequestSubmitted},
	})

	require.Error(t, err)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, fakeClock{t: time.Now()}, &memCache{entries: map[string][]byte{}}, 0)

	sub, err := svc.Create(context.Background(), CreateCmd{
		URL:    "https://example.com/hook",
		Secret: "a-secret-of-16+-chars",
		Events: []domain.EventType{domain.EventRequestSubmitted},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), sub.ID)
	require.NoError(t, err)

	disabled := false
	_, err = svc.Update(context.Background(), sub.ID, UpdateCmd{Enabled: &disabled})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
}

func TestDelete_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, fakeClock{t: time.Now()}, nil, 0)

	err := svc.Delete(context.Background(), "missing-id")
	require.Error(t, err)
	var ae *domain.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, domain.CodeNotFound, ae.Code)
}
