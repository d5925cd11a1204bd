package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

// ErrPairLocked is returned by Store.WithPairTx when another worker
// already holds the lock for this (event, subscription) pair.
var ErrPairLocked = errors.New("delivery: pair locked by another worker")

type Clock interface{ Now() time.Time }

// SubscriptionReader is the Dispatcher's read-only view of Subscriptions.
type SubscriptionReader interface {
	ListEnabledForEventType(ctx context.Context, eventType domain.EventType) ([]*domain.Subscription, error)
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
}

// OutboxReader is the Dispatcher's read-only view of OutboxEvents.
type OutboxReader interface {
	// ListBatch returns up to limit events ordered by created_at ascending.
	ListBatch(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	GetByID(ctx context.Context, id string) (*domain.OutboxEvent, error)
}

// AttemptReader is used outside a transaction for the read-only
// attempts query (§4.7).
type AttemptReader interface {
	ListForEvent(ctx context.Context, eventID string) ([]*domain.DeliveryAttempt, error)
}

// DeadLetterReader supports looking up a dead letter by id for replay.
type DeadLetterReader interface {
	GetByID(ctx context.Context, id string) (*domain.DeadLetter, error)
}

// PairReader is a lock-free read of a pair's attempts/dead-letter state,
// used by the cycle loop to cheaply pre-evaluate the dispatch gate before
// paying for a transaction (§4.3). Deliver re-derives attempt_number
// inside the locked transaction, so a stale read here only costs a
// wasted lock attempt, never an invariant violation.
type PairReader interface {
	ListForPair(ctx context.Context, eventID, subscriptionID string) ([]*domain.DeliveryAttempt, error)
	GetDeadLetterForPair(ctx context.Context, eventID, subscriptionID string) (*domain.DeadLetter, error)
}

// Tx is the set of mutating operations available inside one delivery
// transaction (§4.4 step 8, §4.6 step 3): attempt reads/writes and
// dead-letter reads/writes, all scoped to the pair being processed.
type Tx interface {
	// ListForPair returns existing attempts for (eventID, subscriptionID)
	// ordered by attempt_number ascending, with a row-level lock held for
	// the duration of the transaction (§5 "Multi-worker safety").
	ListForPair(ctx context.Context, eventID, subscriptionID string) ([]*domain.DeliveryAttempt, error)
	CreateAttempt(ctx context.Context, a *domain.DeliveryAttempt) error
	UpdateAttempt(ctx context.Context, a *domain.DeliveryAttempt) error

	GetDeadLetterForPair(ctx context.Context, eventID, subscriptionID string) (*domain.DeadLetter, error)
	CreateDeadLetter(ctx context.Context, d *domain.DeadLetter) error
	DeleteDeadLetter(ctx context.Context, id string) error
}

// Store opens a transaction scoped to delivering to a single pair.
// Implementations serialize concurrent workers on the same pair via
// SELECT ... FOR UPDATE SKIP LOCKED (or an equivalent advisory lock); when
// the lock cannot be acquired, WithPairTx returns ErrPairLocked and the
// caller treats it as "lost race, skip this pair this cycle" (§5).
type Store interface {
	WithPairTx(ctx context.Context, eventID, subscriptionID string, fn func(tx Tx) error) error
}

// HTTPDelivery issues the outbound webhook POST. Implementations must
// honor the supplied timeout and distinguish a timeout from any other
// transport error via ErrTimeout (see infrastructure/httpclient).
type HTTPDelivery interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (statusCode int, respBody []byte, err error)
}

// IsTimeout reports whether err represents a delivery timeout, as
// opposed to a generic transport error (§4.4 step 5).
type TimeoutClassifier interface {
	IsTimeout(err error) bool
}

// Metrics records delivery outcomes. Injected so this package never
// imports a transport/observability adapter directly; a nil Metrics is
// valid and simply records nothing.
type Metrics interface {
	IncDelivery(status string)
	ObserveDuration(seconds float64)
}
