package outbox

import (
	"context"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

type Clock interface{ Now() time.Time }

// Repo persists OutboxEvents. The core never mutates or deletes rows
// once written.
type Repo interface {
	Create(ctx context.Context, e *domain.OutboxEvent) error
}

// Connector is an external, best-effort observer invoked after a
// successful publish. Its failure must never roll back the publish.
type Connector interface {
	Notify(ctx context.Context, e *domain.OutboxEvent) error
}

// Metrics records publish counts. Injected so this package never imports
// a transport/observability adapter directly; a nil Metrics is valid and
// simply records nothing.
type Metrics interface {
	IncPublished(eventType string)
}
