package outbox

import (
	"context"
	"encoding/json"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/logger"
)

type Service struct {
	repo       Repo
	clock      Clock
	metrics    Metrics
	connectors []Connector
}

func New(repo Repo, clock Clock, metrics Metrics, connectors ...Connector) *Service {
	return &Service{repo: repo, clock: clock, metrics: metrics, connectors: connectors}
}

// Publish validates eventType, serializes payload to canonical JSON and
// durably records a new OutboxEvent in one transaction. After commit it
// best-effort notifies registered connectors; their failure never rolls
// back the publish and never creates DeliveryAttempt rows.
func (s *Service) Publish(ctx context.Context, eventType domain.EventType, payload any) (*domain.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.ErrValidation("payload must be JSON-serializable")
	}

	e, err := domain.NewOutboxEvent(eventType, body, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncPublished(string(e.EventType))
	}

	for _, c := range s.connectors {
		if err := c.Notify(ctx, e); err != nil {
			logger.WithCtx(ctx).Warn().
				Err(err).
				Str("event_id", e.ID).
				Str("event_type", string(e.EventType)).
				Msg("connector notify failed")
		}
	}

	return e, nil
}
