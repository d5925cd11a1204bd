package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a durably recorded domain event awaiting fanout. It is
// never mutated or deleted by the core once written.
type OutboxEvent struct {
	ID        string
	EventType EventType
	Payload   []byte // canonical JSON bytes, opaque to the core
	CreatedAt time.Time
}

func NewOutboxEvent(eventType EventType, payload []byte, now time.Time) (*OutboxEvent, error) {
	if !eventType.Valid() {
		return nil, ErrValidationMeta("unknown event type", map[string]string{"event_type": string(eventType)})
	}
	if len(payload) == 0 {
		return nil, ErrValidation("payload is required")
	}
	return &OutboxEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Payload:   payload,
		CreatedAt: now.UTC(),
	}, nil
}
