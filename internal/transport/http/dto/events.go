package dto

import (
	"encoding/json"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

type PublishEventReq struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type OutboxEventResp struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToOutboxEventResp(e *domain.OutboxEvent) OutboxEventResp {
	return OutboxEventResp{
		ID:        e.ID,
		EventType: string(e.EventType),
		Payload:   json.RawMessage(e.Payload),
		CreatedAt: e.CreatedAt,
	}
}

type DeliveryAttemptResp struct {
	ID             string     `json:"id"`
	EventID        string     `json:"event_id"`
	SubscriptionID string     `json:"subscription_id"`
	AttemptNumber  int        `json:"attempt_number"`
	Status         string     `json:"status"`
	HTTPStatusCode *int       `json:"http_status_code,omitempty"`
	ResponseBody   *string    `json:"response_body,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	NextRetryAt    *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToDeliveryAttemptResp(a *domain.DeliveryAttempt) DeliveryAttemptResp {
	return DeliveryAttemptResp{
		ID:             a.ID,
		EventID:        a.EventID,
		SubscriptionID: a.SubscriptionID,
		AttemptNumber:  a.AttemptNumber,
		Status:         string(a.Status),
		HTTPStatusCode: a.HTTPStatusCode,
		ResponseBody:   a.ResponseBody,
		ErrorMessage:   a.ErrorMessage,
		NextRetryAt:    a.NextRetryAt,
		CreatedAt:      a.CreatedAt,
	}
}

func ToDeliveryAttemptResps(attempts []*domain.DeliveryAttempt) []DeliveryAttemptResp {
	out := make([]DeliveryAttemptResp, len(attempts))
	for i, a := range attempts {
		out[i] = ToDeliveryAttemptResp(a)
	}
	return out
}

type ReplayResp struct {
	Status       string `json:"status"`
	DeadLetterID string `json:"dead_letter_id"`
}
