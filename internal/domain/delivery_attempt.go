package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxResponseBodyBytes = 1000
	MaxErrorMessageBytes = 500
)

// DeliveryAttempt is one HTTP call recorded as a persistent row. Status
// mutates as the attempt resolves; the row itself is never deleted.
type DeliveryAttempt struct {
	ID             string
	EventID        string
	SubscriptionID string
	AttemptNumber  int
	Status         DeliveryStatus
	HTTPStatusCode *int
	ResponseBody   *string
	ErrorMessage   *string
	NextRetryAt    *time.Time
	CreatedAt      time.Time
}

// NewPendingAttempt constructs attempt number n for a pair, in the
// pending state it occupies while the HTTP call is in flight.
func NewPendingAttempt(eventID, subscriptionID string, attemptNumber int, now time.Time) *DeliveryAttempt {
	return &DeliveryAttempt{
		ID:             uuid.NewString(),
		EventID:        eventID,
		SubscriptionID: subscriptionID,
		AttemptNumber:  attemptNumber,
		Status:         StatusPending,
		CreatedAt:      now.UTC(),
	}
}

// Truncate clamps s to at most n bytes, a no-op when it already fits.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
