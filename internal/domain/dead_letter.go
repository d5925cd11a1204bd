package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeadLetter quarantines a (event, subscription) pair whose retry budget
// has been exhausted. Removed only when an operator replays it.
type DeadLetter struct {
	ID             string
	EventID        string
	SubscriptionID string
	LastError      *string
	TotalAttempts  int
	CreatedAt      time.Time
}

func NewDeadLetter(eventID, subscriptionID string, totalAttempts int, lastError *string, now time.Time) *DeadLetter {
	return &DeadLetter{
		ID:             uuid.NewString(),
		EventID:        eventID,
		SubscriptionID: subscriptionID,
		LastError:      lastError,
		TotalAttempts:  totalAttempts,
		CreatedAt:      now.UTC(),
	}
}
