package delivery

import (
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

// GateAction is the outcome of evaluating the dispatch gate for one
// (event, subscription) pair.
type GateAction int

const (
	GateSkipDelivered GateAction = iota
	GateSkipDeadLettered
	GateAttemptNow
	GateSkipNotYetDue
	GateSkipTerminal
)

func (a GateAction) String() string {
	switch a {
	case GateSkipDelivered:
		return "skip_delivered"
	case GateSkipDeadLettered:
		return "skip_dead_lettered"
	case GateAttemptNow:
		return "attempt_now"
	case GateSkipNotYetDue:
		return "skip_not_yet_due"
	case GateSkipTerminal:
		return "skip_terminal"
	default:
		return "unknown"
	}
}

// evaluateGate implements the ordered dispatch-gate predicate: first
// match wins. attempts must be ordered by attempt_number ascending.
func evaluateGate(attempts []*domain.DeliveryAttempt, deadLetter *domain.DeadLetter, now time.Time) GateAction {
	for _, a := range attempts {
		if a.Status == domain.StatusDelivered {
			return GateSkipDelivered
		}
	}

	if deadLetter != nil {
		return GateSkipDeadLettered
	}

	if len(attempts) == 0 {
		return GateAttemptNow
	}

	latest := attempts[len(attempts)-1]
	switch latest.Status {
	case domain.StatusPending:
		if latest.NextRetryAt != nil && !latest.NextRetryAt.After(now) {
			return GateAttemptNow
		}
		return GateSkipNotYetDue
	default:
		// failed (terminal encoding) or dead_lettered without a live
		// DeadLetter row (shouldn't happen, but fail closed).
		return GateSkipTerminal
	}
}
