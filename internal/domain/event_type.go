package domain

// EventType is the closed set of domain events the outbox accepts.
type EventType string

const (
	EventRequestSubmitted EventType = "request_submitted"
	EventRequestApproved  EventType = "request_approved"
	EventRequestRejected  EventType = "request_rejected"
	EventRequestUpdated   EventType = "request_updated"
)

func (t EventType) Valid() bool {
	switch t {
	case EventRequestSubmitted, EventRequestApproved, EventRequestRejected, EventRequestUpdated:
		return true
	default:
		return false
	}
}

// ValidEventTypes lists the recognized event-type tags, stable order.
func ValidEventTypes() []EventType {
	return []EventType{
		EventRequestSubmitted,
		EventRequestApproved,
		EventRequestRejected,
		EventRequestUpdated,
	}
}
