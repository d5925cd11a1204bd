package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minSecretLen = 16

// Subscription is a webhook endpoint registered to receive a subset of
// event types. Secret and Events are only mutated through the
// subscription service, never by the Dispatcher.
type Subscription struct {
	ID        string
	URL       string
	Secret    string
	Enabled   bool
	Events    []EventType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription validates and constructs a Subscription, defaulting
// Enabled to true when not explicitly supplied by the caller.
func NewSubscription(rawURL, secret string, events []EventType, enabled *bool, now time.Time) (*Subscription, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrValidation("url is required")
	}
	if u, err := url.Parse(rawURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrValidation("url must be an absolute URL")
	}
	if len(secret) < minSecretLen {
		return nil, ErrValidation("secret must be at least 16 characters")
	}
	if len(events) == 0 {
		return nil, ErrValidation("events must be a non-empty list")
	}
	seen := make(map[EventType]bool, len(events))
	for _, e := range events {
		if !e.Valid() {
			return nil, ErrValidationMeta("unknown event type", map[string]string{"event_type": string(e)})
		}
		seen[e] = true
	}
	dedup := make([]EventType, 0, len(seen))
	for _, e := range events {
		if seen[e] {
			dedup = append(dedup, e)
			delete(seen, e)
		}
	}

	en := true
	if enabled != nil {
		en = *enabled
	}

	t := now.UTC()
	return &Subscription{
		ID:        uuid.NewString(),
		URL:       rawURL,
		Secret:    secret,
		Enabled:   en,
		Events:    dedup,
		CreatedAt: t,
		UpdatedAt: t,
	}, nil
}

// ApplyUpdate mutates the subscription in place from a partial update,
// validating only the fields supplied.
func (s *Subscription) ApplyUpdate(rawURL, secret *string, events []EventType, enabled *bool, now time.Time) error {
	if rawURL != nil {
		v := strings.TrimSpace(*rawURL)
		if v == "" {
			return ErrValidation("url must not be empty")
		}
		if u, err := url.Parse(v); err != nil || u.Scheme == "" || u.Host == "" {
			return ErrValidation("url must be an absolute URL")
		}
		s.URL = v
	}
	if secret != nil {
		if len(*secret) < minSecretLen {
			return ErrValidation("secret must be at least 16 characters")
		}
		s.Secret = *secret
	}
	if events != nil {
		if len(events) == 0 {
			return ErrValidation("events must be a non-empty list")
		}
		for _, e := range events {
			if !e.Valid() {
				return ErrValidationMeta("unknown event type", map[string]string{"event_type": string(e)})
			}
		}
		s.Events = events
	}
	if enabled != nil {
		s.Enabled = *enabled
	}
	s.UpdatedAt = now.UTC()
	return nil
}

// Matches reports whether this subscription is enabled and subscribed to
// the given event type.
func (s *Subscription) Matches(t EventType) bool {
	if !s.Enabled {
		return false
	}
	for _, e := range s.Events {
		if e == t {
			return true
		}
	}
	return false
}

// EventsCSV serializes Events as the comma-separated string persisted in
// storage (§4.8: "an internal storage choice").
func EventsCSV(events []EventType) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = string(e)
	}
	return strings.Join(parts, ",")
}

// ParseEventsCSV rematerializes the comma-separated storage form back
// into a typed slice.
func ParseEventsCSV(csv string) []EventType {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]EventType, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, EventType(p))
		}
	}
	return out
}
