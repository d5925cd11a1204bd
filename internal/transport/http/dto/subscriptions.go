package dto

import (
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
)

type CreateSubscriptionReq struct {
	URL     string   `json:"url"`
	Secret  string   `json:"secret"`
	Events  []string `json:"events"`
	Enabled *bool    `json:"enabled,omitempty"`
}

type UpdateSubscriptionReq struct {
	URL     *string  `json:"url,omitempty"`
	Secret  *string  `json:"secret,omitempty"`
	Events  []string `json:"events,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

type SubscriptionResp struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSubscriptionResp omits Secret: it is write-only once a subscription
// is registered.
func ToSubscriptionResp(s *domain.Subscription) SubscriptionResp {
	events := make([]string, len(s.Events))
	for i, e := range s.Events {
		events[i] = string(e)
	}
	return SubscriptionResp{
		ID:        s.ID,
		URL:       s.URL,
		Events:    events,
		Enabled:   s.Enabled,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSubscriptionResps(subs []*domain.Subscription) []SubscriptionResp {
	out := make([]SubscriptionResp, len(subs))
	for i, s := range subs {
		out[i] = ToSubscriptionResp(s)
	}
	return out
}
