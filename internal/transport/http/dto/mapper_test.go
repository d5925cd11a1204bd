package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToSubscriptionResp(t *testing.T) {
	now := time.Now().UTC()

	t.Run("maps_all_fields_and_omits_secret", func(t *testing.T) {
		s := &domain.Subscription{
			ID:        "sub_1",
			URL:       "https://example.com/hooks",
			Secret:    "super-secret",
			Enabled:   true,
			Events:    []domain.EventType{domain.EventRequestSubmitted, domain.EventRequestApproved},
			CreatedAt: now,
			UpdatedAt: now,
		}

		resp := ToSubscriptionResp(s)

		assert.Equal(t, s.ID, resp.ID)
		assert.Equal(t, s.URL, resp.URL)
		assert.Equal(t, []string{"request_submitted", "request_approved"}, resp.Events)
		assert.True(t, resp.Enabled)

		b, err := json.Marshal(resp)
		assert.NoError(t, err)
		assert.NotContains(t, string(b), "super-secret")
	})

	t.Run("empty_events_maps_to_empty_slice_not_nil", func(t *testing.T) {
		s := &domain.Subscription{ID: "sub_2"}
		resp := ToSubscriptionResp(s)
		assert.NotNil(t, resp.Events)
		assert.Empty(t, resp.Events)
	})
}

func TestToSubscriptionResps(t *testing.T) {
	subs := []*domain.Subscription{
		{ID: "sub_1"},
		{ID: "sub_2"},
	}
	resps := ToSubscriptionResps(subs)
	assert.Len(t, resps, 2)
	assert.Equal(t, "sub_1", resps[0].ID)
	assert.Equal(t, "sub_2", resps[1].ID)
}

func TestToOutboxEventResp(t *testing.T) {
	now := time.Now().UTC()
	e := &domain.OutboxEvent{
		ID:        "evt_1",
		EventType: domain.EventRequestSubmitted,
		Payload:   []byte(`{"title":"Laptop"}`),
		CreatedAt: now,
	}

	resp := ToOutboxEventResp(e)

	assert.Equal(t, e.ID, resp.ID)
	assert.Equal(t, "request_submitted", resp.EventType)
	assert.JSONEq(t, `{"title":"Laptop"}`, string(resp.Payload))
}

func TestToDeliveryAttemptResp(t *testing.T) {
	now := time.Now().UTC()

	t.Run("pending_attempt_omits_optional_fields", func(t *testing.T) {
		a := &domain.DeliveryAttempt{
			ID:             "att_1",
			EventID:        "evt_1",
			SubscriptionID: "sub_1",
			AttemptNumber:  1,
			Status:         domain.StatusPending,
			CreatedAt:      now,
		}
		resp := ToDeliveryAttemptResp(a)

		assert.Equal(t, "pending", resp.Status)
		assert.Nil(t, resp.HTTPStatusCode)
		assert.Nil(t, resp.ErrorMessage)
		assert.Nil(t, resp.NextRetryAt)
	})

	t.Run("delivered_attempt_carries_http_status", func(t *testing.T) {
		code := 200
		body := "OK"
		a := &domain.DeliveryAttempt{
			ID:             "att_2",
			AttemptNumber:  1,
			Status:         domain.StatusDelivered,
			HTTPStatusCode: &code,
			ResponseBody:   &body,
			CreatedAt:      now,
		}
		resp := ToDeliveryAttemptResp(a)

		assert.Equal(t, "delivered", resp.Status)
		assert.Equal(t, 200, *resp.HTTPStatusCode)
		assert.Equal(t, "OK", *resp.ResponseBody)
	})
}

func TestToDeliveryAttemptResps(t *testing.T) {
	attempts := []*domain.DeliveryAttempt{
		{ID: "att_1", AttemptNumber: 1, Status: domain.StatusFailed},
		{ID: "att_2", AttemptNumber: 2, Status: domain.StatusDeadLettered},
	}
	resps := ToDeliveryAttemptResps(attempts)
	assert.Len(t, resps, 2)
	assert.Equal(t, "failed", resps[0].Status)
	assert.Equal(t, "dead_lettered", resps[1].Status)
}
