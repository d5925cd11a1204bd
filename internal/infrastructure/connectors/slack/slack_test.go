package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_NonSubmittedEventIsNoop(t *testing.T) {
	c := New("xoxb-token", "#requests")
	e, err := domain.NewOutboxEvent(domain.EventRequestApproved, []byte(`{"title":"T"}`), time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Notify(context.Background(), e))
}

func TestNotify_MissingTokenIsNoop(t *testing.T) {
	c := New("", "#requests")
	e, err := domain.NewOutboxEvent(domain.EventRequestSubmitted, []byte(`{"title":"T"}`), time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Notify(context.Background(), e))
}

func TestNotify_PostsFormattedMessage(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := New("xoxb-token", "#requests")
	c.httpClient = srv.Client()
	c.postMessageURL = srv.URL

	e, err := domain.NewOutboxEvent(domain.EventRequestSubmitted, []byte(`{"title":"Laptop","requester":"alice"}`), time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Notify(context.Background(), e))

	assert.Equal(t, "Bearer xoxb-token", gotAuth)
	assert.Equal(t, "#requests", gotBody["channel"])
	assert.Contains(t, gotBody["text"], "Laptop")
}
