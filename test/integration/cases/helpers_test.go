//go:build integration
// +build integration

package cases

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baechuer/integrations-hub/internal/application/delivery"
	"github.com/baechuer/integrations-hub/internal/application/outbox"
	"github.com/baechuer/integrations-hub/internal/application/subscription"
	"github.com/baechuer/integrations-hub/internal/config"
	"github.com/baechuer/integrations-hub/internal/infrastructure/db/postgres"
	"github.com/baechuer/integrations-hub/internal/transport/http/handlers"
	"github.com/baechuer/integrations-hub/internal/transport/http/router"
	"github.com/baechuer/integrations-hub/test/integration/infra"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// stubHTTP is an in-process delivery.HTTPDelivery whose response is set
// per test, standing in for the subscribers' webhook receivers.
type stubHTTP struct {
	statusCode int
	body       []byte
}

func (s *stubHTTP) Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (int, []byte, error) {
	return s.statusCode, s.body, nil
}

func (s *stubHTTP) IsTimeout(err error) bool { return false }

// env is one fully wired stack: a fresh Postgres schema, the three
// application services, and an httptest server exposing the full router.
type env struct {
	db     *sql.DB
	server *httptest.Server

	subSvc      *subscription.Service
	outboxSvc   *outbox.Service
	deliverySvc *delivery.Service
	webhook     *stubHTTP
}

func setupEnv(t *testing.T, cfg delivery.Config) *env {
	t.Helper()
	ctx := context.Background()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := testcontainers.NewDockerClientWithOpts(ctx); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17"),
		tcpostgres.WithDatabase("integrations_hub_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.OpenDB(connStr)
	require.NoError(t, err)
	require.NoError(t, infra.PingDB(db))
	require.NoError(t, infra.ApplyMigrations(db, "../../../migrations"))
	t.Cleanup(func() { _ = db.Close() })

	subRepo := postgres.NewSubscriptionRepo(db)
	outboxRepo := postgres.NewOutboxRepo(db)
	deliveryRepo := postgres.NewDeliveryRepo(db)

	subSvc := subscription.New(subRepo, sysClock{}, nil, time.Minute)
	outboxSvc := outbox.New(outboxRepo, sysClock{}, nil)
	webhook := &stubHTTP{statusCode: http.StatusOK}
	deliverySvc := delivery.New(
		subRepo, outboxRepo, deliveryRepo, deliveryRepo, deliveryRepo, deliveryRepo,
		webhook, webhook, sysClock{}, cfg, nil,
	)

	deps := router.Deps{
		Subscriptions: handlers.NewSubscriptionsHandler(subSvc),
		Events:        handlers.NewEventsHandler(outboxSvc),
		Admin:         handlers.NewAdminHandler(deliverySvc),
		Health:        handlers.NewHealthHandler(),
	}
	httpHandler := router.New(deps, db, nil, &config.Config{RLEnabled: false})
	server := httptest.NewServer(httpHandler)
	t.Cleanup(server.Close)

	return &env{
		db:          db,
		server:      server,
		subSvc:      subSvc,
		outboxSvc:   outboxSvc,
		deliverySvc: deliverySvc,
		webhook:     webhook,
	}
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
	} `json:"error,omitempty"`
}

func (e *env) post(t *testing.T, path string, body any) (int, apiEnvelope) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}
