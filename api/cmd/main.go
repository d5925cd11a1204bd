package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baechuer/integrations-hub/internal/application/delivery"
	"github.com/baechuer/integrations-hub/internal/application/outbox"
	"github.com/baechuer/integrations-hub/internal/application/subscription"
	"github.com/baechuer/integrations-hub/internal/config"
	"github.com/baechuer/integrations-hub/internal/infrastructure/caching/redis"
	"github.com/baechuer/integrations-hub/internal/infrastructure/connectors/slack"
	"github.com/baechuer/integrations-hub/internal/infrastructure/db/postgres"
	"github.com/baechuer/integrations-hub/internal/infrastructure/httpclient"
	metricsadapter "github.com/baechuer/integrations-hub/internal/infrastructure/metrics"
	"github.com/baechuer/integrations-hub/internal/logger"
	"github.com/baechuer/integrations-hub/internal/transport/http/handlers"
	"github.com/baechuer/integrations-hub/internal/transport/http/router"
	"github.com/baechuer/integrations-hub/internal/worker"
	go_redis "github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// sysClock is the only Clock implementation wired at runtime; every
// other clock in the codebase is a test fake.
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}

	_ = os.Setenv("LOG_LEVEL", cfg.LogLevel)
	_ = os.Setenv("LOG_FORMAT", cfg.LogFormat)
	logger.Init()
	log := logger.Logger.With().Str("service", "integrations-hub").Str("env", cfg.AppEnv).Logger()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres open failed")
	}
	defer db.Close()
	log.Info().Msg("postgres connected")

	var rc *redis.Client
	var subCache subscription.Cache
	var rawRedis *go_redis.Client
	if cfg.RedisURL != "" {
		c, err := redis.New(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis connect failed, continuing without cache")
		} else {
			rc = c
			subCache = c
			rawRedis = c.GetRawClient()
			log.Info().Msg("redis cache ready")
		}
	}
	if rc != nil {
		defer rc.Close()
	}

	subRepo := postgres.NewSubscriptionRepo(db)
	outboxRepo := postgres.NewOutboxRepo(db)
	deliveryRepo := postgres.NewDeliveryRepo(db)

	subSvc := subscription.New(subRepo, sysClock{}, subCache, 30*time.Second)

	promMetrics := metricsadapter.New()

	var slackConnector outbox.Connector
	if cfg.SlackBotToken != "" {
		slackConnector = slack.New(cfg.SlackBotToken, cfg.SlackDefaultChannel)
	}
	var connectors []outbox.Connector
	if slackConnector != nil {
		connectors = append(connectors, slackConnector)
	}
	outboxSvc := outbox.New(outboxRepo, sysClock{}, promMetrics, connectors...)

	httpDelivery := httpclient.New()
	deliverySvc := delivery.New(
		subRepo, outboxRepo, deliveryRepo, deliveryRepo, deliveryRepo, deliveryRepo,
		httpDelivery, httpDelivery, sysClock{},
		delivery.Config{
			MaxAttempts: cfg.DeliveryMaxAttempts,
			BackoffBase: cfg.DeliveryBackoffBase,
			Jitter:      cfg.DeliveryBackoffJiter,
			Timeout:     cfg.DeliveryTimeout,
		},
		promMetrics,
	)

	dispatcher := worker.NewDispatcher(deliverySvc, cfg.DeliveryPollInterval)
	go dispatcher.Run(rootCtx)

	deps := router.Deps{
		Subscriptions: handlers.NewSubscriptionsHandler(subSvc),
		Events:        handlers.NewEventsHandler(outboxSvc),
		Admin:         handlers.NewAdminHandler(deliverySvc),
		Health:        handlers.NewHealthHandler(),
	}
	httpHandler := router.New(deps, db, rawRedis, cfg)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
