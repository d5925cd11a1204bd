package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/baechuer/integrations-hub/internal/config"
	"github.com/baechuer/integrations-hub/internal/transport/http/handlers"
	ihmw "github.com/baechuer/integrations-hub/internal/transport/http/middleware"
)

// Deps bundles every handler the router wires into the HTTP surface.
type Deps struct {
	Subscriptions *handlers.SubscriptionsHandler
	Events        *handlers.EventsHandler
	Admin         *handlers.AdminHandler
	Health        *handlers.HealthHandler
}

func New(deps Deps, db *sql.DB, rdb *redis.Client, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(ihmw.RequestID)
	r.Use(ihmw.Metrics)
	r.Use(ihmw.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(ihmw.AccessLog)

	if cfg.RLEnabled {
		if rdb == nil {
			r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
		} else {
			r.Use(httprate.Limit(
				cfg.RLLimit,
				cfg.RLWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}
	}

	r.Get("/health", deps.Health.Health)
	r.Get("/readyz", readyzHandler(db, rdb))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", deps.Subscriptions.Create)
			r.Get("/", deps.Subscriptions.List)
			r.Get("/{id}", deps.Subscriptions.Get)
			r.Put("/{id}", deps.Subscriptions.Update)
			r.Delete("/{id}", deps.Subscriptions.Delete)
		})

		r.Post("/events", deps.Events.Publish)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/events/{id}/attempts", deps.Admin.ListAttempts)
			r.Post("/dead-letters/{id}/replay", deps.Admin.Replay)
		})
	})

	return r
}

// readyzHandler reports DB (required) and Redis (optional) connectivity;
// Redis affects readiness only when a client is configured.
func readyzHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allHealthy := true

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				checks["database"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["database"] = "healthy"
			}
		} else {
			checks["database"] = "not_configured"
			allHealthy = false
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["redis"] = "healthy"
			}
		} else {
			checks["redis"] = "not_configured"
		}

		checks["status"] = "ready"
		if !allHealthy {
			checks["status"] = "not_ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(checks)
	}
}
