package worker

import (
	"context"
	"time"

	"github.com/baechuer/integrations-hub/internal/application/delivery"
	"github.com/baechuer/integrations-hub/internal/logger"
)

// Dispatcher runs delivery.Service.RunCycle on a ticker until ctx is
// cancelled (§5: "one long-lived Dispatcher task... cooperatively on
// the same runtime as the ingress server").
type Dispatcher struct {
	svc          *delivery.Service
	pollInterval time.Duration
}

func NewDispatcher(svc *delivery.Service, pollInterval time.Duration) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Dispatcher{svc: svc, pollInterval: pollInterval}
}

// Run blocks until ctx is cancelled. Each tick runs exactly one cycle;
// a cycle's errors are logged and never stop the loop (§4.3, §5
// "Cancellation").
func (d *Dispatcher) Run(ctx context.Context) {
	log := logger.WithCtx(ctx)
	log.Info().Dur("poll_interval", d.pollInterval).Msg("dispatcher_started")

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("dispatcher_stopped")
			return
		case <-ticker.C:
			if err := d.svc.RunCycle(ctx); err != nil {
				log.Error().Err(err).Msg("dispatcher_cycle_failed")
			}
		}
	}
}
