// Package worker runs the fulfillment outbox: pending intents written by the
// webhook handler are retried here until they succeed or exhaust their
// attempts.
package worker

import (
	"context"
	"promptcanvas/internal/repository"
	"promptcanvas/internal/service"
	"time"

	"github.com/rs/zerolog"
)

const (
	claimBatchSize = 10
	// How long a claimed intent stays invisible to subsequent scans. Long
	// enough to cover both provider calls at their full client timeouts.
	claimLease = 5 * time.Minute
)

type OutboxWorker struct {
	intentRepo         repository.FulfillmentIntentRepository
	fulfillmentService service.FulfillmentService
	interval           time.Duration
	logger             zerolog.Logger
}

func NewOutboxWorker(
	intentRepo repository.FulfillmentIntentRepository,
	fulfillmentService service.FulfillmentService,
	interval time.Duration,
	logger zerolog.Logger,
) *OutboxWorker {
	return &OutboxWorker{
		intentRepo:         intentRepo,
		fulfillmentService: fulfillmentService,
		interval:           interval,
		logger:             logger,
	}
}

// Run blocks until ctx is cancelled, draining due intents once per interval.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("outbox worker stopped")
			return
		case <-ticker.C:
			w.processDue(ctx)
		}
	}
}

func (w *OutboxWorker) processDue(ctx context.Context) {
	intents, err := w.intentRepo.ClaimDue(ctx, time.Now(), claimLease, claimBatchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("claim due fulfillment intents failed")
		return
	}

	for _, intent := range intents {
		if ctx.Err() != nil {
			return
		}
		if err := w.fulfillmentService.ProcessIntent(ctx, intent); err != nil {
			w.logger.Warn().Err(err).
				Str("session_id", intent.SessionID).
				Msg("fulfillment retry failed")
		}
	}
}
