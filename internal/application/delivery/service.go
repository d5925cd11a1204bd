package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/logger"
	"github.com/baechuer/integrations-hub/internal/signing"
)

const maxEventsPerCycle = 50

// Config holds the tunables from §4.4/§4.5 (env-sourced in production).
type Config struct {
	MaxAttempts int
	BackoffBase float64
	Jitter      float64
	Timeout     time.Duration
}

// Service is the Dispatcher: it owns the cycle loop, the per-pair delivery
// algorithm, replay, and the attempts query (§4.3–§4.7).
type Service struct {
	subs        SubscriptionReader
	outbox      OutboxReader
	attempts    AttemptReader
	deadLetters DeadLetterReader
	pairs       PairReader
	store       Store
	http        HTTPDelivery
	timeouts    TimeoutClassifier
	clock       Clock
	cfg         Config
	metrics     Metrics
	rng         *rand.Rand
}

func New(
	subs SubscriptionReader,
	outbox OutboxReader,
	attempts AttemptReader,
	deadLetters DeadLetterReader,
	pairs PairReader,
	store Store,
	httpd HTTPDelivery,
	timeouts TimeoutClassifier,
	clock Clock,
	cfg Config,
	metrics Metrics,
) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2.0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		subs:        subs,
		outbox:      outbox,
		attempts:    attempts,
		deadLetters: deadLetters,
		pairs:       pairs,
		store:       store,
		http:        httpd,
		timeouts:    timeouts,
		clock:       clock,
		cfg:         cfg,
		metrics:     metrics,
	}
}

// RunCycle performs one pass of the dispatcher loop (§4.3). It fetches a
// bounded FIFO batch of events, expands each into its enabled
// subscriptions, evaluates the dispatch gate per pair, and delivers the
// pairs that pass. A single pair's failure never aborts the cycle.
func (s *Service) RunCycle(ctx context.Context) error {
	events, err := s.outbox.ListBatch(ctx, maxEventsPerCycle)
	if err != nil {
		return fmt.Errorf("delivery: list batch: %w", err)
	}

	now := s.clock.Now()
	log := logger.WithCtx(ctx)

	for _, event := range events {
		subs, err := s.subs.ListEnabledForEventType(ctx, event.EventType)
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("list subscriptions for event failed")
			continue
		}

		for _, sub := range subs {
			attempts, err := s.pairs.ListForPair(ctx, event.ID, sub.ID)
			if err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Str("subscription_id", sub.ID).Msg("list attempts for pair failed")
				continue
			}
			dl, err := s.pairs.GetDeadLetterForPair(ctx, event.ID, sub.ID)
			if err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Str("subscription_id", sub.ID).Msg("get dead letter for pair failed")
				continue
			}

			action := evaluateGate(attempts, dl, now)
			if action != GateAttemptNow {
				continue
			}

			if _, err := s.Deliver(ctx, event, sub); err != nil {
				if errors.Is(err, ErrPairLocked) {
					continue
				}
				log.Error().Err(err).Str("event_id", event.ID).Str("subscription_id", sub.ID).Msg("deliver failed")
			}
		}
	}

	return nil
}

// Deliver performs exactly one delivery attempt for (event, subscription)
// per §4.4, inside a transaction scoped to the pair so concurrent workers
// never race on the same attempt_number.
func (s *Service) Deliver(ctx context.Context, event *domain.OutboxEvent, sub *domain.Subscription) (*domain.DeliveryAttempt, error) {
	var result *domain.DeliveryAttempt

	err := s.store.WithPairTx(ctx, event.ID, sub.ID, func(tx Tx) error {
		existing, err := tx.ListForPair(ctx, event.ID, sub.ID)
		if err != nil {
			return err
		}
		n := len(existing) + 1
		now := s.clock.Now()

		attempt := domain.NewPendingAttempt(event.ID, sub.ID, n, now)

		signature, ts := signing.Sign(event.Payload, sub.Secret, 0)
		body, err := buildEnvelope(event, signature, ts)
		if err != nil {
			return err
		}

		headers := map[string]string{
			"Content-Type":        "application/json",
			"X-Webhook-Signature": signature,
			"X-Webhook-Timestamp": fmt.Sprintf("%d", ts),
			"X-Webhook-Event":     string(event.EventType),
			"X-Webhook-Event-Id":  event.ID,
		}

		start := s.clock.Now()
		statusCode, respBody, postErr := s.http.Post(ctx, sub.URL, headers, body, s.cfg.Timeout)
		elapsed := s.clock.Now().Sub(start)

		s.resolveOutcome(attempt, statusCode, respBody, postErr, n, now)

		if err := tx.CreateAttempt(ctx, attempt); err != nil {
			return err
		}

		if attempt.Status == domain.StatusDeadLettered {
			dl := domain.NewDeadLetter(event.ID, sub.ID, n, attempt.ErrorMessage, now)
			if err := tx.CreateDeadLetter(ctx, dl); err != nil {
				return err
			}
		}

		if s.metrics != nil {
			s.metrics.IncDelivery(string(attempt.Status))
			s.metrics.ObserveDuration(elapsed.Seconds())
		}

		result = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveOutcome implements §4.4 steps 5–7, mutating attempt in place.
func (s *Service) resolveOutcome(attempt *domain.DeliveryAttempt, statusCode int, respBody []byte, postErr error, n int, now time.Time) {
	switch {
	case postErr == nil && statusCode >= 200 && statusCode < 300:
		attempt.Status = domain.StatusDelivered
		code := statusCode
		attempt.HTTPStatusCode = &code
		body := domain.Truncate(string(respBody), domain.MaxResponseBodyBytes)
		attempt.ResponseBody = &body
		return

	case postErr == nil:
		attempt.Status = domain.StatusFailed
		code := statusCode
		attempt.HTTPStatusCode = &code
		body := domain.Truncate(string(respBody), domain.MaxResponseBodyBytes)
		attempt.ResponseBody = &body
		msg := fmt.Sprintf("HTTP %d", statusCode)
		attempt.ErrorMessage = &msg

	case s.timeouts != nil && s.timeouts.IsTimeout(postErr):
		attempt.Status = domain.StatusFailed
		msg := "Request timed out"
		attempt.ErrorMessage = &msg

	default:
		attempt.Status = domain.StatusFailed
		msg := domain.Truncate(postErr.Error(), domain.MaxErrorMessageBytes)
		attempt.ErrorMessage = &msg
	}

	if n >= s.cfg.MaxAttempts {
		attempt.Status = domain.StatusDeadLettered
		return
	}

	attempt.Status = domain.StatusPending
	retryAt := NextRetryAt(now, s.cfg.BackoffBase, n, s.cfg.Jitter, s.rng)
	attempt.NextRetryAt = &retryAt
}

// Replay implements §4.6: clears the dead-letter quarantine for the pair
// and immediately re-invokes Deliver, without resetting the attempt
// counter.
func (s *Service) Replay(ctx context.Context, deadLetterID string) (bool, error) {
	dl, err := s.deadLetters.GetByID(ctx, deadLetterID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if dl == nil {
		return false, nil
	}

	event, err := s.outbox.GetByID(ctx, dl.EventID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, nil
	}

	sub, err := s.subs.GetByID(ctx, dl.SubscriptionID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	err = s.store.WithPairTx(ctx, dl.EventID, dl.SubscriptionID, func(tx Tx) error {
		if err := tx.DeleteDeadLetter(ctx, dl.ID); err != nil {
			return err
		}
		existing, err := tx.ListForPair(ctx, dl.EventID, dl.SubscriptionID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if a.Status == domain.StatusDeadLettered {
				a.Status = domain.StatusFailed
				if err := tx.UpdateAttempt(ctx, a); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	attempt, err := s.Deliver(ctx, event, sub)
	if err != nil {
		return false, err
	}
	return attempt != nil && attempt.Status == domain.StatusDelivered, nil
}

// ListAttempts implements §4.7: all attempts for an event, across every
// subscription, ordered by created_at ascending.
func (s *Service) ListAttempts(ctx context.Context, eventID string) ([]*domain.DeliveryAttempt, error) {
	return s.attempts.ListForEvent(ctx, eventID)
}

// GetDeadLetter looks up a dead letter by id, surfacing domain.ErrNotFound
// to the caller (unlike Replay, which treats absence as "return false").
// The admin HTTP layer uses this to decide between 404 and 200 before
// invoking Replay, since Replay's bool result alone can't distinguish
// "nothing to replay" from "replayed but the fresh attempt failed".
func (s *Service) GetDeadLetter(ctx context.Context, id string) (*domain.DeadLetter, error) {
	return s.deadLetters.GetByID(ctx, id)
}

// isNotFound reports whether err is a domain.AppError tagged NotFound.
// Replay treats an absent dead letter, event, or subscription as "return
// false", never as an infrastructure error (§4.6).
func isNotFound(err error) bool {
	var ae *domain.AppError
	return errors.As(err, &ae) && ae.Code == domain.CodeNotFound
}

type webhookEnvelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// buildEnvelope builds the POST body (§4.4 step 3). The signature covers
// event.Payload directly, never this wrapped form.
func buildEnvelope(event *domain.OutboxEvent, signature string, ts int64) ([]byte, error) {
	var data any
	if err := json.Unmarshal(event.Payload, &data); err != nil {
		return nil, err
	}
	env := webhookEnvelope{
		EventID:   event.ID,
		EventType: string(event.EventType),
		Timestamp: ts,
		Data:      data,
	}
	return json.Marshal(env)
}
