package adventure

import (
	"context"
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

// Retrying wraps a repeatable request so that transient failures are retried
// according to a backoff policy. It implements RepeatableRequest itself, so a
// retrying request composes anywhere a plain one does.
//
// Each Send derives a fresh backoff policy instance: independent retry
// sequences never share state. Classification of errors is delegated to the
// wrapped request (RetriableRequest) or an explicit WithRetryDecision
// predicate; without either, every error is considered transient.
type Retrying[T any] struct {
	req RepeatableRequest[T]
	cfg *retryConfig
}

// Retry wraps req with retry-on-transient-failure behavior.
func Retry[T any](req RepeatableRequest[T], opts ...RetryOption) *Retrying[T] {
	return &Retrying[T]{req: req, cfg: newRetryConfig(opts...)}
}

// Send implements the RepeatableRequest interface. The returned Response runs
// the whole retry loop when waited on.
func (r *Retrying[T]) Send() Response[T] {
	policy := r.cfg.policy.Derive()
	decide := r.cfg.retryDecision(r.req)
	return ResponseFunc[T](func(ctx context.Context) (T, error) {
		return retrial(ctx, r.cfg, policy, decide, r.req.Send)
	})
}

// SendOnce implements the OneshotRequest interface.
func (r *Retrying[T]) SendOnce() Response[T] {
	return r.Send()
}

// RetryingPaged wraps a paged request the same way Retrying wraps a
// repeatable one. It implements PagedRequest, so a paginator is indifferent
// to whether its request retries: each page fetch gets its own freshly
// derived backoff sequence.
type RetryingPaged[T any] struct {
	req PagedRequest[T]
	cfg *retryConfig
}

// RetryPaged wraps req with per-page-fetch retry behavior.
func RetryPaged[T any](req PagedRequest[T], opts ...RetryOption) *RetryingPaged[T] {
	return &RetryingPaged[T]{req: req, cfg: newRetryConfig(opts...)}
}

// SendPage implements the PagedRequest interface. Re-sends within the retry
// loop reuse the same continuation token.
func (r *RetryingPaged[T]) SendPage(token *string) Response[T] {
	policy := r.cfg.policy.Derive()
	decide := r.cfg.retryDecision(r.req)
	return ResponseFunc[T](func(ctx context.Context) (T, error) {
		return retrial(ctx, r.cfg, policy, decide, func() Response[T] {
			return r.req.SendPage(token)
		})
	})
}

// retryDecision resolves the classification hook: an explicit predicate wins,
// then the wrapped request's own capability, then retry-everything.
func (cfg *retryConfig) retryDecision(req any) func(error) bool {
	if cfg.decide != nil {
		return cfg.decide
	}
	if rr, ok := req.(RetriableRequest); ok {
		return rr.ShouldRetry
	}
	return func(error) bool { return true }
}

// retrial is the retry state machine: alternate between an in-flight send and
// a backoff wait until the send succeeds, the error is classified permanent,
// the policy gives up, or ctx is cancelled.
func retrial[T any](
	ctx context.Context,
	cfg *retryConfig,
	policy BackoffPolicy,
	shouldRetry func(error) bool,
	send func() Response[T],
) (T, error) {
	var zero T

	var opID string
	if cfg.logger != nil {
		opID = uuid.NewString()
	}

	cfg.metrics.RecordInFlight(1)
	defer cfg.metrics.RecordInFlight(-1)

	attempts := 0
	for {
		attempts++
		cfg.metrics.RecordSend()

		v, err := send().Wait(ctx)
		if err == nil {
			if cfg.logger != nil && attempts > 1 {
				cfg.logger.Debug("send succeeded after retries", "opID", opID, "attempts", attempts)
			}
			return v, nil
		}

		// Cancellation surfaces as-is; no partial result, no classification.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		var perm *backoff.PermanentError
		if errors.As(err, &perm) || !shouldRetry(err) {
			cfg.metrics.RecordGiveUp(GiveUpAborted)
			if cfg.logger != nil {
				cfg.logger.Debug("error not retryable", "opID", opID, "attempts", attempts, "error", err)
			}
			return zero, err
		}

		wait := policy.NextBackOff()
		if wait == Stop {
			cfg.metrics.RecordGiveUp(GiveUpExhausted)
			if cfg.logger != nil {
				cfg.logger.Debug("backoff exhausted", "opID", opID, "attempts", attempts, "error", err)
			}
			return zero, &RetryError{Err: err, Attempts: attempts}
		}

		cfg.metrics.RecordRetry(wait)
		if cfg.logger != nil {
			cfg.logger.Debug("retrying after backoff", "opID", opID, "attempt", attempts, "wait", wait, "error", err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
