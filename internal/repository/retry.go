package repository

import (
	"context"
	"time"

	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/store"
)

// RetryPolicy bounds the retry loop around a store operation.
type RetryPolicy struct {
	Delay       time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy is applied when callers pass a zero policy.
var DefaultRetryPolicy = RetryPolicy{Delay: time.Second, MaxAttempts: 5}

func (p RetryPolicy) orDefault() RetryPolicy {
	if p.Delay == 0 {
		p.Delay = DefaultRetryPolicy.Delay
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	return p
}

// operationRetryCodes are the transient classifications a single store
// operation is retried on. CodeRetry is the caller-requested sentinel.
var operationRetryCodes = map[store.Code]bool{
	store.CodeInternal:    true,
	store.CodeUnavailable: true,
	store.CodeRetry:       true,
}

// transactionRetryCodes additionally retry on contention, since a whole
// read-modify-write transaction can be re-driven safely.
var transactionRetryCodes = map[store.Code]bool{
	store.CodeInternal:    true,
	store.CodeUnavailable: true,
	store.CodeRetry:       true,
	store.CodeAborted:     true,
}

// RunWithRetry executes fn, retrying on transient store codes with a bounded
// attempt budget and a fixed (or error-suggested) delay between attempts.
// Non-retriable coded errors are logged and rethrown unchanged; errors of
// unexpected shape are rethrown immediately without retry.
func RunWithRetry[T any](ctx context.Context, el execlog.ExecutionLogger, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	return runRetryLoop(ctx, el, policy, operationRetryCodes, fn)
}

// RunTransactionWithRetry drives a whole read-modify-write transaction
// through the retry loop, additionally retrying on contention.
func RunTransactionWithRetry(ctx context.Context, el execlog.ExecutionLogger, client store.Client, policy RetryPolicy, fn func(ctx context.Context, tx store.Transaction) error) error {
	_, err := runRetryLoop(ctx, el, policy, transactionRetryCodes, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.RunTransaction(ctx, fn)
	})
	return err
}

func runRetryLoop[T any](ctx context.Context, el execlog.ExecutionLogger, policy RetryPolicy, retriable map[store.Code]bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	policy = policy.orDefault()
	attempts := 0
	for {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		code := store.CodeOf(err)
		if code == "" {
			// Unexpected error shape: nothing to classify, do not retry.
			return zero, err
		}
		if !retriable[code] {
			el.Warn(map[string]interface{}{"code": string(code)}, "unhandled error code")
			return zero, err
		}
		attempts++
		if attempts >= policy.MaxAttempts {
			return zero, errors.NewMaxRetriesReached(attempts, err)
		}
		el.Warn(map[string]interface{}{
			"attempt": attempts,
			"code":    string(code),
		}, "transient store error, retrying")

		delay := policy.Delay
		if suggested := store.RetryAfterOf(err); suggested > 0 {
			delay = suggested
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
