package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/store"
)

// fastPolicy keeps retry tests quick.
var fastPolicy = RetryPolicy{Delay: time.Millisecond, MaxAttempts: 5}

func TestRunWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	got, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, store.NewError(store.CodeUnavailable, "backend flapping")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	last := store.NewError(store.CodeInternal, "persistent failure")
	_, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, last
	})
	require.Error(t, err)
	assert.True(t, errors.IsMaxRetriesReached(err))
	// The action runs exactly MaxAttempts times before giving up.
	assert.Equal(t, fastPolicy.MaxAttempts, calls)
	// The last transient error survives as the cause.
	assert.ErrorIs(t, err, last)
}

func TestRunWithRetry_UncodedErrorNotRetried(t *testing.T) {
	calls := 0
	boom := stderrors.New("boom")
	_, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.IsMaxRetriesReached(err))
}

func TestRunWithRetry_NonRetriableCodeNotRetried(t *testing.T) {
	calls := 0
	_, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, store.NewError(store.CodeNotFound, "no such document")
	})
	require.Error(t, err)
	assert.Equal(t, store.CodeNotFound, store.CodeOf(err))
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_AbortedNotRetriedForOperations(t *testing.T) {
	calls := 0
	_, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, fastPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 0, store.NewError(store.CodeAborted, "contention")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_RetryAfterOverride(t *testing.T) {
	calls := 0
	start := time.Now()
	suggested := 30 * time.Millisecond
	_, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, RetryPolicy{Delay: time.Millisecond, MaxAttempts: 2}, func(ctx context.Context) (int, error) {
		calls++
		e := store.NewError(store.CodeRetry, "quota pause")
		e.RetryAfter = suggested
		return 0, e
	})
	require.Error(t, err)
	assert.True(t, errors.IsMaxRetriesReached(err))
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), suggested)
}

func TestRunWithRetry_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := RunWithRetry(ctx, execlog.NoopLogger{}, RetryPolicy{Delay: time.Second, MaxAttempts: 5}, func(ctx context.Context) (int, error) {
		calls++
		return 0, store.NewError(store.CodeUnavailable, "down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_ZeroPolicyUsesDefaults(t *testing.T) {
	// A zero policy must not spin forever or divide by zero; success on the
	// first try never touches the delay.
	got, err := RunWithRetry(context.Background(), execlog.NoopLogger{}, RetryPolicy{}, func(ctx context.Context) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, got)
}
