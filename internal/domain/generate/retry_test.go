package generate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedEngine struct {
	attempts int
	results  []func(ctx context.Context) (*Result, error)
}

func (e *scriptedEngine) Generate(ctx context.Context, _ Request) (*Result, error) {
	idx := e.attempts
	if idx >= len(e.results) {
		idx = len(e.results) - 1
	}
	e.attempts++
	return e.results[idx](ctx)
}

func fail(err error) func(context.Context) (*Result, error) {
	return func(context.Context) (*Result, error) { return nil, err }
}

func succeed(content string) func(context.Context) (*Result, error) {
	return func(context.Context) (*Result, error) { return &Result{Content: content}, nil }
}

func fastRetryConfig(attempts uint) RetryConfig {
	return RetryConfig{
		MaxAttempts:     attempts,
		AttemptTimeout:  time.Second,
		InitialInterval: time.Millisecond,
	}
}

func TestRetrierRetriesTransientFailures(t *testing.T) {
	engine := &scriptedEngine{results: []func(context.Context) (*Result, error){
		fail(ErrUnavailable),
		fail(ErrTimeout),
		succeed("third time lucky"),
	}}

	r := NewRetrier(engine, fastRetryConfig(3), nil)
	res, err := r.Generate(context.Background(), Request{Prompt: "make pong"})
	require.NoError(t, err)
	require.Equal(t, "third time lucky", res.Content)
	require.Equal(t, 3, engine.attempts)
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	engine := &scriptedEngine{results: []func(context.Context) (*Result, error){
		fail(ErrUnavailable),
	}}

	r := NewRetrier(engine, fastRetryConfig(3), nil)
	_, err := r.Generate(context.Background(), Request{Prompt: "make pong"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRetrierDoesNotRetryRejections(t *testing.T) {
	for _, permanent := range []error{ErrInvalidPrompt, ErrRejected} {
		engine := &scriptedEngine{results: []func(context.Context) (*Result, error){
			fail(permanent),
			succeed("must never be reached"),
		}}

		r := NewRetrier(engine, fastRetryConfig(3), nil)
		_, err := r.Generate(context.Background(), Request{Prompt: "make pong"})
		require.ErrorIs(t, err, permanent)
		require.Equal(t, 1, engine.attempts, "%v must not be retried", permanent)
	}
}

func TestRetrierCallerDeadlineIsFinal(t *testing.T) {
	engine := &scriptedEngine{results: []func(context.Context) (*Result, error){
		func(ctx context.Context) (*Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := NewRetrier(engine, RetryConfig{MaxAttempts: 5, AttemptTimeout: time.Second, InitialInterval: time.Millisecond}, nil)
	_, err := r.Generate(ctx, Request{Prompt: "make pong"})
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, 1, engine.attempts, "no further attempts after the caller's deadline")
}

func TestRetrierAttemptTimeout(t *testing.T) {
	engine := &scriptedEngine{results: []func(context.Context) (*Result, error){
		func(ctx context.Context) (*Result, error) {
			// Simulates an upstream that hangs past the attempt budget
			<-ctx.Done()
			return nil, ctx.Err()
		},
		succeed("recovered"),
	}}

	cfg := RetryConfig{
		MaxAttempts:     2,
		AttemptTimeout:  10 * time.Millisecond,
		InitialInterval: time.Millisecond,
	}
	r := NewRetrier(engine, cfg, nil)
	res, err := r.Generate(context.Background(), Request{Prompt: "make pong"})
	require.NoError(t, err)
	require.Equal(t, "recovered", res.Content)
}

func TestRetryable(t *testing.T) {
	require.True(t, Retryable(ErrUnavailable))
	require.True(t, Retryable(ErrTimeout))
	require.False(t, Retryable(ErrInvalidPrompt))
	require.False(t, Retryable(ErrRejected))
	require.False(t, Retryable(context.Canceled))
}
