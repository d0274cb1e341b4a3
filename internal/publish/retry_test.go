package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/scorebook/internal/progress"
)

type flakySink struct {
	failures int
	calls    int
}

func (s *flakySink) call() error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("connection reset")
	}
	return nil
}

func (s *flakySink) Put(context.Context, string, []byte) error { return s.call() }
func (s *flakySink) Delete(context.Context, string) error      { return s.call() }

func (s *flakySink) Location() string { return "flaky" }

func TestRetrySink_RecoversFromTransientFailures(t *testing.T) {
	inner := &flakySink{failures: 2}
	var events []progress.Event
	sink := WithRetry(inner, RetryPolicy{MaxRetries: 3, Cooldown: 0.001, Exponent: 2}, func(e progress.Event) {
		events = append(events, e)
	})

	require.NoError(t, sink.Put(context.Background(), "a.svg", []byte("x")))
	assert.Equal(t, 3, inner.calls)
	assert.Len(t, events, 2)
	assert.Equal(t, "flaky", sink.Location())
}

func TestRetrySink_GivesUp(t *testing.T) {
	inner := &flakySink{failures: 10}
	sink := WithRetry(inner, RetryPolicy{MaxRetries: 2, Cooldown: 0.001, Exponent: 1}, nil)

	err := sink.Put(context.Background(), "a.svg", nil)
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrySink_StopsOnCancel(t *testing.T) {
	inner := &flakySink{failures: 10}
	sink := WithRetry(inner, RetryPolicy{MaxRetries: 5, Cooldown: 10, Exponent: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sink.Put(ctx, "a.svg", nil)
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetrySink_RetriesDelete(t *testing.T) {
	inner := &flakySink{failures: 1}
	sink := WithRetry(inner, RetryPolicy{MaxRetries: 2, Cooldown: 0.001, Exponent: 1}, nil)

	require.NoError(t, sink.Delete(context.Background(), "warnings.json"))
	assert.Equal(t, 2, inner.calls)
}

func TestWithRetry_NoPolicy(t *testing.T) {
	inner := &flakySink{}
	assert.Same(t, Sink(inner), WithRetry(inner, RetryPolicy{}, nil))
}
