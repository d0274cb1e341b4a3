package publish

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/handiism/scorebook/internal/progress"
)

// RetryPolicy controls how often a failed Put is retried. The wait before
// retry n (starting at 0) is Cooldown * Exponent^n seconds.
type RetryPolicy struct {
	MaxRetries int
	Cooldown   float64
	Exponent   float64
}

// RetrySink retries failed writes of an underlying Sink with exponential
// backoff. Context errors are never retried.
type RetrySink struct {
	sink       Sink
	policy     RetryPolicy
	onProgress progress.Func
}

// WithRetry wraps sink. A policy with no retries returns sink unchanged.
func WithRetry(sink Sink, policy RetryPolicy, onProgress progress.Func) Sink {
	if policy.MaxRetries <= 0 {
		return sink
	}
	return &RetrySink{sink: sink, policy: policy, onProgress: onProgress}
}

// Put writes through the underlying sink, retrying on failure.
func (s *RetrySink) Put(ctx context.Context, key string, data []byte) error {
	return s.retry(ctx, key, func() error { return s.sink.Put(ctx, key, data) })
}

// Delete removes through the underlying sink, retrying on failure.
func (s *RetrySink) Delete(ctx context.Context, key string) error {
	return s.retry(ctx, key, func() error { return s.sink.Delete(ctx, key) })
}

func (s *RetrySink) retry(ctx context.Context, key string, op func() error) error {
	var err error
	for tries := 0; tries <= s.policy.MaxRetries; tries++ {
		err = op()
		if err == nil || ctx.Err() != nil {
			return err
		}
		if tries == s.policy.MaxRetries {
			break
		}
		s.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Retry %d/%d for %s: %v", tries+1, s.policy.MaxRetries, key, err))
		if werr := s.waitForRetry(ctx, tries); werr != nil {
			return werr
		}
	}
	return err
}

// Location returns the location of the underlying sink.
func (s *RetrySink) Location() string {
	return s.sink.Location()
}

func (s *RetrySink) waitForRetry(ctx context.Context, tries int) error {
	cooldown := s.policy.Cooldown * math.Pow(s.policy.Exponent, float64(tries))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
		return nil
	}
}
