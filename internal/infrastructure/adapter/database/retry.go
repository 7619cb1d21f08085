package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// RandomizationFactor spreads concurrent retries apart (0.0-1.0)
	RandomizationFactor float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          5,
		InitialInterval:     20 * time.Millisecond,
		MaxInterval:         time.Second,
		RandomizationFactor: 0.2,
	}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.RandomizationFactor = c.RandomizationFactor
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.MaxRetries)), ctx)
}

// RetryOnTransientError runs operation until it succeeds, fails with a
// non-retryable error, the retries run out, or ctx is done
func RetryOnTransientError(
	ctx context.Context,
	config RetryConfig,
	operation func() error,
	errorMapper *ErrorMapper,
	logger coreport.Logger,
) error {
	attempt := 0
	op := func() error {
		attempt++
		err := operation()
		if err == nil {
			return nil
		}
		if !errorMapper.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Transient database error, retrying operation", map[string]any{
			"attempt":     attempt,
			"max_retries": config.MaxRetries,
			"error":       err.Error(),
			"retry_after": wait.String(),
		})
	}

	return backoff.RetryNotify(op, config.backOff(ctx), notify)
}
