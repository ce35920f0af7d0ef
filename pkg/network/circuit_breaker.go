package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-starcruiser/pkg/logging"
)

// BreakerConfig tunes the circuit breaker guarding client connection attempts.
type BreakerConfig struct {
	MaxRequests            uint32
	Interval               time.Duration
	Timeout                time.Duration
	MaxConsecutiveFailures uint32
	Retries                int
	BaseDelay              time.Duration
}

// DefaultBreakerConfig returns the settings used by NewClient.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:            1,
		Interval:               time.Minute,
		Timeout:                30 * time.Second,
		MaxConsecutiveFailures: 5,
		Retries:                3,
		BaseDelay:              time.Second,
	}
}

// Operation is a network call guarded by a Breaker.
type Operation func() error

// Breaker wraps network operations with a circuit breaker so a client stops
// hammering a server that is down.
type Breaker struct {
	breaker *gobreaker.CircuitBreaker
	cfg     BreakerConfig
	logger  *logging.Logger
}

// NewBreaker creates a breaker named name.
func NewBreaker(name string, cfg BreakerConfig, logger *logging.Logger) *Breaker {
	if logger == nil {
		logger = logging.Discard()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &Breaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		cfg:     cfg,
		logger:  logger,
	}
}

// Execute runs op unless the circuit is open.
func (b *Breaker) Execute(ctx context.Context, op Operation) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, op()
	})
	if err != nil {
		b.logger.LogWithContext(ctx, slog.LevelDebug, "circuit breaker execution failed",
			"error", err,
			"state", b.breaker.State().String(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs op up to cfg.Retries times with a linearly growing
// delay, giving up early once the circuit opens.
func (b *Breaker) ExecuteWithRetry(ctx context.Context, op Operation) error {
	retries := max(b.cfg.Retries, 1)
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		if err = b.Execute(ctx, op); err == nil {
			return nil
		}
		if b.breaker.State() == gobreaker.StateOpen {
			b.logger.Warn(ctx, "circuit breaker is open, skipping retries", "attempt", attempt)
			return err
		}
		if attempt == retries {
			break
		}

		delay := time.Duration(attempt) * b.cfg.BaseDelay
		b.logger.Warn(ctx, "operation failed, retrying",
			"attempt", attempt,
			"max_retries", retries,
			"delay", delay,
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}
	return fmt.Errorf("max retries (%d) exceeded: %w", retries, err)
}

// State returns the breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the failure and success counts of the current interval.
func (b *Breaker) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}
