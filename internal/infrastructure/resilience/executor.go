package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict classifies a failed call: whether it is worth another
// attempt, and whether the circuit breaker should count it against the
// backend's health.
type Verdict struct {
	Retry  bool
	Record bool
}

type Classifier func(err error) Verdict

// Executor runs backend calls under a retry policy with a circuit
// breaker per operation name. Classification is the caller's: a
// mutating call can pass a classifier that never retries while a read
// retries on transient failures, against the same breaker state.
type Executor struct {
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		policy:   policy.normalize(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (e *Executor) Run(ctx context.Context, operation string, classify Classifier, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil operation callback")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = func(error) Verdict { return Verdict{Record: true} }
	}

	if !e.policy.BreakerEnabled {
		return e.runWithRetry(ctx, op, classify, fn)
	}

	breaker := e.breaker(op, classify)
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.runWithRetry(ctx, op, classify, fn)
	})
	return err
}

func (e *Executor) runWithRetry(ctx context.Context, operation string, classify Classifier, fn func(context.Context) error) error {
	backoff := e.policy.InitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if verdict := classify(err); !verdict.Retry || attempt == e.policy.MaxAttempts {
			return err
		}

		wait := backoff
		if wait > e.policy.MaxBackoff {
			wait = e.policy.MaxBackoff
		}
		e.logger.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", e.policy.MaxAttempts,
			"backoff", wait.String(),
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.policy.Multiplier)
	}
}

func (e *Executor) breaker(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerHalfOpenMaxCalls,
		Timeout:     e.policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= e.policy.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classify(err).Record
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			e.logger.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
