package backend

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/dkotenko/inteldocs-cli/internal/infrastructure/resilience"
)

// readClassifier governs idempotent fetches: transient failures are
// retried and count against the breaker; everything else fails fast.
func readClassifier(err error) resilience.Verdict {
	return classify(err, true)
}

// mutationClassifier governs upload/delete/retry: never retried
// automatically (the user decides whether to repeat a mutation), but
// transient failures still feed the breaker.
func mutationClassifier(err error) resilience.Verdict {
	return classify(err, false)
}

// chatClassifier governs chat turns: like mutations, a replay would
// duplicate output the consumer already rendered.
func chatClassifier(err error) resilience.Verdict {
	return classify(err, false)
}

func classify(err error, retryTransient bool) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{Retry: retryTransient, Record: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isTransientStatus(statusErr.StatusCode) {
			return resilience.Verdict{Retry: retryTransient, Record: true}
		}
		return resilience.Verdict{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retry: retryTransient, Record: true}
	}

	return resilience.Verdict{Record: true}
}

func isTransientStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
