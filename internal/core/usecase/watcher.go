package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

const DefaultPollInterval = 5 * time.Second

// Watcher refetches the whole document collection on a fixed interval
// and pushes each snapshot to a callback. The full refetch supersedes
// any per-document polling: staleness is bounded by the interval. The
// watcher reads the gateway directly, bypassing the collection cache,
// so a snapshot is never a cache hit.
type Watcher struct {
	gateway  ports.DocumentGateway
	logger   *slog.Logger
	interval time.Duration

	// stopWhenIdle stops the watch once every document is settled
	// (completed or failed). This deviates from the fixed-interval
	// behavior and is off by default.
	stopWhenIdle bool
}

type WatcherOption func(*Watcher)

func WithInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithStopWhenIdle() WatcherOption {
	return func(w *Watcher) {
		w.stopWhenIdle = true
	}
}

func NewWatcher(gateway ports.DocumentGateway, logger *slog.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		gateway:  gateway,
		logger:   logger,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch fetches immediately, then on every tick, until ctx is done. A
// failed fetch is logged and the watch keeps going; the next tick gets
// a fresh chance. Returns nil on a clean stop.
func (w *Watcher) Watch(ctx context.Context, fn func([]domain.Document)) error {
	if done, err := w.poll(ctx, fn); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		w.logger.Warn("document_poll_failed", "error", err)
	} else if done {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			done, err := w.poll(ctx, fn)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Warn("document_poll_failed", "error", err)
				continue
			}
			if done {
				return nil
			}
		}
	}
}

func (w *Watcher) poll(ctx context.Context, fn func([]domain.Document)) (bool, error) {
	docs, err := w.gateway.List(ctx)
	if err != nil {
		return false, err
	}
	fn(docs)

	if !w.stopWhenIdle {
		return false, nil
	}
	for _, doc := range docs {
		if !doc.Settled() {
			return false, nil
		}
	}
	return true, nil
}
