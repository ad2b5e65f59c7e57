package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dkotenko/inteldocs-cli/internal/config"
	"github.com/dkotenko/inteldocs-cli/internal/core/usecase"
	"github.com/dkotenko/inteldocs-cli/internal/infrastructure/backend"
	"github.com/dkotenko/inteldocs-cli/internal/infrastructure/doccache"
	"github.com/dkotenko/inteldocs-cli/internal/infrastructure/resilience"
	"github.com/dkotenko/inteldocs-cli/internal/observability/logging"
	"github.com/dkotenko/inteldocs-cli/internal/observability/metrics"
)

// App wires the client together with explicit lifecycles: one config,
// one logger, one gateway, one cache. Nothing hides in package state.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ClientMetrics

	Gateway  *backend.Client
	Browser  *usecase.DocumentBrowser
	Searcher *usecase.Searcher

	metricsServer *http.Server
}

func New(cfg config.Config) *App {
	logger := logging.NewLogger("inteldocs-cli", cfg.LogLevel, cfg.LogFormat)
	clientMetrics := metrics.NewClientMetrics("inteldocs-cli")

	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.BreakerEnabled = cfg.BreakerEnabled
	executor := resilience.NewExecutor(policy, logger)

	gateway := backend.New(cfg.APIBaseURL, backend.Options{
		HTTPClient:        &http.Client{Timeout: cfg.HTTPTimeoutDuration()},
		Executor:          executor,
		Metrics:           clientMetrics,
		Logger:            logger,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RateBurst:         cfg.RateBurst,
	})

	cache := doccache.NewCollection(cfg.CacheTTLDuration())
	browser := usecase.NewDocumentBrowser(gateway, cache)
	searcher := usecase.NewSearcher(gateway)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  clientMetrics,
		Gateway:  gateway,
		Browser:  browser,
		Searcher: searcher,
	}

	if cfg.MetricsAddr != "" {
		app.metricsServer = &http.Server{
			Addr:        cfg.MetricsAddr,
			Handler:     clientMetrics.Handler(),
			ReadTimeout: 10 * time.Second,
		}
		go func() {
			if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	return app
}

// NewChatSession builds a session against the shared gateway. Each
// invocation is an independent transcript.
func (a *App) NewChatSession(notify func()) *usecase.ChatSession {
	return usecase.NewChatSession(a.Gateway, notify)
}

// NewWatcher builds a poller over the gateway, bypassing the cache.
func (a *App) NewWatcher(opts ...usecase.WatcherOption) *usecase.Watcher {
	base := []usecase.WatcherOption{usecase.WithInterval(a.Config.PollIntervalDuration())}
	return usecase.NewWatcher(a.Gateway, a.Logger, append(base, opts...)...)
}

func (a *App) Close() {
	if a.metricsServer != nil {
		_ = a.metricsServer.Close()
	}
}
