package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
	"github.com/dkotenko/inteldocs-cli/internal/infrastructure/resilience"
	"github.com/dkotenko/inteldocs-cli/internal/observability/metrics"
)

// Client talks to the inteldocs backend REST API. It implements the
// document, chat, and search gateways. All state lives server-side;
// the client holds only transport machinery.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	metrics    *metrics.ClientMetrics
	logger     *slog.Logger
}

type Options struct {
	// HTTPClient overrides the default client. The chat endpoint holds
	// the connection open while the answer streams, so the default
	// timeout is generous.
	HTTPClient *http.Client
	// Executor applies retry and circuit breaking. Nil disables both.
	Executor *resilience.Executor
	// Metrics records request outcomes. Nil disables recording.
	Metrics *metrics.ClientMetrics
	Logger  *slog.Logger
	// RequestsPerSecond gates all outbound calls. Zero means no limit.
	RequestsPerSecond float64
	RateBurst         int
}

func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		executor:   opts.Executor,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

var (
	_ ports.DocumentGateway = (*Client)(nil)
	_ ports.ChatGateway     = (*Client)(nil)
	_ ports.SearchGateway   = (*Client)(nil)
)

func (c *Client) List(ctx context.Context) ([]domain.Document, error) {
	var payload []documentPayload
	err := c.run(ctx, "list_documents", readClassifier, func(ctx context.Context) error {
		return c.getJSON(ctx, "/documents", &payload, "list documents")
	})
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(payload))
	for _, p := range payload {
		doc, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*domain.Document, error) {
	var payload documentPayload
	err := c.run(ctx, "get_document", readClassifier, func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("/documents/%d", id), &payload, "get document")
	})
	if err != nil {
		return nil, err
	}
	doc, err := payload.toDomain()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Raw returns the stored original file content as text.
func (c *Client) Raw(ctx context.Context, id int64) (string, error) {
	var content string
	err := c.run(ctx, "get_document_raw", readClassifier, func(ctx context.Context) error {
		var err error
		content, err = c.getText(ctx, fmt.Sprintf("/documents/%d/raw", id), "get raw document")
		return err
	})
	return content, err
}

// Markdown returns the recombined markdown rendering of a processed
// document.
func (c *Client) Markdown(ctx context.Context, id int64) (string, error) {
	var payload struct {
		Content string `json:"content"`
	}
	err := c.run(ctx, "get_document_markdown", readClassifier, func(ctx context.Context) error {
		return c.getJSON(ctx, fmt.Sprintf("/documents/%d/markdown", id), &payload, "get markdown")
	})
	return payload.Content, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.run(ctx, "delete_document", mutationClassifier, func(ctx context.Context) error {
		return c.send(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d/delete", id), nil, "delete document")
	})
}

// Retry asks the backend to restart processing of a failed document
// from the stage it reached. Fire-and-forget: the stage reset becomes
// visible on a later poll.
func (c *Client) Retry(ctx context.Context, id int64) error {
	return c.run(ctx, "retry_document", mutationClassifier, func(ctx context.Context) error {
		return c.send(ctx, http.MethodPost, fmt.Sprintf("/documents/%d/retry/", id), nil, "retry document")
	})
}

func (c *Client) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	path := "/documents/search?" + searchParams(query)
	var payload []searchResultPayload
	err := c.run(ctx, "search_documents", readClassifier, func(ctx context.Context) error {
		return c.getJSON(ctx, path, &payload, "search documents")
	})
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(payload))
	for _, p := range payload {
		results = append(results, p.toDomain())
	}
	return results, nil
}

// run wraps one logical backend operation with rate limiting,
// resilience, and metrics.
func (c *Client) run(ctx context.Context, operation string, classify resilience.Classifier, fn func(context.Context) error) error {
	start := time.Now()
	err := c.execute(ctx, operation, classify, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return fn(ctx)
	})
	if c.metrics != nil {
		c.metrics.ObserveRequest(operation, time.Since(start), err)
	}
	return err
}

func (c *Client) execute(ctx context.Context, operation string, classify resilience.Classifier, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Run(ctx, operation, classify, fn)
}
