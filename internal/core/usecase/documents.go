package usecase

import (
	"context"
	"fmt"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

// CollectionCache holds the last fetched document collection for a
// bounded time. It is constructed explicitly and injected; there is no
// package-level cache.
type CollectionCache interface {
	Get() ([]domain.Document, bool)
	Put(docs []domain.Document)
	Invalidate()
}

// DocumentBrowser fronts the backend's document surface with a TTL
// cache over the collection. Mutations invalidate the whole cached
// collection instead of patching it: the next read refetches, so the
// client never diverges from backend state for longer than one fetch.
type DocumentBrowser struct {
	gateway ports.DocumentGateway
	cache   CollectionCache
}

var _ ports.DocumentBrowser = (*DocumentBrowser)(nil)

func NewDocumentBrowser(gateway ports.DocumentGateway, cache CollectionCache) *DocumentBrowser {
	return &DocumentBrowser{gateway: gateway, cache: cache}
}

func (b *DocumentBrowser) List(ctx context.Context) ([]domain.Document, error) {
	if docs, ok := b.cache.Get(); ok {
		return docs, nil
	}
	docs, err := b.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	b.cache.Put(docs)
	return docs, nil
}

func (b *DocumentBrowser) Get(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := b.gateway.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

func (b *DocumentBrowser) Raw(ctx context.Context, id int64) (string, error) {
	return b.gateway.Raw(ctx, id)
}

func (b *DocumentBrowser) Markdown(ctx context.Context, id int64) (string, error) {
	return b.gateway.Markdown(ctx, id)
}

// Upload sends the files in one multipart request. An empty file set is
// rejected locally before any network call.
func (b *DocumentBrowser) Upload(ctx context.Context, files []ports.UploadFile, converter string) ([]domain.UploadReceipt, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to upload", domain.ErrInvalidInput)
	}
	receipts, err := b.gateway.Upload(ctx, files, converter)
	if err != nil {
		return nil, fmt.Errorf("upload documents: %w", err)
	}
	b.cache.Invalidate()
	return receipts, nil
}

func (b *DocumentBrowser) Delete(ctx context.Context, id int64) error {
	if err := b.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	b.cache.Invalidate()
	return nil
}

// Retry asks the backend to reprocess a failed document. Only failure
// makes a document eligible; the observable stage reset shows up on a
// later poll, never simulated locally.
func (b *DocumentBrowser) Retry(ctx context.Context, id int64) error {
	doc, err := b.gateway.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document %d: %w", id, err)
	}
	if !doc.Retryable() {
		return fmt.Errorf("%w: document %d has not failed", domain.ErrInvalidInput, id)
	}
	if err := b.gateway.Retry(ctx, id); err != nil {
		return fmt.Errorf("retry document %d: %w", id, err)
	}
	b.cache.Invalidate()
	return nil
}
