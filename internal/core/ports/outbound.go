package ports

import (
	"context"
	"io"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

// UploadFile is one file handed to the backend for ingestion. The
// client never inspects the content; extraction belongs to the backend.
type UploadFile struct {
	Name string
	Body io.Reader
}

// DocumentGateway is the backend surface for document lifecycle calls.
// All state lives server-side; the client reads and requests, nothing
// more.
type DocumentGateway interface {
	List(ctx context.Context) ([]domain.Document, error)
	Get(ctx context.Context, id int64) (*domain.Document, error)
	Raw(ctx context.Context, id int64) (string, error)
	Markdown(ctx context.Context, id int64) (string, error)
	Upload(ctx context.Context, files []UploadFile, converter string) ([]domain.UploadReceipt, error)
	Delete(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64) error
}

// ChatGateway resolves one chat turn. The backend answers either as a
// single JSON payload or as an incrementally flushed text stream; both
// are hidden behind this one method. onChunk receives each decoded
// fragment in arrival order; returning an error from it aborts the
// turn. The returned answer always carries the complete text, plus
// sources when the backend answered in whole-JSON mode.
type ChatGateway interface {
	Chat(ctx context.Context, query string, onChunk func(fragment string) error) (*domain.ChatAnswer, error)
}

// SearchGateway runs a similarity search. Ranking is the backend's;
// results come back in rank order and stay that way.
type SearchGateway interface {
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)
}
